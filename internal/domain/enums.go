package domain

// ChartType is the visualization a project renders its datasets as
type ChartType string

const (
	ChartTypeBar     ChartType = "bar"
	ChartTypeLine    ChartType = "line"
	ChartTypePie     ChartType = "pie"
	ChartTypeScatter ChartType = "scatter"
	ChartTypeArea    ChartType = "area"
	ChartTypeTable   ChartType = "table"
)

// IsValid checks if the chart type is valid
func (c ChartType) IsValid() bool {
	switch c {
	case ChartTypeBar, ChartTypeLine, ChartTypePie, ChartTypeScatter, ChartTypeArea, ChartTypeTable:
		return true
	}
	return false
}

// DatasetStatus tracks visualization generation for a dataset
type DatasetStatus string

const (
	DatasetStatusPending    DatasetStatus = "pending"
	DatasetStatusProcessing DatasetStatus = "processing"
	DatasetStatusReady      DatasetStatus = "ready"
	DatasetStatusFailed     DatasetStatus = "failed"
)

// IsValid checks if the dataset status is valid
func (s DatasetStatus) IsValid() bool {
	switch s {
	case DatasetStatusPending, DatasetStatusProcessing, DatasetStatusReady, DatasetStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true once generation has finished
func (s DatasetStatus) IsTerminal() bool {
	return s == DatasetStatusReady || s == DatasetStatusFailed
}
