package errors

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// DefaultStorageLabel names object storage failures in responses. Legacy
// failures mentioning it are always treated as storage failures.
const DefaultStorageLabel = "Cloudinary"

const (
	messageUpload     = "File upload error"
	messageValidation = "Validation error"
	messageDuplicate  = "Duplicate field value entered"
	messageServer     = "Server Error"

	detailStorage = "Error uploading file to cloud storage"
	errorHidden   = "Internal server error"
)

// uploadKeywords are matched case-sensitively against legacy failure messages.
var uploadKeywords = []string{"upload", "file", "storage"}

// Rule names the classification rule that produced an Envelope.
type Rule string

const (
	RuleUpload          Rule = "upload"
	RuleStorage         Rule = "storage"
	RuleUploadHeuristic Rule = "upload_heuristic"
	RuleValidation      Rule = "validation"
	RuleDuplicate       Rule = "duplicate"
	RuleFallback        Rule = "fallback"
)

// Envelope is the response body every failed request receives.
type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Rule       Rule   `json:"-"`
}

// ClassifierOptions configures a Classifier.
type ClassifierOptions struct {
	// Production hides diagnostic traces from unclassified failures.
	Production bool
	// StorageLabel replaces DefaultStorageLabel in storage failure messages
	// and is matched against legacy messages in addition to it. Empty keeps
	// the default.
	StorageLabel string
}

// Classifier maps failures to response envelopes. It holds no mutable state
// and is safe for concurrent use.
type Classifier struct {
	logger          *zap.Logger
	production      bool
	label           string
	storageKeywords []string
}

// NewClassifier creates a new classifier
func NewClassifier(logger *zap.Logger, opts ClassifierOptions) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	label := opts.StorageLabel
	keywords := []string{DefaultStorageLabel}
	if label == "" {
		label = DefaultStorageLabel
	} else if label != DefaultStorageLabel {
		keywords = append(keywords, label)
	}
	return &Classifier{
		logger:          logger,
		production:      opts.Production,
		label:           label,
		storageKeywords: keywords,
	}
}

// Classify describes err and classifies the result.
func (c *Classifier) Classify(err error) Envelope {
	return c.ClassifyDescriptor(Describe(err))
}

// ClassifyDescriptor produces the envelope for d. It never fails: a descriptor
// with no recognisable attributes falls through to a 500 "Server Error".
func (c *Classifier) ClassifyDescriptor(d Descriptor) Envelope {
	c.logger.Error("request failed", zap.String("message", d.Message))
	c.logger.Error("request failure trace", zap.String("trace", d.Trace))

	switch {
	case d.KindHint == KindUploadParse:
		return failure(http.StatusBadRequest, messageUpload, d.Message, RuleUpload)

	case c.isStorage(d):
		c.logger.Error("object storage failure", zap.Object("failure", d))
		env := failure(statusOr(d.HTTPStatus, http.StatusBadRequest), c.label+" error", d.Message, RuleStorage)
		env.Details = d.ProviderDetail
		if env.Details == "" {
			env.Details = detailStorage
		}
		return env

	case !d.Structured && containsAny(d.Message, uploadKeywords):
		return failure(http.StatusBadRequest, messageUpload, d.Message, RuleUploadHeuristic)

	case d.KindHint == KindValidation:
		msgs := make([]string, 0, len(d.ValidationEntries))
		for _, entry := range d.ValidationEntries {
			msgs = append(msgs, entry.Message)
		}
		return failure(http.StatusBadRequest, messageValidation, strings.Join(msgs, ", "), RuleValidation)

	case d.DuplicateCode == DuplicateKeyCode:
		return failure(http.StatusBadRequest, messageDuplicate, strings.Join(d.DuplicateKey, ", "), RuleDuplicate)
	}

	message := d.Message
	if message == "" {
		message = messageServer
	}

	detail := errorHidden
	if !c.production {
		detail = d.Trace
		if detail == "" {
			detail = message
		}
	}

	return failure(statusOr(d.DeclaredStatus, http.StatusInternalServerError), message, detail, RuleFallback)
}

func (c *Classifier) isStorage(d Descriptor) bool {
	if d.StorageProvider != "" || d.HTTPStatus != 0 {
		return true
	}
	return !d.Structured && containsAny(d.Message, c.storageKeywords)
}

func failure(status int, message, detail string, rule Rule) Envelope {
	return Envelope{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Error:      detail,
		Rule:       rule,
	}
}

// statusOr returns status when one is present. Zero and values no response
// with a body can carry fall back.
func statusOr(status, fallback int) int {
	if status >= 200 && status <= 599 {
		return status
	}
	return fallback
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
