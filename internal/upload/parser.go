// Package upload reads dataset files from multipart requests and rejects
// anything the storage pipeline should not see.
package upload

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

// Messages reported to clients. They are produced locally and safe to expose.
const (
	MsgFileTooLarge    = "File too large"
	MsgFileEmpty       = "File is empty"
	MsgNotMultipart    = "Expected multipart/form-data request"
	MsgTooManyFiles    = "Only one file may be uploaded"
	MsgUnexpectedField = "Unexpected field"
	MsgUnreadable      = "Uploaded file could not be read"
	msgMissingFile     = "Expected a file in field %q"
	msgUnsupportedType = "Unsupported file type %q"
	msgContentMismatch = "File content %s does not match extension %s"
)

// families maps known extensions to the MIME type their sniffed content must
// descend from. Extensions without an entry are accepted on name alone.
var families = map[string]string{
	".csv":  "text/plain",
	".tsv":  "text/plain",
	".json": "text/plain",
	".xlsx": "application/zip",
	".xls":  "application/x-ole-storage",
}

// Config bounds accepted uploads
type Config struct {
	MaxBytes   int64
	FormField  string
	Extensions []string
}

// File is an accepted upload.
type File struct {
	Name        string
	Ext         string
	Size        int64
	ContentType string

	header *multipart.FileHeader
}

// Open opens the uploaded content for reading
func (f *File) Open() (multipart.File, error) {
	return f.header.Open()
}

// Parser validates a single file upload. It is safe for concurrent use.
type Parser struct {
	maxBytes   int64
	field      string
	extensions map[string]struct{}
}

// NewParser creates a new upload parser
func NewParser(cfg Config) *Parser {
	field := cfg.FormField
	if field == "" {
		field = "file"
	}
	exts := make(map[string]struct{}, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	return &Parser{maxBytes: cfg.MaxBytes, field: field, extensions: exts}
}

// Field returns the form field files are read from
func (p *Parser) Field() string {
	return p.field
}

// Parse reads the request's file. Every rejection is an *errors.UploadError.
func (p *Parser) Parse(c *fiber.Ctx) (*File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return nil, apperrors.Upload(MsgNotMultipart).WithField(p.field)
		}
		return nil, apperrors.Upload(MsgUnreadable).WithField(p.field).WithError(err)
	}

	headers := form.File[p.field]
	if len(headers) == 0 {
		for name := range form.File {
			return nil, apperrors.Upload(MsgUnexpectedField).WithField(name)
		}
		return nil, apperrors.Uploadf(msgMissingFile, p.field).WithField(p.field)
	}
	if len(headers) > 1 {
		return nil, apperrors.Upload(MsgTooManyFiles).WithField(p.field)
	}

	return p.check(headers[0])
}

func (p *Parser) check(header *multipart.FileHeader) (*File, error) {
	if p.maxBytes > 0 && header.Size > p.maxBytes {
		return nil, apperrors.Upload(MsgFileTooLarge).WithField(p.field)
	}
	if header.Size == 0 {
		return nil, apperrors.Upload(MsgFileEmpty).WithField(p.field)
	}

	name := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := p.extensions[ext]; !ok {
		return nil, apperrors.Uploadf(msgUnsupportedType, ext).WithField(p.field)
	}

	mtype, err := sniff(header)
	if err != nil {
		return nil, apperrors.Upload(MsgUnreadable).WithField(p.field).WithError(err)
	}
	if family, ok := families[ext]; ok && !descendsFrom(mtype, family) {
		return nil, apperrors.Uploadf(msgContentMismatch, mtype.String(), ext).WithField(p.field)
	}

	return &File{
		Name:        name,
		Ext:         ext,
		Size:        header.Size,
		ContentType: mtype.String(),
		header:      header,
	}, nil
}

func sniff(header *multipart.FileHeader) (*mimetype.MIME, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return mimetype.DetectReader(f)
}

func descendsFrom(m *mimetype.MIME, family string) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(family) {
			return true
		}
	}
	return false
}
