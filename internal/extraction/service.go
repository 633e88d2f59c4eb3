// Package extraction turns scanned passport and G-28 documents into
// structured Form A-28 data using hosted AI services.
//
// Two backends are available:
//   - Gemini (default): documents are uploaded through the Gemini Files API
//     and a single multimodal generation call returns the field mapping as
//     JSON constrained by a response schema.
//   - OCR: documents are OCR'd first (Document AI for PDFs, Cloud Vision for
//     images) and an OpenAI chat completion maps the raw text to the fields.
//
// Both backends share the field registry in pkg/models, so the prompt, the
// response schema, and the decoder always agree on field names.
package extraction

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"autoform/pkg/models"
)

// Document kinds accepted by the extractor.
const (
	KindPassport = "passport"
	KindG28      = "g28"
)

// MaxDocumentSizeBytes is the maximum document size accepted before any
// vendor call is made (20MB, the synchronous limit of every backend).
const MaxDocumentSizeBytes = 20 * 1024 * 1024

// Document is one uploaded file to extract from. Valid for the duration of a
// single request; nothing is persisted.
type Document struct {
	Kind string // KindPassport or KindG28
	Name string // original file name, for logging and display names
	MIME string // "application/pdf", "image/jpeg", "image/png"
	Data []byte
}

// Extractor extracts Form A-28 data from one or two documents.
type Extractor interface {
	Extract(ctx context.Context, docs []Document) (*models.FormA28Data, error)
}

// DetectMIME sniffs the document content type, falling back to the file
// extension for formats the sniffer cannot tell apart.
func DetectMIME(name string, data []byte) string {
	mime := http.DetectContentType(data)
	if mime != "application/octet-stream" && mime != "text/plain; charset=utf-8" {
		return mime
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	}
	return mime
}

// validateDocuments applies the local checks that run before any vendor call.
func validateDocuments(op string, docs []Document) error {
	if len(docs) == 0 {
		return WrapExtractionError(op, ErrNoDocuments, "")
	}
	for _, doc := range docs {
		if len(doc.Data) == 0 {
			return WrapExtractionError(op, ErrInvalidDocument, doc.Name+" is empty")
		}
		if len(doc.Data) > MaxDocumentSizeBytes {
			return WrapExtractionError(op, ErrDocumentTooLarge, doc.Name)
		}
		switch doc.MIME {
		case "application/pdf", "image/jpeg", "image/png":
		default:
			return WrapExtractionError(op, ErrUnsupportedFormat, doc.MIME)
		}
	}
	return nil
}
