// Package ocr provides text extraction from scanned documents using Google
// Cloud OCR services. PDFs go through a Document AI OCR processor; JPEG and
// PNG scans go through the Cloud Vision API.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_CLOUD_PROJECT: Google Cloud project ID
//   - DOCUMENT_AI_PROCESSOR_ID: OCR processor ID (PDF path)
//
// API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Supported formats: PDF, JPEG, PNG
package ocr

import (
	"context"
	"time"
)

// MaxFileSizeBytes is the maximum document size for synchronous processing (20MB).
const MaxFileSizeBytes = 20 * 1024 * 1024

// Service defines the interface for OCR text extraction.
type Service interface {
	// ExtractText extracts text from a document given its raw bytes and
	// MIME type ("application/pdf", "image/jpeg", "image/png").
	ExtractText(ctx context.Context, data []byte, mimeType string) (*Result, error)
}

// Result contains the extracted text with processing metadata.
type Result struct {
	// Text is the extracted text content in reading order.
	Text string `json:"text"`

	// PageCount is the number of pages processed (0 for images).
	PageCount int `json:"page_count"`

	// Confidence is the average confidence across detected text (0.0 to 1.0).
	Confidence float32 `json:"confidence"`

	// ProcessedAt is when the OCR processing completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long the OCR processing took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}

// Router dispatches documents to the right backend by MIME type: PDFs to the
// Document AI service, images to the Vision service.
type Router struct {
	PDF   Service
	Image Service
}

// ExtractText implements Service.
func (r *Router) ExtractText(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	const op = "Router.ExtractText"

	switch mimeType {
	case "application/pdf":
		return r.PDF.ExtractText(ctx, data, mimeType)
	case "image/jpeg", "image/png":
		return r.Image.ExtractText(ctx, data, mimeType)
	default:
		return nil, WrapOCRError(op, ErrUnsupportedFormat, mimeType)
	}
}
