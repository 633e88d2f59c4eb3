package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	name   string
	called *string
}

func (s *stubService) ExtractText(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	*s.called = s.name
	return &Result{Text: s.name}, nil
}

func TestRouterDispatchesByMIMEType(t *testing.T) {
	var called string
	router := &Router{
		PDF:   &stubService{name: "pdf", called: &called},
		Image: &stubService{name: "image", called: &called},
	}

	cases := []struct {
		mime string
		want string
	}{
		{"application/pdf", "pdf"},
		{"image/jpeg", "image"},
		{"image/png", "image"},
	}

	for _, tc := range cases {
		result, err := router.ExtractText(context.Background(), []byte("data"), tc.mime)
		require.NoError(t, err, tc.mime)
		assert.Equal(t, tc.want, called)
		assert.Equal(t, tc.want, result.Text)
	}
}

func TestRouterRejectsUnknownFormat(t *testing.T) {
	var called string
	router := &Router{
		PDF:   &stubService{name: "pdf", called: &called},
		Image: &stubService{name: "image", called: &called},
	}

	_, err := router.ExtractText(context.Background(), []byte("data"), "text/html")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, called, "no backend should run for unsupported formats")
}

func TestWrapOCRError(t *testing.T) {
	wrapped := WrapOCRError("ExtractText", ErrDocumentTooLarge, "file size: 999 bytes")
	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, ErrDocumentTooLarge)
	assert.Contains(t, wrapped.Error(), "ExtractText")
	assert.Contains(t, wrapped.Error(), "999 bytes")

	// Wrapping an already-wrapped error must not nest another layer.
	double := WrapOCRError("Outer", wrapped, "again")
	assert.Equal(t, wrapped, double)

	assert.NoError(t, WrapOCRError("ExtractText", nil, ""))
}

func TestDocumentAIRejectsBadInput(t *testing.T) {
	svc := NewDocumentAIServiceWithConfig(DocumentAIConfig{
		ProjectID:   "proj",
		Location:    "us",
		ProcessorID: "proc",
	}, nil)

	_, err := svc.ExtractText(context.Background(), []byte("not a pdf"), "application/pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	big := make([]byte, MaxFileSizeBytes+1)
	copy(big, "%PDF")
	_, err = svc.ExtractText(context.Background(), big, "application/pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentTooLarge)

	var ocrErr *OCRError
	require.True(t, errors.As(err, &ocrErr))
	assert.Equal(t, "DocumentAIService.ExtractText", ocrErr.Op)
}
