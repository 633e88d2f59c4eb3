package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// VisionService implements Service for image scans (JPEG/PNG) using the
// Google Cloud Vision API's document text detection.
type VisionService struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionService creates the service with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env.
func NewVisionService(ctx context.Context) (Service, error) {
	const op = "NewVisionService"

	var client *vision.ImageAnnotatorClient
	var err error

	// Check for inline credentials first
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &VisionService{client: client}, nil
}

// NewVisionServiceWithClient creates the service with an explicit client (for testing).
func NewVisionServiceWithClient(client *vision.ImageAnnotatorClient) Service {
	return &VisionService{client: client}
}

// ExtractText runs document text detection on an image scan.
func (g *VisionService) ExtractText(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	const op = "VisionService.ExtractText"
	startTime := time.Now()

	if len(data) > MaxFileSizeBytes {
		return nil, WrapOCRError(op, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes", len(data)))
	}
	if len(data) == 0 {
		return nil, WrapOCRError(op, ErrInvalidDocument, "empty image")
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}

	if len(resp.Responses) == 0 {
		return nil, WrapOCRError(op, ErrOCRFailed, "no response from Vision API")
	}

	annotation := resp.Responses[0]
	if annotation.Error != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API error: %s", annotation.Error.Message))
	}

	if annotation.FullTextAnnotation == nil || strings.TrimSpace(annotation.FullTextAnnotation.Text) == "" {
		return nil, WrapOCRError(op, ErrEmptyDocument, "")
	}

	// Average the confidence across individual text annotations
	var confidenceSum float32
	var confidenceCount int
	for _, textAnnotation := range annotation.TextAnnotations {
		if textAnnotation.Confidence > 0 {
			confidenceSum += textAnnotation.Confidence
			confidenceCount++
		}
	}
	var avgConfidence float32
	if confidenceCount > 0 {
		avgConfidence = confidenceSum / float32(confidenceCount)
	}

	result := &Result{
		Text:       annotation.FullTextAnnotation.Text,
		Confidence: avgConfidence,
	}
	result.ProcessedAt = time.Now()
	result.ProcessingDuration = result.ProcessedAt.Sub(startTime)

	return result, nil
}

// Close closes the underlying Vision client.
func (g *VisionService) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
