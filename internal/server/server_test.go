package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoform/internal/extraction"
	"autoform/internal/formfill"
	"autoform/pkg/models"
)

type stubExtractor struct {
	data *models.FormA28Data
	err  error
	docs []extraction.Document
}

func (s *stubExtractor) Extract(_ context.Context, docs []extraction.Document) (*models.FormA28Data, error) {
	s.docs = docs
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

type stubFiller struct {
	result *formfill.FillResult
	err    error
	data   *models.FormA28Data
}

func (s *stubFiller) Fill(_ context.Context, data *models.FormA28Data) (*formfill.FillResult, error) {
	s.data = data
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := writer.CreateFormFile(name, name+".pdf")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestHandleExtract(t *testing.T) {
	extractor := &stubExtractor{data: &models.FormA28Data{BeneficiaryLastName: "Jonas", PassportNumber: "C03005988"}}
	srv := New(":0", extractor, &stubFiller{})

	body, contentType := multipartBody(t, map[string][]byte{
		"passport": []byte("%PDF-1.7 passport"),
		"g28":      []byte("%PDF-1.7 g28"),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp extractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Jonas", resp.Data.BeneficiaryLastName)
	assert.Equal(t, 2, resp.FieldsExtracted)

	require.Len(t, extractor.docs, 2)
	assert.Equal(t, extraction.KindPassport, extractor.docs[0].Kind)
	assert.Equal(t, "application/pdf", extractor.docs[0].MIME)
	assert.Equal(t, extraction.KindG28, extractor.docs[1].Kind)
}

func TestHandleExtractPassportOnly(t *testing.T) {
	extractor := &stubExtractor{data: &models.FormA28Data{PassportNumber: "C03005988"}}
	srv := New(":0", extractor, &stubFiller{})

	body, contentType := multipartBody(t, map[string][]byte{
		"passport": []byte("%PDF-1.7 passport"),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, extractor.docs, 1)
	assert.Equal(t, extraction.KindPassport, extractor.docs[0].Kind)
}

func TestHandleExtractNoFiles(t *testing.T) {
	srv := New(":0", &stubExtractor{}, &stubFiller{})

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "provide at least one document")
}

func TestHandleExtractUpstreamError(t *testing.T) {
	extractor := &stubExtractor{err: extraction.NewExtractionError("Extract", extraction.ErrExtractionFailed, "model unavailable")}
	srv := New(":0", extractor, &stubFiller{})

	body, contentType := multipartBody(t, map[string][]byte{
		"passport": []byte("%PDF-1.7"),
		"g28":      []byte("%PDF-1.7"),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleFill(t *testing.T) {
	filler := &stubFiller{result: &formfill.FillResult{
		SessionID:       "sess-42",
		FieldsAttempted: 3,
		FieldsFilled:    2,
		Outcomes: []formfill.FieldOutcome{
			{Selector: "#a", Value: "1", Filled: true},
			{Selector: "#b", Value: "2", Filled: true},
			{Selector: "#c", Value: "3", Error: "no matching element"},
		},
		Screenshot: []byte("png-bytes"),
	}}
	srv := New(":0", &stubExtractor{}, filler)

	req := httptest.NewRequest(http.MethodPost, "/api/fill",
		strings.NewReader(`{"beneficiary_last_name":"Jonas"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp fillResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sess-42", resp.SessionID)
	assert.Equal(t, 2, resp.FieldsFilled)
	assert.Len(t, resp.Outcomes, 3)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png-bytes")), resp.ScreenshotBase64)

	require.NotNil(t, filler.data)
	assert.Equal(t, "Jonas", filler.data.BeneficiaryLastName)
}

func TestHandleFillBadJSON(t *testing.T) {
	srv := New(":0", &stubExtractor{}, &stubFiller{})

	req := httptest.NewRequest(http.MethodPost, "/api/fill", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleFillNoData(t *testing.T) {
	filler := &stubFiller{err: formfill.NewFormFillError("Fill", formfill.ErrNoData, "all fields are empty")}
	srv := New(":0", &stubExtractor{}, filler)

	req := httptest.NewRequest(http.MethodPost, "/api/fill", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := New(":0", &stubExtractor{}, &stubFiller{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleIndex(t *testing.T) {
	srv := New(":0", &stubExtractor{}, &stubFiller{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Document to Form Autofill")
}
