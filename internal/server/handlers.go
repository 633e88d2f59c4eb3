package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"autoform/internal/extraction"
	"autoform/internal/formfill"
	"autoform/pkg/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type extractResponse struct {
	Data            *models.FormA28Data `json:"data"`
	FieldsExtracted int                 `json:"fields_extracted"`
}

type fillResponse struct {
	SessionID        string                  `json:"session_id"`
	FieldsAttempted  int                     `json:"fields_attempted"`
	FieldsFilled     int                     `json:"fields_filled"`
	Outcomes         []formfill.FieldOutcome `json:"outcomes"`
	ScreenshotBase64 string                  `json:"screenshot_base64,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExtract accepts a multipart upload with "passport" and "g28" files
// and returns the extracted form data. Either file may be omitted, but not
// both.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}

	docs := make([]extraction.Document, 0, 2)
	for _, kind := range []string{extraction.KindPassport, extraction.KindG28} {
		doc, ok, err := readUpload(r, kind)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if !ok {
			continue
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		s.writeError(w, http.StatusBadRequest, "provide at least one document (passport or g28)")
		return
	}

	data, err := s.extractor.Extract(r.Context(), docs)
	if err != nil {
		s.log.Error().Err(err).Msg("Extraction failed")
		s.writeError(w, extractionStatus(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, extractResponse{
		Data:            data,
		FieldsExtracted: data.CountSet(),
	})
}

// handleFill accepts extracted form data as JSON and fills the online form.
func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var data models.FormA28Data
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&data); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	result, err := s.filler.Fill(r.Context(), &data)
	if err != nil {
		s.log.Error().Err(err).Msg("Form fill failed")
		s.writeError(w, fillStatus(err), err.Error())
		return
	}

	resp := fillResponse{
		SessionID:       result.SessionID,
		FieldsAttempted: result.FieldsAttempted,
		FieldsFilled:    result.FieldsFilled,
		Outcomes:        result.Outcomes,
	}
	if len(result.Screenshot) > 0 {
		resp.ScreenshotBase64 = base64.StdEncoding.EncodeToString(result.Screenshot)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// readUpload pulls one named file out of the multipart form. An absent part
// is reported via the bool, not as an error.
func readUpload(r *http.Request, kind string) (extraction.Document, bool, error) {
	file, header, err := r.FormFile(kind)
	if errors.Is(err, http.ErrMissingFile) {
		return extraction.Document{}, false, nil
	}
	if err != nil {
		return extraction.Document{}, false, errors.New("invalid upload for file: " + kind)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return extraction.Document{}, false, errors.New("failed to read file: " + kind)
	}

	return extraction.Document{
		Kind: kind,
		Name: header.Filename,
		MIME: extraction.DetectMIME(header.Filename, data),
		Data: data,
	}, true, nil
}

func extractionStatus(err error) int {
	switch {
	case errors.Is(err, extraction.ErrNoDocuments),
		errors.Is(err, extraction.ErrInvalidDocument),
		errors.Is(err, extraction.ErrDocumentTooLarge),
		errors.Is(err, extraction.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, extraction.ErrMissingAPIKey):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func fillStatus(err error) int {
	switch {
	case errors.Is(err, formfill.ErrNoData):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
