package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/balkon/internal/calc"
	"github.com/phenrril/balkon/internal/pdfgen"
	"github.com/phenrril/balkon/internal/usecase"
)

type pdfRequest struct {
	Payload *calc.Payload `json:"payload"`
}

// decodePayload reads {payload}. A missing payload is reported by the use
// case so every endpoint answers it the same way; a body that is not JSON is
// ErrPayloadMalformed.
func decodePayload(w http.ResponseWriter, r *http.Request, okField bool) (*calc.Payload, bool) {
	var req pdfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePDFError(w, r, fmt.Errorf("%w: %v", usecase.ErrPayloadMalformed, err), okField)
		return nil, false
	}
	return req.Payload, true
}

func (s *Server) pdfGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	p, ok := decodePayload(w, r, false)
	if !ok {
		return
	}
	doc, err := s.quotes.Generate(r.Context(), p)
	if err != nil {
		writePDFError(w, r, err, false)
		return
	}
	writePDF(w, doc)
}

func (s *Server) pdfGenerateAndEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	p, ok := decodePayload(w, r, true)
	if !ok {
		return
	}
	res, err := s.quotes.GenerateAndEmail(r.Context(), p)
	if err != nil {
		s.writeSendError(w, r, err, res)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"message":       "Dokument bol odoslaný na " + res.Recipient + ".",
		"document_code": res.Document.Code,
		"attachments":   res.Attachments,
	})
}

func (s *Server) pdfGenerateAndOffer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	p, ok := decodePayload(w, r, true)
	if !ok {
		return
	}
	res, err := s.quotes.GenerateAndOffer(r.Context(), p)
	if err != nil {
		s.writeSendError(w, r, err, res)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"message":       "Ďakujeme, dopyt sme prijali a kalkuláciu poslali na " + res.Recipient + ".",
		"document_code": res.Document.Code,
	})
}

// pdfJobs queues a render and answers 202 with the job id.
func (s *Server) pdfJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	p, ok := decodePayload(w, r, false)
	if !ok {
		return
	}
	prepared, err := s.quotes.Prepare(r.Context(), p)
	if err != nil {
		writePDFError(w, r, err, false)
		return
	}
	id, err := s.jobs.Submit(prepared)
	if err != nil {
		writePDFError(w, r, err, false)
		return
	}
	st, _ := s.jobs.Status(id)
	w.Header().Set("Location", jobPath(id))
	writeJSON(w, http.StatusAccepted, map[string]any{
		"id":       id,
		"state":    st.State,
		"status":   jobPath(id),
		"download": jobPath(id) + "/file",
	})
}

func jobPath(id string) string { return "/pdf/jobs/" + id }

// pdfJobByID serves GET /pdf/jobs/{id}, GET /pdf/jobs/{id}/file and
// POST /pdf/jobs/{id}/email.
func (s *Server) pdfJobByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/pdf/jobs/"), "/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" || (sub != "" && sub != "file" && sub != "email") {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	want := http.MethodGet
	if sub == "email" {
		want = http.MethodPost
	}
	if r.Method != want {
		methodNotAllowed(w, want)
		return
	}
	st, ok := s.jobs.Status(id)
	if !ok {
		writeMessage(w, http.StatusNotFound, "unknown or expired job")
		return
	}
	switch sub {
	case "":
		writeJSON(w, http.StatusOK, st)
	case "file":
		s.pdfJobFile(w, r, id)
	case "email":
		s.pdfJobEmail(w, r, id, st)
	}
}

func (s *Server) pdfJobFile(w http.ResponseWriter, r *http.Request, id string) {
	doc, finished, err := s.jobs.Result(id)
	switch {
	case !finished:
		w.Header().Set("Retry-After", "1")
		writeMessage(w, http.StatusConflict, "document is not ready yet")
	case err != nil:
		writePDFError(w, r, err, false)
	default:
		writePDF(w, doc)
	}
}

// pdfJobEmail mails the stored document of a finished job to the address in
// its payload. The body is ignored so the recipient cannot be changed.
func (s *Server) pdfJobEmail(w http.ResponseWriter, r *http.Request, id string, st pdfgen.JobStatus) {
	p, doc, ok := s.jobs.Completed(id)
	if !ok {
		if st.State == pdfgen.JobFailed {
			writeJSON(w, http.StatusConflict, map[string]any{"ok": false, "message": "the document was not generated"})
			return
		}
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusConflict, map[string]any{"ok": false, "message": "document is not ready yet"})
		return
	}
	res, err := s.quotes.SendDocument(r.Context(), p, doc)
	if err != nil {
		code, body := pdfErrorBody(r, err, true)
		if errors.Is(err, usecase.ErrEmailDelivery) {
			addJobLinks(body, id)
		}
		writeJSON(w, code, body)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"message":       "Dokument bol odoslaný na " + res.Recipient + ".",
		"document_code": res.Document.Code,
		"attachments":   res.Attachments,
	})
}

// writeSendError answers a failed generate-and-send. When only the email
// failed the rendered document is kept as a finished job, so the customer can
// download it or have it sent again.
func (s *Server) writeSendError(w http.ResponseWriter, r *http.Request, err error, res usecase.SendResult) {
	code, body := pdfErrorBody(r, err, true)
	if errors.Is(err, usecase.ErrEmailDelivery) && len(res.Document.Bytes) > 0 && s.jobs != nil {
		id := s.jobs.Add(res.Payload, res.Document)
		body["document_code"] = res.Document.Code
		addJobLinks(body, id)
	}
	writeJSON(w, code, body)
}

func addJobLinks(body map[string]any, id string) {
	body["job_id"] = id
	body["download"] = jobPath(id) + "/file"
	body["resend"] = jobPath(id) + "/email"
}

func writePDF(w http.ResponseWriter, doc pdfgen.Document) {
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Bytes)))
	w.Header().Set("X-Document-Code", doc.Code)
	writeFile(w, "application/pdf", doc.FileName(), doc.Bytes)
}

// pdfErrorStatus maps use case and render errors to a status and a message
// safe to show to the customer.
func pdfErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrPayloadRequired), errors.Is(err, pdfgen.ErrNoPayload):
		return http.StatusBadRequest, "payload is required"
	case errors.Is(err, usecase.ErrPayloadMalformed):
		return http.StatusBadRequest, usecase.ErrPayloadMalformed.Error()
	case errors.Is(err, calc.ErrInvalidPayload):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, usecase.ErrEmailRequired):
		return http.StatusUnprocessableEntity, "email required to send the document"
	case errors.Is(err, pdfgen.ErrMissingPageAsset):
		return http.StatusInternalServerError, pdfgen.ErrMissingPageAsset.Error()
	case errors.Is(err, pdfgen.ErrMissingFont):
		return http.StatusInternalServerError, pdfgen.ErrMissingFont.Error()
	case errors.Is(err, pdfgen.ErrRenderTimeout):
		return http.StatusGatewayTimeout, "PDF generation timed out"
	case errors.Is(err, usecase.ErrEmailDelivery):
		return http.StatusBadGateway, "the document was created but the email could not be sent"
	case errors.Is(err, pdfgen.ErrQueueFull):
		return http.StatusServiceUnavailable, "too many documents are being generated, try again shortly"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request cancelled"
	}
	return http.StatusInternalServerError, pdfgen.ErrRender.Error()
}

func writePDFError(w http.ResponseWriter, r *http.Request, err error, okField bool) {
	code, body := pdfErrorBody(r, err, okField)
	if errors.Is(err, pdfgen.ErrQueueFull) {
		w.Header().Set("Retry-After", "5")
	}
	writeJSON(w, code, body)
}

// pdfErrorBody logs err and builds the error response.
func pdfErrorBody(r *http.Request, err error, okField bool) (int, map[string]any) {
	code, msg := pdfErrorStatus(err)
	ev := log.Warn()
	if code >= 500 {
		ev = log.Error()
	}
	ev.Err(err).Str("path", r.URL.Path).Int("status", code).Str("request_id", RequestIDFrom(r.Context())).Msg("pdf request failed")

	body := map[string]any{"message": msg}
	if okField {
		body["ok"] = false
		if errors.Is(err, usecase.ErrEmailDelivery) {
			body["download_available"] = true
		}
	}
	return code, body
}
