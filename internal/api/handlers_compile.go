package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/dgallion1/notepress/internal/pipeline"
	"github.com/dgallion1/notepress/internal/render"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
)

// jsonOverhead is the allowance for JSON framing around the text field.
const jsonOverhead = 64 << 10

type compileRequest struct {
	Text   string `json:"text"`
	Title  string `json:"title"`
	Format string `json:"format"`
}

// decodeBody reads a JSON request body into v. It writes the error response
// itself and reports whether the handler should continue.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxTextBytes+jsonOverhead)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%s)", humanize.Bytes(uint64(s.cfg.MaxTextBytes))), http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// checkText enforces the text size limit on an already decoded body.
func (s *Server) checkText(w http.ResponseWriter, text string) bool {
	if int64(len(text)) > s.cfg.MaxTextBytes {
		jsonError(w, fmt.Sprintf("text exceeds max size (%s)", humanize.Bytes(uint64(s.cfg.MaxTextBytes))), http.StatusRequestEntityTooLarge)
		return false
	}
	return true
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if !s.decodeBody(w, r, &req) || !s.checkText(w, req.Text) {
		return
	}

	name := r.URL.Query().Get("format")
	if name == "" {
		name = req.Format
	}
	format, err := pipeline.ParseFormat(name)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	artifact, err := s.orchestrator.Compiler().Compile(format, req.Text, req.Title)
	if err != nil {
		renderError(w, err)
		return
	}
	writeArtifact(w, artifact)
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if !s.decodeBody(w, r, &req) || !s.checkText(w, req.Text) {
		return
	}
	format, err := pipeline.ParseFormat(req.Format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(format, req.Text, req.Title)
	if err := s.orchestrator.Submit(job); err != nil {
		s.log.Warn("job rejected", "job_id", job.ID, "error", err)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	s.log.Info("job queued",
		"job_id", job.ID,
		"format", format,
		"size", humanize.Bytes(uint64(len(req.Text))),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": "/api/compile/jobs/" + job.ID,
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleJobArtifact(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	artifact, ok := job.Artifact()
	if !ok {
		snap := job.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"error":  fmt.Sprintf("job is %s", snap.Status),
			"status": snap.Status,
			"reason": snap.Reason,
		})
		return
	}
	writeArtifact(w, artifact)
}

// writeArtifact sends artifact bytes as a download.
func writeArtifact(w http.ResponseWriter, a pipeline.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.Header().Set("ETag", `"`+pipeline.ContentHashHex(a.Data)[:32]+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(a.Data)
}

// renderError reports a render failure with its reason code.
func renderError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, pipeline.ErrUnknownFormat) {
		code = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":  err.Error(),
		"reason": render.Reason(err),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
