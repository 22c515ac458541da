package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/notepress/internal/preview"
	"github.com/dgallion1/notepress/internal/quiz"
)

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleQuizParse(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decodeBody(w, r, &req) || !s.checkText(w, req.Text) {
		return
	}

	items := s.quiz.Parse(req.Text)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Items []quiz.Item `json:"items"`
		Count int         `json:"count"`
	}{items, len(items)})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decodeBody(w, r, &req) || !s.checkText(w, req.Text) {
		return
	}

	out, err := preview.Render(req.Text)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(out))
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decodeBody(w, r, &req) || !s.checkText(w, req.Text) {
		return
	}

	doc := s.orchestrator.Compiler().Scan(req.Text)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"blocks": doc,
		"count":  doc.Len(),
	})
}
