package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"fxchart-service/internal/infrastructure/recordjson"

	"github.com/go-chi/chi/v5"
)

func decodeInput(r *http.Request) (recordjson.Input, error) {
	var in recordjson.Input
	err := json.NewDecoder(r.Body).Decode(&in)
	if errors.Is(err, io.EOF) {
		return recordjson.Input{}, nil
	}
	return in, err
}

func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	out, err := s.records.List(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordjson.FromDomainList(out))
}

func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.records.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordjson.FromDomain(rec))
}

func (s *Server) CreateRecord(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	var idem *string
	if k := r.Header.Get("X-Idempotency-Key"); k != "" {
		idem = &k
	}
	rec, err := s.records.Create(r.Context(), in.Record(), idem)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	w.Header().Set("Location", "/records/"+rec.ID)
	writeJSON(w, http.StatusCreated, recordjson.FromDomain(rec))
}

func (s *Server) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	rec, err := s.records.Update(r.Context(), chi.URLParam(r, "id"), in.Patch())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordjson.FromDomain(rec))
}

func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.records.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
