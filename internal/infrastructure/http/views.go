package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"fxchart-service/internal/application"
	"fxchart-service/internal/domain"
	"fxchart-service/internal/graph"

	"github.com/go-chi/chi/v5"
)

type viewResponse struct {
	ViewID          string        `json:"view_id"`
	Status          string        `json:"status"`
	Message         string        `json:"message,omitempty"`
	Error           string        `json:"error,omitempty"`
	Pairs           []domain.Pair `json:"pairs"`
	SelectedPairKey string        `json:"selected_pair_key,omitempty"`
	HasData         bool          `json:"has_data"`
	Extent          *graph.Window `json:"extent,omitempty"`
	Window          *graph.Window `json:"window,omitempty"`
	Gesture         string        `json:"gesture"`
	Scale           float64       `json:"scale"`
	Chart           *graph.Spec   `json:"chart,omitempty"`
	Applied         *bool         `json:"applied,omitempty"`
}

func toViewResponse(s application.Snapshot, fetchErr error) viewResponse {
	out := viewResponse{
		ViewID:          s.ID,
		Status:          string(s.Status),
		Message:         s.Message,
		Pairs:           s.Pairs,
		SelectedPairKey: s.SelectedPairKey,
		HasData:         s.HasData,
		Gesture:         s.Gesture.String(),
		Scale:           s.Scale,
		Chart:           s.Chart,
	}
	if fetchErr != nil {
		out.Error = fetchErr.Error()
	}
	if s.HasData {
		ext, win := s.Extent, s.Window
		out.Extent, out.Window = &ext, &win
	}
	return out
}

func withApplied(s application.Snapshot, applied bool) viewResponse {
	out := toViewResponse(s, nil)
	out.Applied = &applied
	return out
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) (*application.ChartView, bool) {
	v, err := s.views.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return nil, false
	}
	return v, true
}

func (s *Server) OpenView(w http.ResponseWriter, r *http.Request) {
	v, _ := s.views.Open()
	w.Header().Set("Location", "/views/"+v.ID())
	writeJSON(w, http.StatusAccepted, toViewResponse(v.Snapshot(), nil))
}

func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toViewResponse(v.Snapshot(), v.Err()))
}

func (s *Server) CloseView(w http.ResponseWriter, r *http.Request) {
	if err := s.views.Close(chi.URLParam(r, "id")); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type selectionRequest struct {
	PairKey string `json:"pair_key"`
}

func (s *Server) SelectPair(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	snap, err := v.Select(req.PairKey)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toViewResponse(snap, nil))
}

func (s *Server) ZoomIn(w http.ResponseWriter, r *http.Request) {
	s.zoom(w, r, (*application.ChartView).ZoomIn)
}

func (s *Server) ZoomOut(w http.ResponseWriter, r *http.Request) {
	s.zoom(w, r, (*application.ChartView).ZoomOut)
}

func (s *Server) ResetZoom(w http.ResponseWriter, r *http.Request) {
	s.zoom(w, r, (*application.ChartView).ResetZoom)
}

func (s *Server) zoom(w http.ResponseWriter, r *http.Request, fn func(*application.ChartView) (application.Snapshot, bool, error)) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	snap, applied, err := fn(v)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, withApplied(snap, applied))
}

// gestureRequest carries pointer coordinates in plot pixels.
type gestureRequest struct {
	Type      string   `json:"type"`
	X         float64  `json:"x"`
	DeltaY    float64  `json:"delta_y"`
	Scale     float64  `json:"scale"`
	Modifiers []string `json:"modifiers"`
}

func (s *Server) ApplyGesture(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	mods, err := graph.ParseModifiers(req.Modifiers)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	snap, applied, err := v.Apply(application.Gesture{
		Kind:      application.GestureKind(req.Type),
		X:         req.X,
		DeltaY:    req.DeltaY,
		Scale:     req.Scale,
		Modifiers: mods,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, withApplied(snap, applied))
}

func (s *Server) RenderChart(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "png"
	}
	ct, ok := graph.ContentType(format)
	if !ok {
		badRequest(w, "unsupported format "+strconv.Quote(format))
		return
	}
	var buf bytes.Buffer
	if err := v.Render(&buf, format, s.renderer); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
