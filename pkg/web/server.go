package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ritzau/floorplan-editor/pkg/export"
	"github.com/ritzau/floorplan-editor/pkg/logging"
	"github.com/ritzau/floorplan-editor/pkg/model"
	"github.com/ritzau/floorplan-editor/pkg/preset"
	"github.com/ritzau/floorplan-editor/pkg/pubsub"
	"github.com/ritzau/floorplan-editor/pkg/store"
)

//go:embed static/*
var staticFiles embed.FS

// Server exposes the editor operations over HTTP. Every mutation goes
// through the store's synchronous commit pipeline; the resulting plan
// status and validation result are pushed to subscribers over SSE.
type Server struct {
	router    *mux.Router
	store     *store.Store
	publisher pubsub.Publisher
}

// NewServer creates a web server over the given store
func NewServer(s *store.Store) *Server {
	ssePublisher := pubsub.NewSSEPublisher()

	// New subscribers only need the current state, not history
	ssePublisher.ConfigureTopic("plan_status", pubsub.TopicConfig{
		BufferSize: 1,
		ReplayAll:  false,
	})
	ssePublisher.ConfigureTopic("validation", pubsub.TopicConfig{
		BufferSize: 1,
		ReplayAll:  false,
	})

	srv := &Server{
		router:    mux.NewRouter(),
		store:     s,
		publisher: ssePublisher,
	}
	s.SetCommitHook(func(plan *model.FloorPlan, result *model.ValidationResult) {
		srv.publishState(plan, result)
	})
	srv.setupRoutes()
	return srv
}

// publishState pushes the plan summary and validation outcome
func (s *Server) publishState(plan *model.FloorPlan, result *model.ValidationResult) {
	status := pubsub.PlanStatus{
		Vertices: len(plan.Vertices),
		Walls:    len(plan.Walls),
		Rooms:    len(plan.Rooms),
		Doors:    len(plan.Doors),
		Windows:  len(plan.Windows),
	}
	if err := s.publisher.Publish("plan_status", "mutated", status); err != nil {
		logging.Warn("failed to publish plan status", "error", err)
	}

	data := pubsub.ValidationData{
		IsValid:   result.IsValid,
		CanExport: result.CanExport,
		Errors:    len(result.Errors),
		Warnings:  len(result.Warnings),
		RoomCount: result.RoomCount,
		TotalArea: result.TotalArea,
	}
	if err := s.publisher.Publish("validation", "validated", data); err != nil {
		logging.Warn("failed to publish validation", "error", err)
	}
}

func (s *Server) setupRoutes() {
	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/plan_status", s.handleSubscribe("plan_status")).Methods("GET")
	s.router.HandleFunc("/api/subscribe/validation", s.handleSubscribe("validation")).Methods("GET")

	// Read endpoints
	s.router.HandleFunc("/api/plan", s.handlePlan).Methods("GET")
	s.router.HandleFunc("/api/validation", s.handleValidation).Methods("GET")
	s.router.HandleFunc("/api/export", s.handleExport).Methods("GET")

	// Mutations
	s.router.HandleFunc("/api/vertices", s.handleAddVertex).Methods("POST")
	s.router.HandleFunc("/api/vertices/{id}/move", s.handleMoveVertex).Methods("POST")
	s.router.HandleFunc("/api/vertices/{id}", s.handleDeleteVertex).Methods("DELETE")
	s.router.HandleFunc("/api/walls", s.handleAddWall).Methods("POST")
	s.router.HandleFunc("/api/walls/{id}", s.handleDeleteWall).Methods("DELETE")
	s.router.HandleFunc("/api/doors", s.handleAddDoor).Methods("POST")
	s.router.HandleFunc("/api/doors/{id}", s.handleDeleteDoor).Methods("DELETE")
	s.router.HandleFunc("/api/windows", s.handleAddWindow).Methods("POST")
	s.router.HandleFunc("/api/windows/{id}", s.handleDeleteWindow).Methods("DELETE")
	s.router.HandleFunc("/api/autofix", s.handleAutoFix).Methods("POST")
	s.router.HandleFunc("/api/presets/{name}", s.handleLoadPreset).Methods("POST")
	s.router.HandleFunc("/api/clear", s.handleClear).Methods("POST")

	s.router.Use(logging.RequestIDMiddleware)

	// Serve static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Fatal("failed to load embedded static files", "error", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

// handleSubscribe streams events for a topic over SSE
func (s *Server) handleSubscribe(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*") // CORS support

		// Send initial comment to establish connection (Safari compatibility)
		fmt.Fprintf(w, ": connected\n\n")
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sub.Close()

		for event := range sub.Events() {
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.Warn("error writing SSE event", "error", err)
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Plan())
}

func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Validation())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	plan, err := export.Build(s.store)
	if err != nil {
		if errors.Is(err, export.ErrNotExportable) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, plan)
}

type pointRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Snap bool    `json:"snap"`
}

func (s *Server) handleAddVertex(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var id string
	if req.Snap {
		id = s.store.AddVertexSnapped(req.X, req.Y)
	} else {
		id = s.store.AddVertex(req.X, req.Y)
	}
	writeJSON(w, map[string]string{"id": id})
}

func (s *Server) handleMoveVertex(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]
	var err error
	if req.Snap {
		err = s.store.MoveVertexSnapped(id, req.X, req.Y)
	} else {
		err = s.store.MoveVertex(id, req.X, req.Y)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"id": id})
}

func (s *Server) handleDeleteVertex(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteVertex(mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type wallRequest struct {
	StartVertexID string `json:"startVertexId"`
	EndVertexID   string `json:"endVertexId"`
}

func (s *Server) handleAddWall(w http.ResponseWriter, r *http.Request) {
	var req wallRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := s.store.AddWall(req.StartVertexID, req.EndVertexID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"id": id})
}

func (s *Server) handleDeleteWall(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteWall(mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type openingRequest struct {
	WallID   string  `json:"wallId"`
	Position float64 `json:"position"`
}

func (s *Server) handleAddDoor(w http.ResponseWriter, r *http.Request) {
	var req openingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := s.store.AddDoor(req.WallID, req.Position)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"id": id})
}

func (s *Server) handleDeleteDoor(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteDoor(mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddWindow(w http.ResponseWriter, r *http.Request) {
	var req openingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := s.store.AddWindow(req.WallID, req.Position)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"id": id})
}

func (s *Server) handleDeleteWindow(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteWindow(mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAutoFix(w http.ResponseWriter, r *http.Request) {
	changed := s.store.AutoFix()
	writeJSON(w, map[string]int{"changed": changed})
}

func (s *Server) handleLoadPreset(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	plan, err := preset.Get(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.store.LoadPlan(plan)
	writeJSON(w, s.store.Validation())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.store.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("failed to encode response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

// Start starts the web server on the given port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "url", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.router)
}
