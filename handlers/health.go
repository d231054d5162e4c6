package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HealthHandler serves the unauthenticated liveness endpoints used by hosting platforms
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/", h.HandleRoot).Methods("GET", "HEAD")
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
}

func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("online")); err != nil {
		log.Printf("❌ Failed to write liveness response: %v", err)
	}
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		log.Printf("❌ Failed to write health check response: %v", err)
	}
}
