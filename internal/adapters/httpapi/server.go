// Package httpapi exposes the read-mostly dashboard API over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/stratdesk/internal/fault"
	"github.com/example/stratdesk/internal/ports/primary"
)

// Server is the stratdesk dashboard HTTP server.
type Server struct {
	httpServer    *http.Server
	clients       primary.ClientService
	tasks         primary.TaskService
	notifications primary.NotificationService
	reports       primary.ReportService
	addr          string
}

// NewServer creates a new dashboard server.
func NewServer(
	clients primary.ClientService,
	tasks primary.TaskService,
	notifications primary.NotificationService,
	reports primary.ReportService,
	addr string,
) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	s := &Server{
		clients:       clients,
		tasks:         tasks,
		notifications: notifications,
		reports:       reports,
		addr:          addr,
	}

	// Routes
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/clients", s.handleClients)
	r.Get("/api/clients/{key}", s.handleClient)
	r.Get("/api/tasks", s.handleTasks)
	r.Get("/api/tasks/{key}", s.handleTask)
	r.Get("/api/notifications", s.handleNotifications)
	r.Post("/api/notifications/{key}/read", s.handleMarkRead)
	r.Post("/api/calendar/send", s.handleCalendarSend)
	r.Get("/api/report", s.handleReport)
	r.Get("/api/export.csv", s.handleExportCSV)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: r,
	}

	return s
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	slog.Info("stratdesk dashboard listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError maps the service error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fault.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, fault.ErrValidationFailed), errors.Is(err, fault.ErrParseFailed):
		status = http.StatusBadRequest
	case errors.Is(err, fault.ErrPersistenceUnavailable):
		status = http.StatusServiceUnavailable
	}
	slog.Error("request failed", "error", err)
	http.Error(w, err.Error(), status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.clients.ListClients(r.Context(), primary.ClientFilters{
		Stage: r.URL.Query().Get("stage"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if clients == nil {
		clients = []*primary.Client{}
	}
	writeJSON(w, clients)
}

func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.clients.GetClient(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, client)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListTasks(r.Context(), primary.TaskFilters{
		ClientKey: r.URL.Query().Get("client"),
		Status:    r.URL.Query().Get("status"),
		Month:     r.URL.Query().Get("month"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*primary.Task{}
	}
	writeJSON(w, tasks)
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.GetTask(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, task)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.notifications.ListNotifications(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if notifications == nil {
		notifications = []*primary.Notification{}
	}
	writeJSON(w, notifications)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := s.notifications.MarkRead(r.Context(), chi.URLParam(r, "key")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "read"})
}

func (s *Server) handleCalendarSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month string `json:"month"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.tasks.SendToCalendar(r.Context(), req.Month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.reports.WriteHTMLReport(r.Context(), w); err != nil {
		slog.Error("report rendering failed", "error", err)
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="tasks.csv"`)
	if err := s.reports.ExportCSV(r.Context(), w); err != nil {
		slog.Error("export failed", "error", err)
	}
}
