package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/psawicki/advault"
	"github.com/psawicki/advault/prom"
)

// Server exposes the archiver over HTTP: job submission and polling,
// archive browsing, notes, file serving and metrics.
type Server struct {
	server *http.Server

	Addr     string
	Jobs     advault.JobService
	Archives advault.ArchiveStore
	Metrics  *prom.Metrics
	Logger   *slog.Logger
}

// NewServer creates a Server with routes registered.
func NewServer() *Server {
	s := &Server{
		server: &http.Server{
			ReadHeaderTimeout: 5 * time.Second,
		},
		Logger: slog.Default(),
	}
	return s
}

// Open starts listening on s.Addr. It blocks until the listener fails or
// the server is shut down.
func (s *Server) Open() error {
	s.server.Addr = s.Addr
	s.server.Handler = s.Routes()
	return s.server.ListenAndServe()
}

// Close gracefully shuts the server down.
func (s *Server) Close(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Routes returns the server's handler. Exposed for tests.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/jobs", s.handleSubmitJob)
	mux.HandleFunc("GET /api/jobs/{id}", s.handlePollJob)
	mux.HandleFunc("GET /api/archives", s.handleListArchives)
	mux.HandleFunc("GET /api/archives/{folder}", s.handleGetArchive)
	mux.HandleFunc("GET /api/archives/{folder}/notes", s.handleGetNote)
	mux.HandleFunc("PUT /api/archives/{folder}/notes", s.handleSetNote)
	mux.HandleFunc("GET /archive/{folder}/{file}", s.handleServeFile)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	return mux
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, advault.Errorf(advault.EINVALID, "invalid JSON body"))
		return
	}

	jobID, err := s.Jobs.Submit(body.URL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

func (s *Server) handlePollJob(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Jobs.Poll(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleListArchives(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.Archives.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetArchive(w http.ResponseWriter, r *http.Request) {
	folder := r.PathValue("folder")
	archive, err := s.Archives.Find(folder)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	note, err := s.Archives.Note(folder)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, struct {
		*advault.Archive
		Note string `json:"note,omitempty"`
	}{archive, note})
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.Archives.Note(r.PathValue("folder"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"note": note})
}

func (s *Server) handleSetNote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, advault.Errorf(advault.EINVALID, "invalid JSON body"))
		return
	}

	if err := s.Archives.SetNote(r.PathValue("folder"), body.Note); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"note": body.Note})
}

func (s *Server) handleServeFile(w http.ResponseWriter, r *http.Request) {
	path, err := s.Archives.FilePath(r.PathValue("folder"), r.PathValue("file"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps application error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := advault.ErrorCode(err), advault.ErrorMessage(err)

	if code == advault.EINTERNAL {
		s.Logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	s.writeJSON(w, statusFromCode(code), map[string]string{"error": message})
}

func statusFromCode(code string) int {
	switch code {
	case advault.EINVALID:
		return http.StatusBadRequest
	case advault.ENOTFOUND:
		return http.StatusNotFound
	case advault.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
