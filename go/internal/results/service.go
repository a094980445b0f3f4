package results

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fkmtimer/fkm/go/internal/middleware"
)

// Service exposes results and station entry over HTTP
type Service struct {
	app *App
}

// NewService creates a new results service
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes mounts the result routes on mux
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /result/round/{roundId}", middleware.WithLogging(s.ListResultsByRound))
	mux.HandleFunc("GET /result/{id}", middleware.WithLogging(s.GetResult))
	mux.HandleFunc("POST /result/{id}/enter", middleware.WithLogging(s.Resubmit))
	mux.HandleFunc("POST /result/enter", middleware.WithLogging(s.EnterAttempt))
}

// ListResultsByRound handles GET /result/round/{roundId}?search=
func (s *Service) ListResultsByRound(w http.ResponseWriter, r *http.Request) {
	results, err := s.app.ListResultsByRound(r.Context(), r.PathValue("roundId"), r.URL.Query().Get("search"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetResult handles GET /result/{id}
func (s *Service) GetResult(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	result, err := s.app.GetResult(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

// Resubmit handles POST /result/{id}/enter
func (s *Service) Resubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.app.Resubmit(r.Context(), id); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, middleware.MessageBody{Message: msgScorecardSubmitted})
}

// EnterAttempt handles POST /result/enter
func (s *Service) EnterAttempt(w http.ResponseWriter, r *http.Request) {
	var req EnterAttemptRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	resp, err := s.app.EnterAttempt(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid result id")
		return uuid.Nil, false
	}
	return id, true
}
