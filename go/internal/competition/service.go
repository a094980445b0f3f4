package competition

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fkmtimer/fkm/go/internal/middleware"
)

// Service exposes the competition over HTTP
type Service struct {
	app *App
}

// NewService creates a new competition service
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes mounts the competition routes on mux
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /competition", middleware.WithLogging(s.GetCompetition))
	mux.HandleFunc("POST /competition/import/{wcaId}", middleware.WithLogging(s.Import))
	mux.HandleFunc("POST /competition/sync", middleware.WithLogging(s.Sync))
	mux.HandleFunc("PUT /competition/{id}", middleware.WithLogging(s.UpdateSettings))
	mux.HandleFunc("GET /competition/rounds/{roundId}", middleware.WithLogging(s.RoundRules))
}

func (s *Service) GetCompetition(w http.ResponseWriter, r *http.Request) {
	c, err := s.app.GetCompetition(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}

// Import handles POST /competition/import/{wcaId}
func (s *Service) Import(w http.ResponseWriter, r *http.Request) {
	resp, err := s.app.Import(r.Context(), r.PathValue("wcaId"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// Sync handles POST /competition/sync
func (s *Service) Sync(w http.ResponseWriter, r *http.Request) {
	c, err := s.app.Sync(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}

// UpdateSettings handles PUT /competition/{id}
func (s *Service) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid competition id")
		return
	}
	var req UpdateSettingsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	c, err := s.app.UpdateSettings(r.Context(), id, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}

// RoundRules handles GET /competition/rounds/{roundId}
func (s *Service) RoundRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.app.RoundRules(r.Context(), r.PathValue("roundId"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, rules)
}
