package attempts

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/fkmtimer/fkm/go/internal/middleware"
	"github.com/fkmtimer/fkm/go/internal/models"
)

// Service exposes attempts over HTTP
type Service struct {
	app *App
}

// NewService creates a new attempts service
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes mounts the attempt routes on mux
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /attempt", middleware.WithLogging(s.CreateAttempt))
	mux.HandleFunc("POST /attempt/swap", middleware.WithLogging(s.SwapAttempts))
	mux.HandleFunc("GET /attempt/unresolved", middleware.WithLogging(s.ListUnresolved))
	mux.HandleFunc("GET /attempt/{id}", middleware.WithLogging(s.GetAttempt))
	mux.HandleFunc("PUT /attempt/{id}", middleware.WithLogging(s.UpdateAttempt))
	mux.HandleFunc("DELETE /attempt/{id}", middleware.WithLogging(s.DeleteAttempt))
}

// CreateAttempt handles POST /attempt
func (s *Service) CreateAttempt(w http.ResponseWriter, r *http.Request) {
	var req CreateAttemptRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	resp, err := s.app.CreateAttempt(r.Context(), req)
	if err != nil {
		writeSyncAwareError(w, r, resp, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// UpdateAttempt handles PUT /attempt/{id}
func (s *Service) UpdateAttempt(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req UpdateAttemptRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	resp, err := s.app.UpdateAttempt(r.Context(), id, req)
	if err != nil {
		writeSyncAwareError(w, r, resp, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// SwapAttempts handles POST /attempt/swap
func (s *Service) SwapAttempts(w http.ResponseWriter, r *http.Request) {
	var req SwapAttemptsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.app.SwapAttempts(r.Context(), req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, middleware.MessageBody{Message: msgAttemptsSwapped})
}

// DeleteAttempt handles DELETE /attempt/{id}
func (s *Service) DeleteAttempt(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.app.DeleteAttempt(r.Context(), id); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, middleware.MessageBody{Message: msgAttemptDeleted})
}

// GetAttempt handles GET /attempt/{id}
func (s *Service) GetAttempt(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	detail, err := s.app.GetAttempt(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}

// ListUnresolved handles GET /attempt/unresolved
func (s *Service) ListUnresolved(w http.ResponseWriter, r *http.Request) {
	attempts, err := s.app.ListUnresolved(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, attempts)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid attempt id")
		return uuid.Nil, false
	}
	return id, true
}

// writeSyncAwareError reports a WCA Live failure as 502 and tells the
// operator the attempt itself was stored. Any warning raised while
// storing it travels with the error.
func writeSyncAwareError(w http.ResponseWriter, r *http.Request, resp *AttemptResponse, err error) {
	if errors.Is(err, models.ErrExternalSync) {
		body := middleware.ErrorBody{
			Error:   http.StatusText(http.StatusBadGateway),
			Message: "attempt saved, but " + err.Error(),
		}
		if resp != nil {
			body.Warning = resp.Warning
		}
		middleware.JSONResponse(w, http.StatusBadGateway, body)
		return
	}
	middleware.WriteError(w, r, err)
}
