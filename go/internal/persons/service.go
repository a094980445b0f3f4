package persons

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/fkmtimer/fkm/go/internal/middleware"
)

// Service exposes persons over HTTP
type Service struct {
	app *App
}

// NewService creates a new persons service
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes mounts the persons routes on mux
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /person", middleware.WithLogging(s.ListPersons))
	mux.HandleFunc("GET /person/card/{cardId}", middleware.WithLogging(s.GetPersonByCard))
	mux.HandleFunc("GET /person/registrant/{registrantId}", middleware.WithLogging(s.GetPersonByRegistrantID))
	mux.HandleFunc("GET /person/{id}", middleware.WithLogging(s.GetPerson))
	mux.HandleFunc("PUT /person/{id}", middleware.WithLogging(s.AssignCard))
	mux.HandleFunc("POST /person/staff", middleware.WithLogging(s.AddStaffMember))
}

// ListPersons handles GET /person?page=&pageSize=&search=
func (s *Service) ListPersons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("pageSize"))

	result, err := s.app.ListPersons(r.Context(), ListPersonsRequest{
		Search:   q.Get("search"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

// GetPersonByCard handles GET /person/card/{cardId}
func (s *Service) GetPersonByCard(w http.ResponseWriter, r *http.Request) {
	person, err := s.app.GetPersonByCard(r.Context(), r.PathValue("cardId"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, person)
}

// GetPersonByRegistrantID handles GET /person/registrant/{registrantId}
func (s *Service) GetPersonByRegistrantID(w http.ResponseWriter, r *http.Request) {
	registrantID, err := strconv.Atoi(r.PathValue("registrantId"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid registrant id")
		return
	}
	person, err := s.app.GetPersonByRegistrantID(r.Context(), registrantID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, person)
}

// GetPerson handles GET /person/{id}
func (s *Service) GetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid person id")
		return
	}
	person, err := s.app.GetPerson(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, person)
}

// AssignCard handles PUT /person/{id}
func (s *Service) AssignCard(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid person id")
		return
	}
	var req AssignCardRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	person, err := s.app.AssignCard(r.Context(), id, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, person)
}

// AddStaffMember handles POST /person/staff
func (s *Service) AddStaffMember(w http.ResponseWriter, r *http.Request) {
	var req AddStaffMemberRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	person, err := s.app.AddStaffMember(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, person)
}
