package stations

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fkmtimer/fkm/go/internal/middleware"
)

// Service exposes devices, rooms and attendance over HTTP
type Service struct {
	app *App
}

// NewService creates a new stations service
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes mounts the stations routes on mux
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /device", middleware.WithLogging(s.ListDevices))
	mux.HandleFunc("POST /device", middleware.WithLogging(s.CreateDevice))
	mux.HandleFunc("PUT /device/{id}", middleware.WithLogging(s.UpdateDevice))
	mux.HandleFunc("DELETE /device/{id}", middleware.WithLogging(s.DeleteDevice))
	mux.HandleFunc("POST /device/battery", middleware.WithLogging(s.ReportBattery))
	mux.HandleFunc("GET /room", middleware.WithLogging(s.ListRooms))
	mux.HandleFunc("POST /room", middleware.WithLogging(s.CreateRoom))
	mux.HandleFunc("PUT /room/{id}/group", middleware.WithLogging(s.SetCurrentGroup))
	mux.HandleFunc("POST /attendance", middleware.WithLogging(s.CheckIn))
	mux.HandleFunc("GET /attendance/group/{groupId}", middleware.WithLogging(s.ListAttendance))
}

func (s *Service) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.app.ListDevices(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, devices)
}

func (s *Service) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var req DeviceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	device, err := s.app.CreateDevice(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, device)
}

func (s *Service) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid device id")
		return
	}
	var req DeviceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	device, err := s.app.UpdateDevice(r.Context(), id, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, device)
}

func (s *Service) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid device id")
		return
	}
	if err := s.app.DeleteDevice(r.Context(), id); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReportBattery handles POST /device/battery
func (s *Service) ReportBattery(w http.ResponseWriter, r *http.Request) {
	var req BatteryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	device, err := s.app.ReportBattery(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, device)
}

func (s *Service) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.app.ListRooms(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, rooms)
}

func (s *Service) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	room, err := s.app.CreateRoom(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, room)
}

// SetCurrentGroup handles PUT /room/{id}/group
func (s *Service) SetCurrentGroup(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid room id")
		return
	}
	var req SetGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	room, err := s.app.SetCurrentGroup(r.Context(), id, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, room)
}

// CheckIn handles POST /attendance
func (s *Service) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	resp, err := s.app.CheckIn(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

func (s *Service) ListAttendance(w http.ResponseWriter, r *http.Request) {
	attendance, err := s.app.ListAttendance(r.Context(), r.PathValue("groupId"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, attendance)
}
