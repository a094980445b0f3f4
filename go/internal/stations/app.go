package stations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/fkmtimer/fkm/go/internal/events"
	"github.com/fkmtimer/fkm/go/internal/models"
)

// StationsRepository defines what the app layer needs from the repository
type StationsRepository interface {
	ListDevices(ctx context.Context) ([]models.Device, error)
	GetDevice(ctx context.Context, id uuid.UUID) (*models.Device, error)
	GetDeviceByEspID(ctx context.Context, espID int) (*models.Device, error)
	CreateDevice(ctx context.Context, req DeviceRequest) (*models.Device, error)
	UpdateDevice(ctx context.Context, id uuid.UUID, req DeviceRequest) (*models.Device, error)
	UpdateBattery(ctx context.Context, espID, percentage int) (*models.Device, error)
	DeleteDevice(ctx context.Context, id uuid.UUID) error
	ListRooms(ctx context.Context) ([]models.Room, error)
	CreateRoom(ctx context.Context, name string) (*models.Room, error)
	SetCurrentGroup(ctx context.Context, roomID uuid.UUID, groupID string) (*models.Room, error)
	CreateAttendance(ctx context.Context, a models.Attendance) (*models.Attendance, error)
	ListAttendanceByGroup(ctx context.Context, groupID string) ([]models.Attendance, error)
}

// PersonFinder resolves scanned cards.
type PersonFinder interface {
	GetPersonByCardID(ctx context.Context, cardID string) (*models.Person, error)
}

// App handles devices, rooms and attendance
type App struct {
	repo     StationsRepository
	persons  PersonFinder
	notifier events.Notifier
	clock    clockwork.Clock
}

// NewApp creates a new stations App
func NewApp(repo StationsRepository, persons PersonFinder, notifier events.Notifier, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		repo:     repo,
		persons:  persons,
		notifier: notifier,
		clock:    clock,
	}
}

func (a *App) ListDevices(ctx context.Context) ([]models.Device, error) {
	devices, err := a.repo.ListDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

// GetDeviceByEspID resolves a station by the id burnt into its firmware
func (a *App) GetDeviceByEspID(ctx context.Context, espID int) (*models.Device, error) {
	device, err := a.repo.GetDeviceByEspID(ctx, espID)
	if err != nil {
		return nil, fmt.Errorf("device not found: %w", err)
	}
	return device, nil
}

func (a *App) CreateDevice(ctx context.Context, req DeviceRequest) (*models.Device, error) {
	if err := validateDeviceRequest(&req); err != nil {
		return nil, err
	}
	device, err := a.repo.CreateDevice(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}
	a.emitDeviceUpdated(ctx, device)
	return device, nil
}

func (a *App) UpdateDevice(ctx context.Context, id uuid.UUID, req DeviceRequest) (*models.Device, error) {
	if err := validateDeviceRequest(&req); err != nil {
		return nil, err
	}
	device, err := a.repo.UpdateDevice(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update device: %w", err)
	}
	a.emitDeviceUpdated(ctx, device)
	return device, nil
}

func (a *App) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.DeleteDevice(ctx, id); err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	return nil
}

// ReportBattery stores a station's battery level and notifies the device list
func (a *App) ReportBattery(ctx context.Context, req BatteryRequest) (*models.Device, error) {
	if req.BatteryPercentage < 0 || req.BatteryPercentage > 100 {
		return nil, fmt.Errorf("battery_percentage must be between 0 and 100: %w", models.ErrValidation)
	}
	device, err := a.repo.UpdateBattery(ctx, req.EspID, req.BatteryPercentage)
	if err != nil {
		return nil, fmt.Errorf("failed to report battery: %w", err)
	}
	a.emitDeviceUpdated(ctx, device)
	return device, nil
}

func (a *App) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (a *App) CreateRoom(ctx context.Context, req CreateRoomRequest) (*models.Room, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", models.ErrValidation)
	}
	room, err := a.repo.CreateRoom(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

// SetCurrentGroup switches the group a room is running and tells the
// operator screens to follow.
func (a *App) SetCurrentGroup(ctx context.Context, roomID uuid.UUID, req SetGroupRequest) (*models.Room, error) {
	groupID := strings.TrimSpace(req.GroupID)
	if groupID == "" {
		return nil, fmt.Errorf("group_id is required: %w", models.ErrValidation)
	}
	room, err := a.repo.SetCurrentGroup(ctx, roomID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to set current group: %w", err)
	}

	log.Info().Str("room", room.Name).Str("group_id", groupID).Msg("current group changed")
	events.Emit(ctx, a.notifier, events.ChannelCompetition, events.EventTypeGroupShouldBeChanged,
		events.GroupShouldBeChangedPayload{RoomID: room.ID.String(), GroupID: groupID}, a.clock.Now())
	return room, nil
}

// CheckIn records a staff member scanning their card on an attendance
// reader. The role follows from the reader type; the group is the reader's
// room's current group.
func (a *App) CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResponse, error) {
	device, err := a.repo.GetDeviceByEspID(ctx, req.EspID)
	if err != nil {
		return nil, fmt.Errorf("device not found: %w", err)
	}
	if device.Room == nil || device.Room.CurrentGroupID == "" {
		return nil, fmt.Errorf("device %s has no active group: %w", device.Name, models.ErrValidation)
	}

	person, err := a.persons.GetPersonByCardID(ctx, req.CardID)
	if err != nil {
		return nil, fmt.Errorf("person not found: %w", err)
	}

	role := RoleForDevice(device.Type)
	groupID := device.Room.CurrentGroupID

	_, err = a.repo.CreateAttendance(ctx, models.Attendance{
		PersonID: person.ID,
		DeviceID: &device.ID,
		GroupID:  groupID,
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", msgAlreadyCheckedIn, models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to check in: %w", err)
	}

	events.Emit(ctx, a.notifier, events.AttendanceChannel(groupID), events.EventTypeNewAttendance,
		events.NewAttendancePayload{PersonID: person.ID.String(), GroupID: groupID, Role: string(role)}, a.clock.Now())

	return &CheckInResponse{
		Message:  msgAttendanceConfirmed,
		PersonID: person.ID,
		GroupID:  groupID,
		Role:     string(role),
	}, nil
}

func (a *App) ListAttendance(ctx context.Context, groupID string) ([]models.Attendance, error) {
	attendance, err := a.repo.ListAttendanceByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance, nil
}

// RoleForDevice maps an attendance reader to the role it records.
func RoleForDevice(t models.DeviceType) models.StaffRole {
	switch t {
	case models.DeviceTypeAttendanceScrambler:
		return models.StaffRoleScrambler
	case models.DeviceTypeAttendanceRunner:
		return models.StaffRoleRunner
	default:
		return models.StaffRoleJudge
	}
}

func (a *App) emitDeviceUpdated(ctx context.Context, d *models.Device) {
	battery := 0
	if d.BatteryPercentage != nil {
		battery = *d.BatteryPercentage
	}
	events.Emit(ctx, a.notifier, events.ChannelDevice, events.EventTypeDeviceUpdated,
		events.DeviceUpdatedPayload{DeviceID: d.ID.String(), EspID: d.EspID, BatteryPercentage: battery}, a.clock.Now())
}

func validateDeviceRequest(req *DeviceRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name is required: %w", models.ErrValidation)
	}
	if req.EspID <= 0 {
		return fmt.Errorf("esp_id must be positive: %w", models.ErrValidation)
	}
	if req.Type == "" {
		req.Type = string(models.DeviceTypeStation)
	}
	switch models.DeviceType(req.Type) {
	case models.DeviceTypeStation, models.DeviceTypeAttendanceJudge,
		models.DeviceTypeAttendanceRunner, models.DeviceTypeAttendanceScrambler:
		return nil
	default:
		return fmt.Errorf("unknown device type %q: %w", req.Type, models.ErrValidation)
	}
}
