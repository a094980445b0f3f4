package stations

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fkmtimer/fkm/go/internal/models"
	"github.com/fkmtimer/fkm/go/internal/sqlutil"
	"github.com/fkmtimer/fkm/go/internal/stations/db"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	ListDevices(ctx context.Context) ([]db.DeviceWithRoom, error)
	GetDevice(ctx context.Context, id uuid.UUID) (db.DeviceWithRoom, error)
	GetDeviceByEspID(ctx context.Context, espID int32) (db.DeviceWithRoom, error)
	CreateDevice(ctx context.Context, arg db.CreateDeviceParams) (db.Device, error)
	UpdateDevice(ctx context.Context, arg db.UpdateDeviceParams) (db.Device, error)
	UpdateDeviceBattery(ctx context.Context, arg db.UpdateDeviceBatteryParams) (db.Device, error)
	DeleteDevice(ctx context.Context, id uuid.UUID) (int64, error)
	ListRooms(ctx context.Context) ([]db.Room, error)
	CreateRoom(ctx context.Context, arg db.CreateRoomParams) (db.Room, error)
	UpdateRoomCurrentGroup(ctx context.Context, arg db.UpdateRoomCurrentGroupParams) (db.Room, error)
	CreateAttendance(ctx context.Context, arg db.CreateAttendanceParams) (db.Attendance, error)
	ListAttendanceByGroup(ctx context.Context, groupID string) ([]db.Attendance, error)
}

// Repository implements device, room and attendance data access
type Repository struct {
	queries Querier
}

// NewRepository creates a new stations repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

func (r *Repository) ListDevices(ctx context.Context) ([]models.Device, error) {
	rows, err := r.queries.ListDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	out := make([]models.Device, len(rows))
	for i, row := range rows {
		out[i] = *dbDeviceWithRoomToModel(row)
	}
	return out, nil
}

func (r *Repository) GetDevice(ctx context.Context, id uuid.UUID) (*models.Device, error) {
	row, err := r.queries.GetDevice(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", sqlutil.MapError(err))
	}
	return dbDeviceWithRoomToModel(row), nil
}

func (r *Repository) GetDeviceByEspID(ctx context.Context, espID int) (*models.Device, error) {
	row, err := r.queries.GetDeviceByEspID(ctx, int32(espID))
	if err != nil {
		return nil, fmt.Errorf("failed to get device by esp id: %w", sqlutil.MapError(err))
	}
	return dbDeviceWithRoomToModel(row), nil
}

func (r *Repository) CreateDevice(ctx context.Context, req DeviceRequest) (*models.Device, error) {
	row, err := r.queries.CreateDevice(ctx, db.CreateDeviceParams{
		ID:     uuid.New(),
		Name:   req.Name,
		EspID:  int32(req.EspID),
		Type:   req.Type,
		RoomID: sqlutil.ToNullUUID(req.RoomID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create device: %w", sqlutil.MapError(err))
	}
	return dbDeviceToModel(row), nil
}

func (r *Repository) UpdateDevice(ctx context.Context, id uuid.UUID, req DeviceRequest) (*models.Device, error) {
	row, err := r.queries.UpdateDevice(ctx, db.UpdateDeviceParams{
		ID:     id,
		Name:   req.Name,
		EspID:  int32(req.EspID),
		Type:   req.Type,
		RoomID: sqlutil.ToNullUUID(req.RoomID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update device: %w", sqlutil.MapError(err))
	}
	return dbDeviceToModel(row), nil
}

func (r *Repository) UpdateBattery(ctx context.Context, espID, percentage int) (*models.Device, error) {
	row, err := r.queries.UpdateDeviceBattery(ctx, db.UpdateDeviceBatteryParams{
		EspID:             int32(espID),
		BatteryPercentage: sqlutil.ToSqlInt32(&percentage),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update battery: %w", sqlutil.MapError(err))
	}
	return dbDeviceToModel(row), nil
}

func (r *Repository) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	n, err := r.queries.DeleteDevice(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("device %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *Repository) ListRooms(ctx context.Context) ([]models.Room, error) {
	rows, err := r.queries.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	out := make([]models.Room, len(rows))
	for i, row := range rows {
		out[i] = models.Room{ID: row.ID, Name: row.Name, CurrentGroupID: row.CurrentGroupID}
	}
	return out, nil
}

func (r *Repository) CreateRoom(ctx context.Context, name string) (*models.Room, error) {
	row, err := r.queries.CreateRoom(ctx, db.CreateRoomParams{ID: uuid.New(), Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", sqlutil.MapError(err))
	}
	return &models.Room{ID: row.ID, Name: row.Name, CurrentGroupID: row.CurrentGroupID}, nil
}

func (r *Repository) SetCurrentGroup(ctx context.Context, roomID uuid.UUID, groupID string) (*models.Room, error) {
	row, err := r.queries.UpdateRoomCurrentGroup(ctx, db.UpdateRoomCurrentGroupParams{
		ID:             roomID,
		CurrentGroupID: groupID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set current group: %w", sqlutil.MapError(err))
	}
	return &models.Room{ID: row.ID, Name: row.Name, CurrentGroupID: row.CurrentGroupID}, nil
}

// CreateAttendance records a check-in. A repeated (person, group, role)
// check-in fails with models.ErrConflict.
func (r *Repository) CreateAttendance(ctx context.Context, a models.Attendance) (*models.Attendance, error) {
	row, err := r.queries.CreateAttendance(ctx, db.CreateAttendanceParams{
		ID:       uuid.New(),
		PersonID: a.PersonID,
		DeviceID: sqlutil.ToNullUUID(a.DeviceID),
		GroupID:  a.GroupID,
		Role:     string(a.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create attendance: %w", sqlutil.MapError(err))
	}
	return dbAttendanceToModel(row), nil
}

func (r *Repository) ListAttendanceByGroup(ctx context.Context, groupID string) ([]models.Attendance, error) {
	rows, err := r.queries.ListAttendanceByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	out := make([]models.Attendance, len(rows))
	for i, row := range rows {
		out[i] = *dbAttendanceToModel(row)
	}
	return out, nil
}

func dbDeviceToModel(d db.Device) *models.Device {
	return &models.Device{
		ID:                d.ID,
		Name:              d.Name,
		EspID:             int(d.EspID),
		Type:              models.DeviceType(d.Type),
		RoomID:            sqlutil.FromNullUUID(d.RoomID),
		BatteryPercentage: sqlutil.FromSqlInt32(d.BatteryPercentage),
		UpdatedAt:         d.UpdatedAt,
	}
}

func dbDeviceWithRoomToModel(d db.DeviceWithRoom) *models.Device {
	device := dbDeviceToModel(d.Device)
	if d.RoomID.Valid {
		device.Room = &models.Room{
			ID:             d.RoomID.UUID,
			Name:           sqlutil.FromSqlString(d.RoomName, ""),
			CurrentGroupID: sqlutil.FromSqlString(d.RoomCurrentGroupID, ""),
		}
	}
	return device
}

func dbAttendanceToModel(a db.Attendance) *models.Attendance {
	return &models.Attendance{
		ID:        a.ID,
		PersonID:  a.PersonID,
		DeviceID:  sqlutil.FromNullUUID(a.DeviceID),
		GroupID:   a.GroupID,
		Role:      models.StaffRole(a.Role),
		CreatedAt: a.CreatedAt,
	}
}
