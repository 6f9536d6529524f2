package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/blaulicht/leitstelle/internal/model"
)

type DatabaseManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB) *DatabaseManager {
	return &DatabaseManager{
		db:     db,
		logger: slog.With("logger", "dbm"),
	}
}

func (mm *DatabaseManager) Migrate() error {
	if mm == nil || mm.db == nil {
		return fmt.Errorf("no database")
	}

	return mm.db.AutoMigrate(
		&model.User{},
		&model.Vehicle{},
		&model.LogEntry{},
		&model.Mission{},
		&model.MissionNote{},
		&model.MissionAlarm{},
	)
}

// AddDefaults seeds empty collections with the stock accounts, vehicles and
// a demo mission so a fresh install is usable right away.
func (mm *DatabaseManager) AddDefaults() {
	if mm.UserQuery().Count() == 0 {
		mm.logger.Info("seeding default users")

		for _, u := range []*model.User{
			{Username: "admin", Password: "adminpw", Role: model.ROLE_ADMIN},
			{Username: "leit", Password: "leitpw", Role: model.ROLE_LEITSTELLE},
			{Username: "fw1", Password: "fwpw", Role: model.ROLE_FEUERWEHR},
			{Username: "pol1", Password: "polpw", Role: model.ROLE_POLIZEI},
			{Username: "rd1", Password: "rdpw", Role: model.ROLE_RETTUNG},
		} {
			if err := mm.Create(u); err != nil {
				mm.logger.Error("error seeding user", slog.Any("error", err))
			}
		}
	}

	if mm.VehicleQuery().Count() == 0 {
		mm.logger.Info("seeding default vehicles")

		for _, v := range []*model.Vehicle{
			{Name: "RTW 1", Role: model.ROLE_RETTUNG, ForLeitstelle: true},
			{Name: "LF 1", Role: model.ROLE_FEUERWEHR, ForLeitstelle: true},
			{Name: "Streifenwagen 1", Role: model.ROLE_POLIZEI, ForLeitstelle: true},
		} {
			if err := mm.Create(v); err != nil {
				mm.logger.Error("error seeding vehicle", slog.Any("error", err))
			}
		}
	}

	if mm.MissionQuery().Count() == 0 {
		mm.logger.Info("seeding demo mission")

		m := &model.Mission{
			Vehicles:    []string{"RTW 1"},
			Title:       "Demo mission",
			Description: "created automatically",
			CreatedBy:   "leit",
			CreatedAt:   time.Now(),
		}

		if err := mm.Create(m); err != nil {
			mm.logger.Error("error seeding mission", slog.Any("error", err))
		}
	}
}

func (mm *DatabaseManager) Create(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Create(s).Error

	if err != nil {
		mm.logger.Error("error create object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) Save(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Save(s).Error

	if err != nil {
		mm.logger.Error("error saving object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) UserQuery() *UserQuery {
	return NewUserQuery(mm.db)
}

func (mm *DatabaseManager) VehicleQuery() *VehicleQuery {
	return NewVehicleQuery(mm.db)
}

func (mm *DatabaseManager) LogQuery() *LogQuery {
	return NewLogQuery(mm.db)
}

func (mm *DatabaseManager) MissionQuery() *MissionQuery {
	return NewMissionQuery(mm.db)
}

// CreateUser inserts a new account, failing with ErrConflict if the
// username is taken.
func (mm *DatabaseManager) CreateUser(u *model.User) error {
	if mm.UserQuery().Username(u.Username).Count() > 0 {
		return ErrConflict
	}

	return mm.Create(u)
}

// CreateVehicle inserts a new vehicle, failing with ErrConflict if the
// name is taken.
func (mm *DatabaseManager) CreateVehicle(v *model.Vehicle) error {
	if mm.VehicleQuery().Name(v.Name).Count() > 0 {
		return ErrConflict
	}

	return mm.Create(v)
}

// UpdateMission writes the mutable mission fields with a conditional
// write on the version the caller read. A raced write changes the version
// first and the loser gets ErrConflict. The diff note, if any, is created
// in the same transaction.
func (mm *DatabaseManager) UpdateMission(m *model.Mission, oldVersion uint, note *model.MissionNote) error {
	if mm == nil || mm.db == nil {
		return fmt.Errorf("no database")
	}

	m.Version = oldVersion + 1

	return mm.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(m).
			Where("version = ?", oldVersion).
			Select("Vehicles", "Title", "Description", "Completed", "CompletedAt", "Version").
			Updates(m)

		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrConflict
		}

		if note != nil {
			note.MissionID = m.ID

			return tx.Create(note).Error
		}

		return nil
	})
}

// AddMissionNote appends a note to the mission.
func (mm *DatabaseManager) AddMissionNote(m *model.Mission, note *model.MissionNote) error {
	note.MissionID = m.ID

	if err := mm.Create(note); err != nil {
		return err
	}

	m.Notes = append(m.Notes, note)

	return nil
}

// AddMissionAlarm appends an alarm to the mission.
func (mm *DatabaseManager) AddMissionAlarm(m *model.Mission, alarm *model.MissionAlarm) error {
	alarm.MissionID = m.ID

	if err := mm.Create(alarm); err != nil {
		return err
	}

	m.Alarms = append(m.Alarms, alarm)

	return nil
}

// DeleteExpiredMissions removes missions completed before the cutoff,
// along with their notes and alarms. Returns the ids removed.
func (mm *DatabaseManager) DeleteExpiredMissions(cutoff time.Time) []uint {
	var ids []uint

	mm.db.Model(&model.Mission{}).
		Where("completed_at IS NOT NULL AND completed_at < ?", cutoff).
		Pluck("id", &ids)

	if len(ids) == 0 {
		return nil
	}

	err := mm.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mission_id IN ?", ids).Delete(&model.MissionNote{}).Error; err != nil {
			return err
		}

		if err := tx.Where("mission_id IN ?", ids).Delete(&model.MissionAlarm{}).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", ids).Delete(&model.Mission{}).Error
	})

	if err != nil {
		mm.logger.Error("error deleting expired missions", slog.Any("error", err))

		return nil
	}

	return ids
}
