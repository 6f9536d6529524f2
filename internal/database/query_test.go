package database

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/blaulicht/leitstelle/internal/model"
)

func getTestManager(t *testing.T) *DatabaseManager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mm := New(db)
	require.NoError(t, mm.Migrate())

	return mm
}

func TestVehicleConflict(t *testing.T) {
	mm := getTestManager(t)

	require.NoError(t, mm.CreateVehicle(&model.Vehicle{Name: "RTW 1", Role: "rettung"}))
	require.ErrorIs(t, mm.CreateVehicle(&model.Vehicle{Name: "RTW 1", Role: "rettung"}), ErrConflict)
	require.EqualValues(t, 1, mm.VehicleQuery().Count())
}

func TestVehicleProjections(t *testing.T) {
	mm := getTestManager(t)

	mm.Create(&model.Vehicle{Name: "RTW 1", Role: "rettung", ForLeitstelle: true})
	mm.Create(&model.Vehicle{Name: "RTW 2", Role: "rettung"})
	mm.Create(&model.Vehicle{Name: "LF 1", Role: "feuerwehr", ForLeitstelle: true})

	forDispatch := mm.VehicleQuery().ForLeitstelle().Get()
	require.Len(t, forDispatch, 2)

	own := mm.VehicleQuery().Role("Rettung").Get()
	require.Len(t, own, 2)
	for _, v := range own {
		require.Equal(t, "rettung", v.Role)
	}
}

func TestUserUpdate(t *testing.T) {
	mm := getTestManager(t)

	require.NoError(t, mm.CreateUser(&model.User{Username: "fw1", Password: "fwpw", Role: "feuerwehr"}))

	u := mm.UserQuery().Username("fw1").One()
	require.NotNil(t, u)

	require.NoError(t, mm.UserQuery().Id(u.ID).Update(map[string]any{"password": "new", "role": "polizei"}))
	require.ErrorIs(t, mm.UserQuery().Id(u.ID+100).Update(map[string]any{"role": "polizei"}), ErrNotFound)

	u = mm.UserQuery().Id(u.ID).One()
	require.Equal(t, "new", u.Password)
	require.Equal(t, "polizei", u.Role)
}

func TestMissionRoundtrip(t *testing.T) {
	mm := getTestManager(t)

	m := &model.Mission{
		Vehicles:  []string{"RTW 1", "LF 1"},
		Title:     "fire",
		CreatedBy: "leit",
		CreatedAt: time.Now(),
	}

	require.NoError(t, mm.Create(m))

	got := mm.MissionQuery().Id(m.ID).One()
	require.NotNil(t, got)
	require.Equal(t, []string{"RTW 1", "LF 1"}, got.Vehicles)
	require.Empty(t, got.Notes)
	require.Empty(t, got.Alarms)
	require.Nil(t, got.CompletedAt)
}

func TestMissionUpdateVersionRace(t *testing.T) {
	mm := getTestManager(t)

	m := &model.Mission{Vehicles: []string{"RTW 1"}, Title: "fire", CreatedAt: time.Now()}
	require.NoError(t, mm.Create(m))

	// two writers read the same version
	a := mm.MissionQuery().Id(m.ID).One()
	b := mm.MissionQuery().Id(m.ID).One()

	a.Title = "big fire"
	require.NoError(t, mm.UpdateMission(a, a.Version, &model.MissionNote{By: "a", At: time.Now(), Text: "t"}))

	b.Description = "details"
	require.ErrorIs(t, mm.UpdateMission(b, b.Version, nil), ErrConflict)

	got := mm.MissionQuery().Id(m.ID).One()
	require.Equal(t, "big fire", got.Title)
	require.Equal(t, "", got.Description)
	require.Len(t, got.Notes, 1)
}

func TestDeleteExpiredMissions(t *testing.T) {
	mm := getTestManager(t)

	old := time.Now().Add(-time.Hour * 80)
	fresh := time.Now().Add(-time.Hour)

	m1 := &model.Mission{Title: "old", Completed: true, CompletedAt: &old, CreatedAt: old}
	m2 := &model.Mission{Title: "fresh", Completed: true, CompletedAt: &fresh, CreatedAt: fresh}
	m3 := &model.Mission{Title: "reopened", CreatedAt: old}

	for _, m := range []*model.Mission{m1, m2, m3} {
		require.NoError(t, mm.Create(m))
	}

	require.NoError(t, mm.AddMissionNote(m1, &model.MissionNote{By: "x", At: old, Text: "n"}))

	ids := mm.DeleteExpiredMissions(time.Now().Add(-time.Hour * 72))
	require.Equal(t, []uint{m1.ID}, ids)

	require.Nil(t, mm.MissionQuery().Id(m1.ID).One())
	require.NotNil(t, mm.MissionQuery().Id(m2.ID).One())
	require.NotNil(t, mm.MissionQuery().Id(m3.ID).One())
}
