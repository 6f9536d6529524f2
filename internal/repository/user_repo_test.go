package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/blaulicht/leitstelle/internal/database"
	"github.com/blaulicht/leitstelle/internal/model"
)

func getTestManager(t *testing.T) *database.DatabaseManager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mm := database.New(db)
	require.NoError(t, mm.Migrate())

	return mm
}

func TestSeedFileImport(t *testing.T) {
	mm := getTestManager(t)

	name := filepath.Join(t.TempDir(), "users.yml")
	require.NoError(t, os.WriteFile(name, []byte(
		"- username: disp1\n  password: pw1\n  role: leitstelle\n"+
			"- username: fw9\n  password: pw9\n  role: feuerwehr\n"), 0o644))

	r := NewUserDbRepository(name, mm)
	require.NoError(t, r.Start())

	defer r.Stop()

	require.EqualValues(t, 2, mm.UserQuery().Count())
	require.Equal(t, "leitstelle", r.Get("disp1").GetRole())

	// re-import updates, it does not duplicate
	require.NoError(t, os.WriteFile(name, []byte(
		"- username: disp1\n  password: changed\n  role: leitstelle\n"), 0o644))

	require.NoError(t, r.importSeedFile())
	require.EqualValues(t, 2, mm.UserQuery().Count())
	require.Equal(t, "changed", r.Get("disp1").Password)
}

func TestCheckCredentials(t *testing.T) {
	mm := getTestManager(t)

	mm.Create(&model.User{Username: "admin", Password: "adminpw", Role: "admin"})

	r := NewUserDbRepository("", mm)
	require.NoError(t, r.Start())

	require.NotNil(t, r.CheckCredentials("admin", "adminpw"))
	require.Nil(t, r.CheckCredentials("admin", "ADMINPW"))
	require.Nil(t, r.CheckCredentials("Admin", "adminpw"))
	require.Nil(t, r.CheckCredentials("nobody", "adminpw"))
}
