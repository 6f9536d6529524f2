package repository

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/blaulicht/leitstelle/internal/database"
	"github.com/blaulicht/leitstelle/internal/model"
)

var _ UserRepository = &UserDbRepository{}

// UserDbRepository keeps accounts in the database and optionally imports
// them from a yaml seed file. The file is watched and re-imported on
// change, upserting by username.
type UserDbRepository struct {
	logger   *slog.Logger
	seedFile string
	dbm      *database.DatabaseManager

	watcher *fsnotify.Watcher
}

func NewUserDbRepository(seedFile string, dbm *database.DatabaseManager) *UserDbRepository {
	return &UserDbRepository{
		logger:   slog.With(slog.String("logger", "user_repo")),
		seedFile: seedFile,
		dbm:      dbm,
	}
}

func (r *UserDbRepository) Start() error {
	if r.seedFile == "" {
		return nil
	}

	if err := r.importSeedFile(); err != nil {
		r.logger.Error("error importing users file", slog.Any("error", err))
	}

	var err error

	r.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := r.watcher.Add(r.seedFile); err != nil {
		// missing seed file is fine, defaults apply
		r.watcher.Close()
		r.watcher = nil

		return nil
	}

	go r.watch()

	return nil
}

func (r *UserDbRepository) watch() {
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}

			r.logger.Debug(fmt.Sprintf("event: %v", event))

			if event.Has(fsnotify.Write) && event.Name == r.seedFile {
				r.logger.Info("users file is modified, reloading")

				if err := r.importSeedFile(); err != nil {
					r.logger.Error("error", slog.Any("error", err))
				}
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}

			r.logger.Error("error", slog.Any("error", err))
		}
	}
}

func (r *UserDbRepository) importSeedFile() error {
	if _, err := os.Lstat(r.seedFile); os.IsNotExist(err) {
		return nil
	}

	dat, err := os.ReadFile(r.seedFile)
	if err != nil {
		return err
	}

	users := make([]*model.User, 0)

	if err := yaml.Unmarshal(dat, &users); err != nil {
		return err
	}

	for _, user := range users {
		if user.Username == "" {
			continue
		}

		if existing := r.dbm.UserQuery().Username(user.Username).One(); existing != nil {
			updates := map[string]any{}

			if user.Password != "" {
				updates["password"] = user.Password
			}

			if user.Role != "" {
				updates["role"] = user.Role
			}

			if len(updates) > 0 {
				_ = r.dbm.UserQuery().Id(existing.ID).Update(updates)
			}

			continue
		}

		if err := r.dbm.Create(user); err != nil {
			r.logger.Error("error creating user "+user.Username, slog.Any("error", err))
		}
	}

	return nil
}

func (r *UserDbRepository) Stop() {
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
}

func (r *UserDbRepository) CheckCredentials(username, password string) *model.User {
	u := r.dbm.UserQuery().Username(username).One()

	if u == nil || u.Password != password {
		return nil
	}

	return u
}

func (r *UserDbRepository) Get(username string) *model.User {
	return r.dbm.UserQuery().Username(username).One()
}
