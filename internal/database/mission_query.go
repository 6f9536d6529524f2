package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/blaulicht/leitstelle/internal/model"
)

type MissionQuery struct {
	Query[model.Mission]
	id              uint
	completedBefore time.Time
}

func NewMissionQuery(db *gorm.DB) *MissionQuery {
	return &MissionQuery{
		Query: Query[model.Mission]{
			db:    db,
			order: "missions.created_at ASC",
		},
	}
}

func (q *MissionQuery) Id(id uint) *MissionQuery {
	q.id = id
	return q
}

// CompletedBefore matches missions whose completion timestamp is set and
// older than t. Missions reopened before expiry have a null timestamp and
// never match.
func (q *MissionQuery) CompletedBefore(t time.Time) *MissionQuery {
	q.completedBefore = t
	return q
}

func (q *MissionQuery) where() *gorm.DB {
	tx := q.db.
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("mission_notes.id ASC")
		}).
		Preload("Alarms", func(db *gorm.DB) *gorm.DB {
			return db.Order("mission_alarms.id ASC")
		})

	if q.id != 0 {
		tx = tx.Where("id = ?", q.id)
	}

	if !q.completedBefore.IsZero() {
		tx = tx.Where("completed_at IS NOT NULL AND completed_at < ?", q.completedBefore)
	}

	return tx
}

func (q *MissionQuery) Get() []*model.Mission {
	return q.get(q.where().Model(&model.Mission{}))
}

func (q *MissionQuery) One() *model.Mission {
	return q.one(q.where().Model(&model.Mission{}))
}

func (q *MissionQuery) Count() int64 {
	return q.count(q.where().Model(&model.Mission{}))
}
