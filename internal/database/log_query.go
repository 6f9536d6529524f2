package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/blaulicht/leitstelle/internal/model"
)

type LogQuery struct {
	Query[model.LogEntry]
	vehicle string
	after   time.Time
}

func NewLogQuery(db *gorm.DB) *LogQuery {
	return &LogQuery{
		Query: Query[model.LogEntry]{
			db:    db,
			order: "id ASC",
		},
	}
}

func (q *LogQuery) Limit(n int) *LogQuery {
	q.limit = n
	return q
}

func (q *LogQuery) Vehicle(name string) *LogQuery {
	q.vehicle = name
	return q
}

func (q *LogQuery) After(t time.Time) *LogQuery {
	q.after = t
	return q
}

func (q *LogQuery) where() *gorm.DB {
	tx := q.db

	if q.vehicle != "" {
		tx = tx.Where("vehicle = ?", q.vehicle)
	}

	if !q.after.IsZero() {
		tx = tx.Where("time > ?", q.after)
	}

	return tx
}

func (q *LogQuery) Get() []*model.LogEntry {
	return q.get(q.where().Model(&model.LogEntry{}))
}

func (q *LogQuery) Count() int64 {
	return q.count(q.where().Model(&model.LogEntry{}))
}
