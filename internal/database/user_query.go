package database

import (
	"gorm.io/gorm"

	"github.com/blaulicht/leitstelle/internal/model"
)

type UserQuery struct {
	Query[model.User]
	id       uint
	username string
}

func NewUserQuery(db *gorm.DB) *UserQuery {
	return &UserQuery{
		Query: Query[model.User]{
			db:    db,
			order: "username ASC",
		},
	}
}

func (q *UserQuery) Id(id uint) *UserQuery {
	q.id = id
	return q
}

func (q *UserQuery) Username(username string) *UserQuery {
	q.username = username
	return q
}

func (q *UserQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("id = ?", q.id)
	}

	if q.username != "" {
		tx = tx.Where("username = ?", q.username)
	}

	return tx
}

func (q *UserQuery) Get() []*model.User {
	return q.get(q.where().Model(&model.User{}))
}

func (q *UserQuery) One() *model.User {
	return q.one(q.where().Model(&model.User{}))
}

func (q *UserQuery) Count() int64 {
	return q.count(q.where().Model(&model.User{}))
}

func (q *UserQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.User{}), updates)
}

func (q *UserQuery) Delete() error {
	return q.where().Delete(&model.User{}).Error
}
