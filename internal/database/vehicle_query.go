package database

import (
	"gorm.io/gorm"

	"github.com/blaulicht/leitstelle/internal/model"
)

type VehicleQuery struct {
	Query[model.Vehicle]
	id            uint
	name          string
	role          string
	forLeitstelle bool
}

func NewVehicleQuery(db *gorm.DB) *VehicleQuery {
	return &VehicleQuery{
		Query: Query[model.Vehicle]{
			db:    db,
			order: "name ASC",
		},
	}
}

func (q *VehicleQuery) Id(id uint) *VehicleQuery {
	q.id = id
	return q
}

func (q *VehicleQuery) Name(name string) *VehicleQuery {
	q.name = name
	return q
}

func (q *VehicleQuery) Role(role string) *VehicleQuery {
	q.role = role
	return q
}

func (q *VehicleQuery) ForLeitstelle() *VehicleQuery {
	q.forLeitstelle = true
	return q
}

func (q *VehicleQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("id = ?", q.id)
	}

	if q.name != "" {
		tx = tx.Where("name = ?", q.name)
	}

	if q.role != "" {
		tx = tx.Where("lower(role) = lower(?)", q.role)
	}

	if q.forLeitstelle {
		tx = tx.Where("for_leitstelle = ?", true)
	}

	return tx
}

func (q *VehicleQuery) Get() []*model.Vehicle {
	return q.get(q.where().Model(&model.Vehicle{}))
}

func (q *VehicleQuery) One() *model.Vehicle {
	return q.one(q.where().Model(&model.Vehicle{}))
}

func (q *VehicleQuery) Count() int64 {
	return q.count(q.where().Model(&model.Vehicle{}))
}

func (q *VehicleQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Vehicle{}), updates)
}

func (q *VehicleQuery) Delete() error {
	return q.where().Delete(&model.Vehicle{}).Error
}
