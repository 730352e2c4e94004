package repositoryImp

import (
	"kaset/entities"
	"kaset/pkg/careevent/repository"

	"gorm.io/gorm"
)

type eventRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.EventRepository { return &eventRepo{db} }

func (r *eventRepo) Create(ev *entities.CareEvent) error { return r.db.Create(ev).Error }

func (r *eventRepo) ListByCrop(cropID uint) ([]entities.CareEvent, error) {
	var out []entities.CareEvent
	if err := r.db.Where("crop_id = ?", cropID).Order("performed_at ASC").Find(&out).Error; err != nil { return nil, err }
	return out, nil
}
