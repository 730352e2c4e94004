package repository

import "kaset/entities"

type EventRepository interface {
	Create(ev *entities.CareEvent) error
	ListByCrop(cropID uint) ([]entities.CareEvent, error)
}
