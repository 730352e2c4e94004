package repositoryImp

import (
	"kaset/entities"
	"kaset/pkg/crop/repository"

	"gorm.io/gorm"
)

type cropRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.CropRepository { return &cropRepo{db} }

func (r *cropRepo) Create(c *entities.Crop) error { return r.db.Create(c).Error }

func (r *cropRepo) FindByID(id uint, uid string) (*entities.Crop, error) {
	var c entities.Crop
	if err := r.db.Where("crop_id = ? AND user_id = ?", id, uid).First(&c).Error; err != nil { return nil, err }
	return &c, nil
}

func (r *cropRepo) ListByUser(uid string) ([]entities.Crop, error) {
	var out []entities.Crop
	if err := r.db.Where("user_id = ?", uid).Order("created_at DESC").Find(&out).Error; err != nil { return nil, err }
	return out, nil
}

func (r *cropRepo) Save(c *entities.Crop) error { return r.db.Save(c).Error }

func (r *cropRepo) Delete(id uint, uid string) error {
	return r.db.Where("crop_id = ? AND user_id = ?", id, uid).Delete(&entities.Crop{}).Error
}
