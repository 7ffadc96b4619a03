package repository

import (
	"github.com/sahabat-guru/backend/internal/model"
	"gorm.io/gorm"
)

type MaterialRepository interface {
	Create(material *model.Material) error
	FindByID(id uint) (*model.Material, error)
	FindAllByTeacher(teacherID uint, page, limit int) ([]model.Material, int64, error)
	CountByTeacher(teacherID uint) (int64, error)
	Delete(id uint) error
}

type materialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(material *model.Material) error {
	return r.db.Create(material).Error
}

func (r *materialRepository) FindByID(id uint) (*model.Material, error) {
	var material model.Material
	if err := r.db.First(&material, id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepository) FindAllByTeacher(teacherID uint, page, limit int) ([]model.Material, int64, error) {
	var materials []model.Material
	var total int64

	query := r.db.Model(&model.Material{}).Where("teacher_id = ?", teacherID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&materials).Error
	return materials, total, err
}

func (r *materialRepository) CountByTeacher(teacherID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Material{}).Where("teacher_id = ?", teacherID).Count(&count).Error
	return count, err
}

func (r *materialRepository) Delete(id uint) error {
	return r.db.Delete(&model.Material{}, id).Error
}
