package repository

import (
	"context"

	"github.com/LionelChoque/presupuestos-app/internal/model"

	"gorm.io/gorm"
)

type ImportacionRepository interface {
	Create(ctx context.Context, reg *model.RegistroImportacion) error
	List(ctx context.Context) ([]model.RegistroImportacion, error)
}

type importacionRepo struct{ db *gorm.DB }

func NewImportacionRepository(db *gorm.DB) ImportacionRepository { return &importacionRepo{db: db} }

func (r *importacionRepo) Create(ctx context.Context, reg *model.RegistroImportacion) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *importacionRepo) List(ctx context.Context) ([]model.RegistroImportacion, error) {
	var registros []model.RegistroImportacion
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&registros).Error
	return registros, err
}
