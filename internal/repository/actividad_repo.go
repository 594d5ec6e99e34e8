package repository

import (
	"context"
	"time"

	"github.com/LionelChoque/presupuestos-app/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsuarioActividadStat is one row of the per-user activity ranking.
type UsuarioActividadStat struct {
	UsuarioID uuid.UUID
	Cantidad  int64
}

type ActividadRepository interface {
	Create(ctx context.Context, a *model.ActividadUsuario) error
	// List returns activities newest-first with the Usuario preloaded.
	List(ctx context.Context, limit, offset int) ([]model.ActividadUsuario, error)
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID, limit, offset int) ([]model.ActividadUsuario, error)
	CountUsuariosActivosDesde(ctx context.Context, desde time.Time) (int64, error)
	TopUsuarios(ctx context.Context, limit int) ([]UsuarioActividadStat, error)
}

type actividadRepo struct{ db *gorm.DB }

func NewActividadRepository(db *gorm.DB) ActividadRepository { return &actividadRepo{db: db} }

func (r *actividadRepo) Create(ctx context.Context, a *model.ActividadUsuario) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *actividadRepo) List(ctx context.Context, limit, offset int) ([]model.ActividadUsuario, error) {
	var actividades []model.ActividadUsuario
	err := r.db.WithContext(ctx).Preload("Usuario").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&actividades).Error
	return actividades, err
}

func (r *actividadRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID, limit, offset int) ([]model.ActividadUsuario, error) {
	var actividades []model.ActividadUsuario
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&actividades).Error
	return actividades, err
}

func (r *actividadRepo) CountUsuariosActivosDesde(ctx context.Context, desde time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ActividadUsuario{}).
		Where("created_at > ?", desde).
		Distinct("usuario_id").Count(&n).Error
	return n, err
}

func (r *actividadRepo) TopUsuarios(ctx context.Context, limit int) ([]UsuarioActividadStat, error) {
	var stats []UsuarioActividadStat
	err := r.db.WithContext(ctx).Model(&model.ActividadUsuario{}).
		Select("usuario_id, COUNT(*) AS cantidad").
		Group("usuario_id").
		Order("cantidad DESC").
		Limit(limit).
		Scan(&stats).Error
	return stats, err
}
