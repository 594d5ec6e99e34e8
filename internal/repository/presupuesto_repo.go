package repository

import (
	"context"

	"github.com/LionelChoque/presupuestos-app/internal/model"

	"gorm.io/gorm"
)

// PresupuestoRepository defines the data access contract for budgets, their
// line items and contacts. Services depend on this interface, not on the
// concrete GORM implementation, enabling clean unit testing via stubs.
type PresupuestoRepository interface {
	FindAll(ctx context.Context) ([]model.Presupuesto, error)
	FindByID(ctx context.Context, id string) (*model.Presupuesto, error)
	// CreateTx / UpdateTx run inside the given tx when non-nil (services own
	// the transaction boundary); with a nil tx they fall back to the base DB.
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Presupuesto) error
	UpdateTx(ctx context.Context, tx *gorm.DB, p *model.Presupuesto) error
	// UpdateCampos patches selected columns without touching the rest.
	UpdateCampos(ctx context.Context, id string, campos map[string]interface{}) error

	FindItems(ctx context.Context, presupuestoID string) ([]model.PresupuestoItem, error)
	// ReplaceItemsTx swaps the whole item set of a budget inside the given tx.
	ReplaceItemsTx(ctx context.Context, tx *gorm.DB, presupuestoID string, items []model.PresupuestoItem) error

	FindAllContactos(ctx context.Context) ([]model.Contacto, error)
	FindContacto(ctx context.Context, presupuestoID string) (*model.Contacto, error)
	CreateContacto(ctx context.Context, c *model.Contacto) error
	UpdateContacto(ctx context.Context, c *model.Contacto) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type presupuestoRepo struct{ db *gorm.DB }

func NewPresupuestoRepository(db *gorm.DB) PresupuestoRepository { return &presupuestoRepo{db: db} }

func (r *presupuestoRepo) FindAll(ctx context.Context) ([]model.Presupuesto, error) {
	var presupuestos []model.Presupuesto
	err := r.db.WithContext(ctx).Order("fecha_creacion DESC").Find(&presupuestos).Error
	return presupuestos, err
}

func (r *presupuestoRepo) FindByID(ctx context.Context, id string) (*model.Presupuesto, error) {
	var p model.Presupuesto
	err := r.db.WithContext(ctx).Preload("Items").Preload("Contacto").
		Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *presupuestoRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Presupuesto) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(p).Error
}

func (r *presupuestoRepo) UpdateTx(ctx context.Context, tx *gorm.DB, p *model.Presupuesto) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(p).Error
}

func (r *presupuestoRepo) UpdateCampos(ctx context.Context, id string, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Presupuesto{}).
		Where("id = ?", id).Updates(campos).Error
}

func (r *presupuestoRepo) FindItems(ctx context.Context, presupuestoID string) ([]model.PresupuestoItem, error) {
	var items []model.PresupuestoItem
	err := r.db.WithContext(ctx).
		Where("presupuesto_id = ?", presupuestoID).
		Order("id ASC").Find(&items).Error
	return items, err
}

func (r *presupuestoRepo) ReplaceItemsTx(ctx context.Context, tx *gorm.DB, presupuestoID string, items []model.PresupuestoItem) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Where("presupuesto_id = ?", presupuestoID).
		Delete(&model.PresupuestoItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *presupuestoRepo) FindAllContactos(ctx context.Context) ([]model.Contacto, error) {
	var contactos []model.Contacto
	err := r.db.WithContext(ctx).Find(&contactos).Error
	return contactos, err
}

func (r *presupuestoRepo) FindContacto(ctx context.Context, presupuestoID string) (*model.Contacto, error) {
	var c model.Contacto
	err := r.db.WithContext(ctx).Where("presupuesto_id = ?", presupuestoID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *presupuestoRepo) CreateContacto(ctx context.Context, c *model.Contacto) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *presupuestoRepo) UpdateContacto(ctx context.Context, c *model.Contacto) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *presupuestoRepo) DB() *gorm.DB { return r.db }
