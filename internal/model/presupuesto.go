package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Estados de seguimiento de un presupuesto.
const (
	SeguimientoConfirmacion = "Confirmación"
	SeguimientoPrimero      = "Primer Seguimiento"
	SeguimientoFinal        = "Seguimiento Final"
	SeguimientoVencido      = "Vencido"
)

// Prioridades posibles.
const (
	PrioridadAlta  = "Alta"
	PrioridadMedia = "Media"
	PrioridadBaja  = "Baja"
)

// Estados de ciclo de vida.
const (
	EstadoPendiente = "Pendiente"
	EstadoVencido   = "Vencido"
)

// Presupuesto is the aggregate root keyed by the external budget id from the
// ERP export. Computed fields (montoTotal, dias*, tipoSeguimiento, accion,
// prioridad, alertas, esLicitacion) are overwritten on every import;
// user-curated fields (notas, completado, estado and their date stamps) are
// preserved across re-imports.
type Presupuesto struct {
	ID                 string `gorm:"primaryKey"`
	Empresa            string `gorm:"not null"`
	FechaCreacion      string `gorm:"not null"` // DD/MM/YYYY as exported
	Fabricante         string `gorm:"not null"`
	Moneda             string `gorm:"default:'Dólar EEUU'"`
	Descuento          int    `gorm:"default:0"`
	Validez            int    `gorm:"default:0"`
	MontoTotal         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DiasTranscurridos  int             `gorm:"default:0"`
	DiasRestantes      int             `gorm:"default:0"`
	TipoSeguimiento    string          `gorm:"not null"`
	Accion             string          `gorm:"not null"`
	Prioridad          string          `gorm:"not null"`
	Alertas            datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Completado         bool                        `gorm:"default:false"`
	FechaCompletado    *string
	Estado             string `gorm:"default:'Pendiente'"`
	FechaEstado        *string
	Notas              string `gorm:"default:''"`
	Finalizado         bool   `gorm:"default:false"`
	FechaFinalizado    *string
	EsLicitacion       bool                                  `gorm:"default:false"`
	HistorialEtapas    datatypes.JSONSlice[EntradaHistorial] `gorm:"type:jsonb"`
	HistorialAcciones  datatypes.JSONSlice[EntradaHistorial] `gorm:"type:jsonb"`
	UsuarioAsignadoID  *uuid.UUID                            `gorm:"type:uuid"`

	Items    []PresupuestoItem `gorm:"foreignKey:PresupuestoID;constraint:OnDelete:CASCADE"`
	Contacto *Contacto         `gorm:"foreignKey:PresupuestoID"`
}

func (Presupuesto) TableName() string { return "presupuestos" }

// EntradaHistorial is one append-only history record (stage or action).
type EntradaHistorial struct {
	Fecha   time.Time `json:"fecha"`
	Valor   string    `json:"valor"`
	Usuario string    `json:"usuario,omitempty"`
}

// PresupuestoItem is one line item. The whole item set of a budget is
// replaced on every re-import of that budget.
type PresupuestoItem struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	PresupuestoID string `gorm:"index;not null"`
	Codigo        string
	Descripcion   string          `gorm:"not null"`
	Precio        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Cantidad      int             `gorm:"default:1"`
}

func (PresupuestoItem) TableName() string { return "presupuesto_items" }

// Contacto is the optional 1:1 contact companion of a budget.
type Contacto struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	PresupuestoID string `gorm:"uniqueIndex;not null"`
	Nombre        string `gorm:"not null"`
	Email         *string
	Telefono      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Contacto) TableName() string { return "contactos" }
