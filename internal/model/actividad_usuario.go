package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Tipos de actividad auditados.
const (
	ActividadLogin         = "login"
	ActividadLogout        = "logout"
	ActividadBudgetUpdate  = "budget_update"
	ActividadContactCreate = "contact_create"
	ActividadContactUpdate = "contact_update"
	ActividadImportCSV     = "import_csv"
	ActividadImportDemo    = "import_demo"
	ActividadUsuarioCrear  = "user_create"
	ActividadUsuarioEditar = "user_update"
	ActividadUsuarioBorrar = "user_delete"
)

// DetalleActividad is the tagged detail payload stored with each audit entry.
// One variant per activity kind; unused fields stay empty so the column is
// queryable instead of an opaque blob.
type DetalleActividad struct {
	// import_csv / import_demo
	Importacion *DetalleImportacion `json:"importacion,omitempty"`
	// budget_update
	CamposModificados []string `json:"campos_modificados,omitempty"`
	// contact_create / contact_update
	Contacto *DetalleContacto `json:"contacto,omitempty"`
}

type DetalleImportacion struct {
	CompararConAnterior bool `json:"comparar_con_anterior"`
	FinalizarAusentes   bool `json:"finalizar_ausentes"`
	RegistrosTotales    int  `json:"registros_totales"`
}

type DetalleContacto struct {
	Nombre   string  `json:"nombre"`
	Email    *string `json:"email,omitempty"`
	Telefono *string `json:"telefono,omitempty"`
}

// ActividadUsuario is the append-only audit trail. It references its subject
// (EntidadID) but never owns it.
type ActividadUsuario struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo        string    `gorm:"not null"`
	Descripcion string    `gorm:"not null"`
	EntidadID   *string
	Detalles    datatypes.JSONType[DetalleActividad] `gorm:"type:jsonb"`
	CreatedAt   time.Time `gorm:"index"`

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (ActividadUsuario) TableName() string { return "actividades_usuario" }
