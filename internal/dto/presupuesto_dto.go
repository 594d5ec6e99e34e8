package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ActualizarPresupuestoRequest carries PATCH semantics: only non-nil fields
// are applied.
type ActualizarPresupuestoRequest struct {
	Completado      *bool   `json:"completado"`
	Estado          *string `json:"estado"          validate:"omitempty,min=1,max=50"`
	Notas           *string `json:"notas"`
	Prioridad       *string `json:"prioridad"       validate:"omitempty,oneof=Alta Media Baja"`
	UsuarioAsignado *string `json:"usuario_asignado" validate:"omitempty,uuid"`
}

type GuardarContactoRequest struct {
	PresupuestoID string  `json:"presupuesto_id" validate:"required"`
	Nombre        string  `json:"nombre"         validate:"required,min=1"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Telefono      *string `json:"telefono"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PresupuestoItemResponse struct {
	ID          uint            `json:"id"`
	Codigo      string          `json:"codigo"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Cantidad    int             `json:"cantidad"`
}

type PresupuestoResponse struct {
	ID                string                  `json:"id"`
	Empresa           string                  `json:"empresa"`
	FechaCreacion     string                  `json:"fecha_creacion"`
	Fabricante        string                  `json:"fabricante"`
	Moneda            string                  `json:"moneda"`
	Descuento         int                     `json:"descuento"`
	Validez           int                     `json:"validez"`
	MontoTotal        decimal.Decimal         `json:"monto_total"`
	DiasTranscurridos int                     `json:"dias_transcurridos"`
	DiasRestantes     int                     `json:"dias_restantes"`
	TipoSeguimiento   string                  `json:"tipo_seguimiento"`
	Accion            string                  `json:"accion"`
	Prioridad         string                  `json:"prioridad"`
	Alertas           []string                `json:"alertas"`
	Completado        bool                    `json:"completado"`
	FechaCompletado   *string                 `json:"fecha_completado"`
	Estado            string                  `json:"estado"`
	FechaEstado       *string                 `json:"fecha_estado"`
	Notas             string                  `json:"notas"`
	Finalizado        bool                    `json:"finalizado"`
	FechaFinalizado   *string                 `json:"fecha_finalizado"`
	EsLicitacion      bool                    `json:"es_licitacion"`
	UsuarioAsignado   *string                   `json:"usuario_asignado"`
	Items             []PresupuestoItemResponse `json:"items,omitempty"`
}

type ContactoResponse struct {
	ID            uint    `json:"id"`
	PresupuestoID string  `json:"presupuesto_id"`
	Nombre        string  `json:"nombre"`
	Email         *string `json:"email,omitempty"`
	Telefono      *string `json:"telefono,omitempty"`
}
