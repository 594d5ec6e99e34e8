package model

import "time"

// RegistroImportacion is the append-only log of CSV import operations.
type RegistroImportacion struct {
	ID                   uint   `gorm:"primaryKey;autoIncrement"`
	NombreArchivo        string `gorm:"not null"`
	RegistrosImportados  int    `gorm:"not null"`
	RegistrosActualizados int   `gorm:"default:0"`
	RegistrosEliminados  int    `gorm:"default:0"`
	CreatedAt            time.Time
}

func (RegistroImportacion) TableName() string { return "registros_importacion" }
