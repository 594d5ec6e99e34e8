package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpcionesImportacion struct {
	CompararConAnterior bool `json:"compareWithPrevious"`
	FinalizarAusentes   bool `json:"autoFinalizeMissing"`
}

type ImportarCSVRequest struct {
	CSVData  string              `json:"csvData" validate:"required"`
	Opciones OpcionesImportacion `json:"options"`
}

type ImportarDemoRequest struct {
	Opciones OpcionesImportacion `json:"options"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ResultadoImportacion mirrors the reconciliation counters returned to the UI.
type ResultadoImportacion struct {
	Agregados    int `json:"added"`
	Actualizados int `json:"updated"`
	Eliminados   int `json:"deleted"`
	Total        int `json:"total"`
}

type RegistroImportacionResponse struct {
	ID                    uint   `json:"id"`
	NombreArchivo         string `json:"nombre_archivo"`
	RegistrosImportados   int    `json:"registros_importados"`
	RegistrosActualizados int    `json:"registros_actualizados"`
	RegistrosEliminados   int    `json:"registros_eliminados"`
	Fecha                 string `json:"fecha"`
}
