// Package seguimiento clasifica presupuestos según su antigüedad y ventana
// de validez: etapa de seguimiento, acción recomendada, prioridad, alertas y
// marca de licitación. Todas las funciones son puras; "ahora" es siempre un
// parámetro explícito para que los resultados sean deterministas en tests.
package seguimiento

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Resultado is the full classification of one budget at a given instant.
type Resultado struct {
	DiasTranscurridos int
	DiasRestantes     int
	TipoSeguimiento   string
	Accion            string
	Prioridad         string
	Alertas           []string
	EsLicitacion      bool
}

// Etapas y prioridades (mirrors internal/model constants; kept local so the
// package stays dependency-free).
const (
	EtapaConfirmacion = "Confirmación"
	EtapaPrimero      = "Primer Seguimiento"
	EtapaFinal        = "Seguimiento Final"
	EtapaVencido      = "Vencido"

	PrioridadAlta  = "Alta"
	PrioridadMedia = "Media"
)

// Acciones recomendadas por etapa.
const (
	accionVencido      = "Registrar estado final del presupuesto (aprobado, rechazado, o vencido sin respuesta)"
	accionConfirmacion = "Confirmar recepción del presupuesto y aclarar dudas iniciales"
	accionPrimero      = "Proporcionar información adicional sobre productos y verificar interés inicial"
	accionFinal        = "Última comunicación antes de expiración y motivar decisión final"
)

// palabrasLicitacion: empresas cuyo nombre contiene alguna de estas palabras
// se tratan como organismos públicos / licitaciones.
var palabrasLicitacion = []string{
	"municipalidad",
	"gobierno",
	"ministerio",
	"secretaría",
	"secretaria",
	"universidad",
	"obras públicas",
	"obras publicas",
	"agencia",
	"instituto",
}

// Clasificar computes the follow-up classification of a budget given its
// validity window, creation date and the evaluation instant.
func Clasificar(validez int, fechaCreacion, ahora time.Time) Resultado {
	transcurridos := DiasEntre(fechaCreacion, ahora)
	restantes := validez - transcurridos

	r := Resultado{
		DiasTranscurridos: transcurridos,
		DiasRestantes:     restantes,
		Alertas:           generarAlertas(validez, restantes),
	}

	// Primera rama que coincide gana; un presupuesto con restantes<=0 es
	// Vencido sin importar cuántos días lleve.
	switch {
	case restantes <= 0:
		r.TipoSeguimiento = EtapaVencido
		r.Accion = accionVencido
		r.Prioridad = PrioridadAlta
	case transcurridos <= 3:
		r.TipoSeguimiento = EtapaConfirmacion
		r.Accion = accionConfirmacion
		r.Prioridad = PrioridadMedia
		if validez < 14 {
			r.Prioridad = PrioridadAlta
		}
	case transcurridos <= 15:
		r.TipoSeguimiento = EtapaPrimero
		r.Accion = accionPrimero
		r.Prioridad = PrioridadMedia
		if restantes <= 7 {
			r.Prioridad = PrioridadAlta
		}
	default:
		r.TipoSeguimiento = EtapaFinal
		r.Accion = accionFinal
		r.Prioridad = PrioridadAlta
	}

	return r
}

func generarAlertas(validez, restantes int) []string {
	var alertas []string
	if validez == 0 {
		alertas = append(alertas, "Sin fecha de validez definida")
	}
	if validez > 0 && validez < 14 {
		alertas = append(alertas, fmt.Sprintf("Validez corta (%d días)", validez))
	}
	if restantes < 0 {
		alertas = append(alertas, fmt.Sprintf("Presupuesto vencido hace %d días", -restantes))
	}
	return alertas
}

// EsLicitacion marks public-sector / competitive-bid budgets: long validity
// windows or institutional company names.
func EsLicitacion(validez int, empresa string) bool {
	if validez > 60 {
		return true
	}
	nombre := strings.ToLower(empresa)
	for _, palabra := range palabrasLicitacion {
		if strings.Contains(nombre, palabra) {
			return true
		}
	}
	return false
}

// DiasEntre returns ceil(|b-a|) in days.
func DiasEntre(a, b time.Time) int {
	return int(math.Ceil(math.Abs(b.Sub(a).Hours()) / 24))
}

// FechaDesdePrefijo parses the DD/MM/YYYY prefix of the export's date field
// (the export sometimes appends a time suffix) as local midnight.
func FechaDesdePrefijo(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	return time.ParseInLocation("02/01/2006", s, time.Local)
}
