// Package csvimport parses the ERP budget export (one CSV row per line item)
// into typed rows and groups them by budget id. It has no persistence
// dependencies; malformed rows are dropped and logged rather than failing
// the batch.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Expected header columns. ID, Empresa, FechaCreacion, Fabricante and
// NetoItems_USD are required per row; the rest default when absent.
const (
	colID            = "ID"
	colEmpresa       = "Empresa"
	colFechaCreacion = "FechaCreacion"
	colNroItem       = "NroItem"
	colCantidad      = "Cantidad"
	colCodigo        = "Codigo_Producto"
	colDescripcion   = "Descripcion"
	colFabricante    = "Fabricante"
	colNeto          = "NetoItems_USD"
	colDescuento     = "Descuento"
	colValidez       = "Validez"
)

// Fila is one validated CSV line (= one budget line item). Ephemeral: it
// only exists during an import.
type Fila struct {
	ID            string
	Empresa       string
	FechaCreacion string
	NroItem       int
	Cantidad      int
	Codigo        string
	Descripcion   string
	Fabricante    string
	PrecioNeto    decimal.Decimal
	Descuento     int
	Validez       int
}

// Grupo buckets the rows of one budget, preserving first-seen order.
type Grupo struct {
	ID    string
	Filas []Fila
}

// Parse reads the whole CSV. A stream-level error fails the call; individual
// rows that miss required columns are skipped and logged.
func Parse(r io.Reader) ([]Fila, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged exports happen; validate per row instead
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leyendo CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	idx, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	var filas []Fila
	for i, rec := range records[1:] {
		fila, err := parseRow(rec, idx)
		if err != nil {
			log.Warn().Int("fila", i+2).Err(err).Msg("fila CSV descartada")
			continue
		}
		filas = append(filas, fila)
	}
	return filas, nil
}

// AgruparPorID buckets rows by budget id preserving first-seen order.
// Buckets with an empty id are discarded.
func AgruparPorID(filas []Fila) []Grupo {
	byID := make(map[string]int)
	var grupos []Grupo
	for _, f := range filas {
		if f.ID == "" {
			continue
		}
		pos, ok := byID[f.ID]
		if !ok {
			pos = len(grupos)
			byID[f.ID] = pos
			grupos = append(grupos, Grupo{ID: f.ID})
		}
		grupos[pos].Filas = append(grupos[pos].Filas, f)
	}
	return grupos
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, req := range []string{colID, colEmpresa, colFechaCreacion, colFabricante, colNeto} {
		if _, ok := idx[req]; !ok {
			return nil, fmt.Errorf("cabecera CSV sin columna requerida %q", req)
		}
	}
	return idx, nil
}

func parseRow(rec []string, idx map[string]int) (Fila, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	for _, req := range []string{colID, colEmpresa, colFechaCreacion, colFabricante, colNeto} {
		if get(req) == "" {
			return Fila{}, fmt.Errorf("columna requerida %q vacía", req)
		}
	}

	precio, err := parsePrecio(get(colNeto))
	if err != nil {
		return Fila{}, fmt.Errorf("precio %q: %w", get(colNeto), err)
	}

	return Fila{
		ID:            get(colID),
		Empresa:       get(colEmpresa),
		FechaCreacion: get(colFechaCreacion),
		NroItem:       atoiDefault(get(colNroItem), 0),
		Cantidad:      atoiDefault(get(colCantidad), 1),
		Codigo:        get(colCodigo),
		Descripcion:   get(colDescripcion),
		Fabricante:    get(colFabricante),
		PrecioNeto:    precio,
		Descuento:     atoiDefault(get(colDescuento), 0),
		Validez:       atoiDefault(get(colValidez), 0),
	}, nil
}

// parsePrecio accepts the export's comma decimal separator ("1234,56").
func parsePrecio(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
