package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LionelChoque/presupuestos-app/internal/csvimport"
	"github.com/LionelChoque/presupuestos-app/internal/dto"
	"github.com/LionelChoque/presupuestos-app/internal/model"
	"github.com/LionelChoque/presupuestos-app/internal/repository"
	"github.com/LionelChoque/presupuestos-app/internal/seguimiento"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ImportacionService interface {
	// Importar reconcilia el CSV contra los presupuestos almacenados y
	// devuelve los contadores {added, updated, deleted, total}.
	Importar(ctx context.Context, csvData string, opts dto.OpcionesImportacion, ahora time.Time) (*dto.ResultadoImportacion, error)
	RegistrarImportacion(ctx context.Context, nombreArchivo string, res *dto.ResultadoImportacion)
	ListarRegistros(ctx context.Context) ([]dto.RegistroImportacionResponse, error)
}

type importacionService struct {
	repo       repository.PresupuestoRepository
	importRepo repository.ImportacionRepository
}

func NewImportacionService(repo repository.PresupuestoRepository, importRepo repository.ImportacionRepository) ImportacionService {
	return &importacionService{repo: repo, importRepo: importRepo}
}

// presupuestoEntrante is one budget built from a CSV group, classification
// already applied.
type presupuestoEntrante struct {
	presupuesto model.Presupuesto
	items       []model.PresupuestoItem
}

func (s *importacionService) Importar(ctx context.Context, csvData string, opts dto.OpcionesImportacion, ahora time.Time) (*dto.ResultadoImportacion, error) {
	// 1. Parse y agrupado completos ANTES de tocar el almacenamiento: un
	// error a nivel de stream no deja nada a medio escribir.
	filas, err := csvimport.Parse(strings.NewReader(csvData))
	if err != nil {
		return nil, err
	}
	grupos := csvimport.AgruparPorID(filas)

	entrantes := make([]presupuestoEntrante, 0, len(grupos))
	for _, g := range grupos {
		entrantes = append(entrantes, construirPresupuesto(g, ahora))
	}

	existentes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Diff por presencia de IDs. Todo presupuesto re-importado cuenta como
	// "updated" aunque su contenido sea idéntico; es un diff de presencia, no
	// de contenido, y la UI depende de esos contadores tal cual.
	existentesPorID := make(map[string]*model.Presupuesto, len(existentes))
	for i := range existentes {
		existentesPorID[existentes[i].ID] = &existentes[i]
	}
	entrantesIDs := make(map[string]bool, len(entrantes))

	resultado := &dto.ResultadoImportacion{}
	for _, e := range entrantes {
		entrantesIDs[e.presupuesto.ID] = true
		if _, ok := existentesPorID[e.presupuesto.ID]; ok {
			resultado.Actualizados++
		} else {
			resultado.Agregados++
		}
	}

	// 3. Upsert por presupuesto. Cada presupuesto va en su propia transacción
	// para que el reemplazo de items nunca quede a medias.
	for _, e := range entrantes {
		existente := existentesPorID[e.presupuesto.ID]
		if err := s.guardarPresupuesto(ctx, e, existente); err != nil {
			return nil, fmt.Errorf("guardando presupuesto %s: %w", e.presupuesto.ID, err)
		}
	}

	// 4. Ausentes: nunca se borran, solo se finalizan.
	if opts.CompararConAnterior && opts.FinalizarAusentes {
		hoy := ahora.Format("2006-01-02")
		for i := range existentes {
			ex := &existentes[i]
			if entrantesIDs[ex.ID] || ex.Finalizado {
				continue
			}
			err := s.repo.UpdateCampos(ctx, ex.ID, map[string]interface{}{
				"finalizado":       true,
				"fecha_finalizado": hoy,
				"estado":           model.EstadoVencido,
				"fecha_estado":     hoy,
			})
			if err != nil {
				return nil, fmt.Errorf("finalizando presupuesto %s: %w", ex.ID, err)
			}
			resultado.Eliminados++
		}
	}

	resultado.Total = len(entrantes)
	log.Info().
		Int("agregados", resultado.Agregados).
		Int("actualizados", resultado.Actualizados).
		Int("eliminados", resultado.Eliminados).
		Msg("importación de presupuestos completada")
	return resultado, nil
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// guardarPresupuesto upserts one budget and swaps its item set in a single
// transaction. On update the user-curated fields (notas, completado, estado
// and their stamps) are preserved verbatim.
func (s *importacionService) guardarPresupuesto(ctx context.Context, e presupuestoEntrante, existente *model.Presupuesto) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p := e.presupuesto
		if existente != nil {
			p.Notas = existente.Notas
			p.Completado = existente.Completado
			p.FechaCompletado = existente.FechaCompletado
			p.Estado = existente.Estado
			p.FechaEstado = existente.FechaEstado
			p.Finalizado = existente.Finalizado
			p.FechaFinalizado = existente.FechaFinalizado
			p.HistorialEtapas = existente.HistorialEtapas
			p.HistorialAcciones = existente.HistorialAcciones
			p.UsuarioAsignadoID = existente.UsuarioAsignadoID
			if err := s.repo.UpdateTx(ctx, tx, &p); err != nil {
				return err
			}
		} else {
			if err := s.repo.CreateTx(ctx, tx, &p); err != nil {
				return err
			}
		}

		items := make([]model.PresupuestoItem, len(e.items))
		copy(items, e.items)
		for i := range items {
			items[i].PresupuestoID = p.ID
		}
		return s.repo.ReplaceItemsTx(ctx, tx, p.ID, items)
	})
}

// construirPresupuesto builds the incoming budget from one CSV group: items,
// total amount, and the follow-up classification as of "ahora". The first
// row of the group carries the budget-level fields.
func construirPresupuesto(g csvimport.Grupo, ahora time.Time) presupuestoEntrante {
	cab := g.Filas[0]

	items := make([]model.PresupuestoItem, 0, len(g.Filas))
	total := decimal.Zero
	for _, f := range g.Filas {
		items = append(items, model.PresupuestoItem{
			PresupuestoID: g.ID,
			Codigo:        f.Codigo,
			Descripcion:   f.Descripcion,
			Precio:        f.PrecioNeto,
			Cantidad:      f.Cantidad,
		})
		total = total.Add(f.PrecioNeto.Mul(decimal.NewFromInt(int64(f.Cantidad))))
	}

	var res seguimiento.Resultado
	fecha, err := seguimiento.FechaDesdePrefijo(cab.FechaCreacion)
	if err != nil {
		log.Warn().Str("presupuesto", g.ID).Str("fecha", cab.FechaCreacion).
			Msg("fecha de creación ilegible; se clasifica como recién creado")
		res = seguimiento.Clasificar(cab.Validez, ahora, ahora)
	} else {
		res = seguimiento.Clasificar(cab.Validez, fecha, ahora)
	}

	return presupuestoEntrante{
		presupuesto: model.Presupuesto{
			ID:                g.ID,
			Empresa:           cab.Empresa,
			FechaCreacion:     cab.FechaCreacion,
			Fabricante:        cab.Fabricante,
			Moneda:            "Dólar EEUU",
			Descuento:         cab.Descuento,
			Validez:           cab.Validez,
			MontoTotal:        total,
			DiasTranscurridos: res.DiasTranscurridos,
			DiasRestantes:     res.DiasRestantes,
			TipoSeguimiento:   res.TipoSeguimiento,
			Accion:            res.Accion,
			Prioridad:         res.Prioridad,
			Alertas:           res.Alertas,
			Estado:            model.EstadoPendiente,
			EsLicitacion:      seguimiento.EsLicitacion(cab.Validez, cab.Empresa),
		},
		items: items,
	}
}

// RegistrarImportacion persists the import log entry; failures are logged,
// not raised, so the import result still reaches the caller.
func (s *importacionService) RegistrarImportacion(ctx context.Context, nombreArchivo string, res *dto.ResultadoImportacion) {
	reg := &model.RegistroImportacion{
		NombreArchivo:         nombreArchivo,
		RegistrosImportados:   res.Agregados,
		RegistrosActualizados: res.Actualizados,
		RegistrosEliminados:   res.Eliminados,
	}
	if err := s.importRepo.Create(ctx, reg); err != nil {
		log.Error().Err(err).Str("archivo", nombreArchivo).Msg("no se pudo registrar la importación")
	}
}

func (s *importacionService) ListarRegistros(ctx context.Context) ([]dto.RegistroImportacionResponse, error) {
	registros, err := s.importRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RegistroImportacionResponse, len(registros))
	for i, r := range registros {
		resp[i] = dto.RegistroImportacionResponse{
			ID:                    r.ID,
			NombreArchivo:         r.NombreArchivo,
			RegistrosImportados:   r.RegistrosImportados,
			RegistrosActualizados: r.RegistrosActualizados,
			RegistrosEliminados:   r.RegistrosEliminados,
			Fecha:                 r.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}
