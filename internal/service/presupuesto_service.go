package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LionelChoque/presupuestos-app/internal/dto"
	"github.com/LionelChoque/presupuestos-app/internal/model"
	"github.com/LionelChoque/presupuestos-app/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPresupuestoNoEncontrado = errors.New("presupuesto no encontrado")

type PresupuestoService interface {
	Listar(ctx context.Context) ([]dto.PresupuestoResponse, error)
	Obtener(ctx context.Context, id string) (*dto.PresupuestoResponse, error)
	ObtenerItems(ctx context.Context, id string) ([]dto.PresupuestoItemResponse, error)
	Actualizar(ctx context.Context, id string, usuario *model.Usuario, req dto.ActualizarPresupuestoRequest) (*dto.PresupuestoResponse, error)

	ListarContactos(ctx context.Context) ([]dto.ContactoResponse, error)
	ObtenerContacto(ctx context.Context, presupuestoID string) (*dto.ContactoResponse, error)
	GuardarContacto(ctx context.Context, usuario *model.Usuario, req dto.GuardarContactoRequest) (*dto.ContactoResponse, bool, error)
}

type presupuestoService struct {
	repo      repository.PresupuestoRepository
	actividad ActividadService
}

func NewPresupuestoService(repo repository.PresupuestoRepository, actividad ActividadService) PresupuestoService {
	return &presupuestoService{repo: repo, actividad: actividad}
}

func (s *presupuestoService) Listar(ctx context.Context) ([]dto.PresupuestoResponse, error) {
	presupuestos, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PresupuestoResponse, len(presupuestos))
	for i := range presupuestos {
		resp[i] = presupuestoToResponse(&presupuestos[i], false)
	}
	return resp, nil
}

func (s *presupuestoService) Obtener(ctx context.Context, id string) (*dto.PresupuestoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresupuestoNoEncontrado
		}
		return nil, err
	}
	resp := presupuestoToResponse(p, true)
	return &resp, nil
}

func (s *presupuestoService) ObtenerItems(ctx context.Context, id string) ([]dto.PresupuestoItemResponse, error) {
	items, err := s.repo.FindItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return itemsToResponse(items), nil
}

// Actualizar aplica un PATCH sobre los campos curados por el usuario. Los
// cambios de estado y completado estampan su fecha y dejan rastro en el
// historial correspondiente.
func (s *presupuestoService) Actualizar(ctx context.Context, id string, usuario *model.Usuario, req dto.ActualizarPresupuestoRequest) (*dto.PresupuestoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresupuestoNoEncontrado
		}
		return nil, err
	}

	hoy := time.Now().Format("2006-01-02")
	var modificados []string

	if req.Notas != nil {
		p.Notas = *req.Notas
		modificados = append(modificados, "notas")
	}
	if req.Completado != nil && *req.Completado != p.Completado {
		p.Completado = *req.Completado
		if p.Completado {
			p.FechaCompletado = &hoy
		} else {
			p.FechaCompletado = nil
		}
		modificados = append(modificados, "completado")
	}
	if req.Estado != nil && *req.Estado != p.Estado {
		p.Estado = *req.Estado
		p.FechaEstado = &hoy
		p.HistorialEtapas = append(p.HistorialEtapas, model.EntradaHistorial{
			Fecha:   time.Now(),
			Valor:   p.Estado,
			Usuario: usuario.Username,
		})
		modificados = append(modificados, "estado")
	}
	if req.Prioridad != nil {
		p.Prioridad = *req.Prioridad
		modificados = append(modificados, "prioridad")
	}
	if req.UsuarioAsignado != nil {
		uid, err := uuid.Parse(*req.UsuarioAsignado)
		if err != nil {
			return nil, errors.New("usuario_asignado invalido")
		}
		p.UsuarioAsignadoID = &uid
		modificados = append(modificados, "usuario_asignado")
	}

	if len(modificados) == 0 {
		resp := presupuestoToResponse(p, true)
		return &resp, nil
	}

	p.HistorialAcciones = append(p.HistorialAcciones, model.EntradaHistorial{
		Fecha:   time.Now(),
		Valor:   fmt.Sprintf("Actualización manual: %v", modificados),
		Usuario: usuario.Username,
	})

	if err := s.repo.UpdateTx(ctx, nil, p); err != nil {
		return nil, err
	}

	s.actividad.Registrar(ctx, usuario.ID, model.ActividadBudgetUpdate,
		fmt.Sprintf("Usuario %s actualizó el presupuesto %s", usuario.Username, p.ID),
		&p.ID, model.DetalleActividad{CamposModificados: modificados})

	resp := presupuestoToResponse(p, true)
	return &resp, nil
}

func (s *presupuestoService) ListarContactos(ctx context.Context) ([]dto.ContactoResponse, error) {
	contactos, err := s.repo.FindAllContactos(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ContactoResponse, len(contactos))
	for i, c := range contactos {
		resp[i] = contactoToResponse(&c)
	}
	return resp, nil
}

func (s *presupuestoService) ObtenerContacto(ctx context.Context, presupuestoID string) (*dto.ContactoResponse, error) {
	c, err := s.repo.FindContacto(ctx, presupuestoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("contacto no encontrado")
		}
		return nil, err
	}
	resp := contactoToResponse(c)
	return &resp, nil
}

// GuardarContacto upserts the contact of a budget. The bool result reports
// whether the contact was newly created.
func (s *presupuestoService) GuardarContacto(ctx context.Context, usuario *model.Usuario, req dto.GuardarContactoRequest) (*dto.ContactoResponse, bool, error) {
	detalle := model.DetalleActividad{Contacto: &model.DetalleContacto{
		Nombre: req.Nombre, Email: req.Email, Telefono: req.Telefono,
	}}

	existente, err := s.repo.FindContacto(ctx, req.PresupuestoID)
	if err == nil {
		existente.Nombre = req.Nombre
		existente.Email = req.Email
		existente.Telefono = req.Telefono
		if err := s.repo.UpdateContacto(ctx, existente); err != nil {
			return nil, false, err
		}
		s.actividad.Registrar(ctx, usuario.ID, model.ActividadContactUpdate,
			fmt.Sprintf("Usuario %s actualizó el contacto para el presupuesto %s", usuario.Username, req.PresupuestoID),
			&req.PresupuestoID, detalle)
		resp := contactoToResponse(existente)
		return &resp, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	nuevo := &model.Contacto{
		PresupuestoID: req.PresupuestoID,
		Nombre:        req.Nombre,
		Email:         req.Email,
		Telefono:      req.Telefono,
	}
	if err := s.repo.CreateContacto(ctx, nuevo); err != nil {
		return nil, false, err
	}
	s.actividad.Registrar(ctx, usuario.ID, model.ActividadContactCreate,
		fmt.Sprintf("Usuario %s creó el contacto para el presupuesto %s", usuario.Username, req.PresupuestoID),
		&req.PresupuestoID, detalle)
	resp := contactoToResponse(nuevo)
	return &resp, true, nil
}

// ─── Mapeos ──────────────────────────────────────────────────────────────────

func presupuestoToResponse(p *model.Presupuesto, conItems bool) dto.PresupuestoResponse {
	resp := dto.PresupuestoResponse{
		ID:                p.ID,
		Empresa:           p.Empresa,
		FechaCreacion:     p.FechaCreacion,
		Fabricante:        p.Fabricante,
		Moneda:            p.Moneda,
		Descuento:         p.Descuento,
		Validez:           p.Validez,
		MontoTotal:        p.MontoTotal,
		DiasTranscurridos: p.DiasTranscurridos,
		DiasRestantes:     p.DiasRestantes,
		TipoSeguimiento:   p.TipoSeguimiento,
		Accion:            p.Accion,
		Prioridad:         p.Prioridad,
		Alertas:           p.Alertas,
		Completado:        p.Completado,
		FechaCompletado:   p.FechaCompletado,
		Estado:            p.Estado,
		FechaEstado:       p.FechaEstado,
		Notas:             p.Notas,
		Finalizado:        p.Finalizado,
		FechaFinalizado:   p.FechaFinalizado,
		EsLicitacion:      p.EsLicitacion,
	}
	if p.UsuarioAsignadoID != nil {
		id := p.UsuarioAsignadoID.String()
		resp.UsuarioAsignado = &id
	}
	if resp.Alertas == nil {
		resp.Alertas = []string{}
	}
	if conItems {
		resp.Items = itemsToResponse(p.Items)
	}
	return resp
}

func itemsToResponse(items []model.PresupuestoItem) []dto.PresupuestoItemResponse {
	resp := make([]dto.PresupuestoItemResponse, len(items))
	for i, it := range items {
		resp[i] = dto.PresupuestoItemResponse{
			ID:          it.ID,
			Codigo:      it.Codigo,
			Descripcion: it.Descripcion,
			Precio:      it.Precio,
			Cantidad:    it.Cantidad,
		}
	}
	return resp
}

func contactoToResponse(c *model.Contacto) dto.ContactoResponse {
	return dto.ContactoResponse{
		ID:            c.ID,
		PresupuestoID: c.PresupuestoID,
		Nombre:        c.Nombre,
		Email:         c.Email,
		Telefono:      c.Telefono,
	}
}
