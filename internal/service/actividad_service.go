package service

import (
	"context"
	"time"

	"github.com/LionelChoque/presupuestos-app/internal/dto"
	"github.com/LionelChoque/presupuestos-app/internal/model"
	"github.com/LionelChoque/presupuestos-app/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type ActividadService interface {
	// Registrar is fire-and-forget: persistence errors are logged, never
	// returned, so a broken audit trail cannot fail a business operation.
	Registrar(ctx context.Context, usuarioID uuid.UUID, tipo, descripcion string, entidadID *string, detalles model.DetalleActividad)
	Listar(ctx context.Context, limit, offset int) ([]dto.ActividadResponse, error)
	ListarPorUsuario(ctx context.Context, usuarioID uuid.UUID, limit, offset int) ([]dto.ActividadResponse, error)
	Estadisticas(ctx context.Context) (*dto.EstadisticasUsuariosResponse, error)
}

type actividadService struct {
	repo        repository.ActividadRepository
	usuarioRepo repository.UsuarioRepository
}

func NewActividadService(repo repository.ActividadRepository, usuarioRepo repository.UsuarioRepository) ActividadService {
	return &actividadService{repo: repo, usuarioRepo: usuarioRepo}
}

func (s *actividadService) Registrar(ctx context.Context, usuarioID uuid.UUID, tipo, descripcion string, entidadID *string, detalles model.DetalleActividad) {
	actividad := &model.ActividadUsuario{
		UsuarioID:   usuarioID,
		Tipo:        tipo,
		Descripcion: descripcion,
		EntidadID:   entidadID,
		Detalles:    datatypes.NewJSONType(detalles),
	}
	if err := s.repo.Create(ctx, actividad); err != nil {
		log.Error().Err(err).
			Str("tipo", tipo).
			Str("usuario_id", usuarioID.String()).
			Msg("no se pudo registrar actividad de usuario")
	}
}

func (s *actividadService) Listar(ctx context.Context, limit, offset int) ([]dto.ActividadResponse, error) {
	actividades, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return actividadesToResponse(actividades), nil
}

func (s *actividadService) ListarPorUsuario(ctx context.Context, usuarioID uuid.UUID, limit, offset int) ([]dto.ActividadResponse, error) {
	actividades, err := s.repo.ListByUsuario(ctx, usuarioID, limit, offset)
	if err != nil {
		return nil, err
	}
	return actividadesToResponse(actividades), nil
}

func (s *actividadService) Estadisticas(ctx context.Context) (*dto.EstadisticasUsuariosResponse, error) {
	total, err := s.usuarioRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	haceUnMes := time.Now().AddDate(0, -1, 0)
	activos, err := s.repo.CountUsuariosActivosDesde(ctx, haceUnMes)
	if err != nil {
		return nil, err
	}

	top, err := s.repo.TopUsuarios(ctx, 10)
	if err != nil {
		return nil, err
	}
	porUsuario := make([]dto.ActividadUsuarioStat, 0, len(top))
	for _, stat := range top {
		username := "Usuario eliminado"
		if u, err := s.usuarioRepo.FindByID(ctx, stat.UsuarioID); err == nil {
			username = u.Username
		}
		porUsuario = append(porUsuario, dto.ActividadUsuarioStat{
			UsuarioID: stat.UsuarioID.String(),
			Username:  username,
			Cantidad:  stat.Cantidad,
		})
	}

	recientes, err := s.Listar(ctx, 10, 0)
	if err != nil {
		return nil, err
	}

	return &dto.EstadisticasUsuariosResponse{
		TotalUsuarios:        total,
		UsuariosActivos:      activos,
		ActividadPorUsuario:  porUsuario,
		ActividadesRecientes: recientes,
	}, nil
}

func actividadesToResponse(actividades []model.ActividadUsuario) []dto.ActividadResponse {
	resp := make([]dto.ActividadResponse, len(actividades))
	for i, a := range actividades {
		username := "Usuario eliminado"
		if a.Usuario != nil {
			username = a.Usuario.Username
		}
		resp[i] = dto.ActividadResponse{
			ID:          a.ID.String(),
			UsuarioID:   a.UsuarioID.String(),
			Username:    username,
			Tipo:        a.Tipo,
			Descripcion: a.Descripcion,
			EntidadID:   a.EntidadID,
			Detalles:    a.Detalles.Data(),
			Fecha:       a.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp
}
