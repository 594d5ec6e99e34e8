package service

import (
	"context"
	"testing"
	"time"

	"github.com/LionelChoque/presupuestos-app/internal/model"
	"github.com/LionelChoque/presupuestos-app/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type stubActividadRepo struct {
	actividades []model.ActividadUsuario
	err         error
}

var _ repository.ActividadRepository = (*stubActividadRepo)(nil)

func (s *stubActividadRepo) Create(ctx context.Context, a *model.ActividadUsuario) error {
	if s.err != nil {
		return s.err
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	s.actividades = append(s.actividades, *a)
	return nil
}

func (s *stubActividadRepo) List(ctx context.Context, limit, offset int) ([]model.ActividadUsuario, error) {
	if offset >= len(s.actividades) {
		return nil, nil
	}
	fin := offset + limit
	if fin > len(s.actividades) {
		fin = len(s.actividades)
	}
	return s.actividades[offset:fin], nil
}

func (s *stubActividadRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID, limit, offset int) ([]model.ActividadUsuario, error) {
	var out []model.ActividadUsuario
	for _, a := range s.actividades {
		if a.UsuarioID == usuarioID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubActividadRepo) CountUsuariosActivosDesde(ctx context.Context, desde time.Time) (int64, error) {
	vistos := make(map[uuid.UUID]bool)
	for _, a := range s.actividades {
		if a.CreatedAt.After(desde) {
			vistos[a.UsuarioID] = true
		}
	}
	return int64(len(vistos)), nil
}

func (s *stubActividadRepo) TopUsuarios(ctx context.Context, limit int) ([]repository.UsuarioActividadStat, error) {
	cuentas := make(map[uuid.UUID]int64)
	for _, a := range s.actividades {
		cuentas[a.UsuarioID]++
	}
	var stats []repository.UsuarioActividadStat
	for id, n := range cuentas {
		stats = append(stats, repository.UsuarioActividadStat{UsuarioID: id, Cantidad: n})
	}
	return stats, nil
}

func TestRegistrarActividad(t *testing.T) {
	repo := &stubActividadRepo{}
	svc := NewActividadService(repo, newStubUsuarioRepo())
	uid := uuid.New()

	entidad := "P-001"
	svc.Registrar(context.Background(), uid, model.ActividadBudgetUpdate,
		"actualizó el presupuesto", &entidad,
		model.DetalleActividad{CamposModificados: []string{"notas"}})

	require.Len(t, repo.actividades, 1)
	a := repo.actividades[0]
	assert.Equal(t, uid, a.UsuarioID)
	assert.Equal(t, model.ActividadBudgetUpdate, a.Tipo)
	assert.Equal(t, []string{"notas"}, a.Detalles.Data().CamposModificados)
}

func TestRegistrarActividadTragaErrores(t *testing.T) {
	repo := &stubActividadRepo{err: assert.AnError}
	svc := NewActividadService(repo, newStubUsuarioRepo())

	// no debe entrar en pánico: la auditoría nunca rompe la operación
	svc.Registrar(context.Background(), uuid.New(), model.ActividadLogin, "login", nil, model.DetalleActividad{})
	assert.Empty(t, repo.actividades)
}

func TestListarActividadesUsuarioEliminado(t *testing.T) {
	repo := &stubActividadRepo{actividades: []model.ActividadUsuario{{
		ID:        uuid.New(),
		UsuarioID: uuid.New(),
		Tipo:      model.ActividadLogin,
		Detalles:  datatypes.NewJSONType(model.DetalleActividad{}),
		Usuario:   nil, // la cuenta ya no existe
	}}}
	svc := NewActividadService(repo, newStubUsuarioRepo())

	resp, err := svc.Listar(context.Background(), 50, 0)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "Usuario eliminado", resp[0].Username)
}

func TestEstadisticas(t *testing.T) {
	usuarioRepo := newStubUsuarioRepo()
	id := crearUsuarioPrueba(t, usuarioRepo, "lionel", "secreta123", "usuario")

	repo := &stubActividadRepo{}
	svc := NewActividadService(repo, usuarioRepo)
	ctx := context.Background()

	svc.Registrar(ctx, id, model.ActividadLogin, "login", nil, model.DetalleActividad{})
	svc.Registrar(ctx, id, model.ActividadBudgetUpdate, "update", nil, model.DetalleActividad{})

	stats, err := svc.Estadisticas(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalUsuarios)
	assert.Equal(t, int64(1), stats.UsuariosActivos)
	require.Len(t, stats.ActividadPorUsuario, 1)
	assert.Equal(t, "lionel", stats.ActividadPorUsuario[0].Username)
	assert.Equal(t, int64(2), stats.ActividadPorUsuario[0].Cantidad)
	assert.Len(t, stats.ActividadesRecientes, 2)
}
