package service

import (
	"context"
	"testing"

	"github.com/LionelChoque/presupuestos-app/internal/dto"
	"github.com/LionelChoque/presupuestos-app/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nuevoPresupuestoService() (PresupuestoService, *stubPresupuestoRepo, *stubActividadService) {
	repo := newStubPresupuestoRepo()
	actividad := &stubActividadService{}
	return NewPresupuestoService(repo, actividad), repo, actividad
}

func usuarioPrueba() *model.Usuario {
	return &model.Usuario{ID: uuid.New(), Username: "lionel", Rol: "usuario", Activo: true}
}

func sembrarPresupuesto(repo *stubPresupuestoRepo) {
	repo.presupuestos["P-001"] = model.Presupuesto{
		ID:         "P-001",
		Empresa:    "Acme SRL",
		Estado:     model.EstadoPendiente,
		Prioridad:  model.PrioridadMedia,
		MontoTotal: decimal.RequireFromString("250.50"),
	}
	repo.items["P-001"] = []model.PresupuestoItem{
		{ID: 1, PresupuestoID: "P-001", Codigo: "AB-100", Descripcion: "Bomba", Precio: decimal.RequireFromString("100.50"), Cantidad: 2},
	}
}

func TestObtenerPresupuestoInexistente(t *testing.T) {
	svc, _, _ := nuevoPresupuestoService()

	_, err := svc.Obtener(context.Background(), "no-existe")
	assert.ErrorIs(t, err, ErrPresupuestoNoEncontrado)
}

func TestObtenerPresupuestoConItems(t *testing.T) {
	svc, repo, _ := nuevoPresupuestoService()
	sembrarPresupuesto(repo)

	resp, err := svc.Obtener(context.Background(), "P-001")
	require.NoError(t, err)
	assert.Equal(t, "Acme SRL", resp.Empresa)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "AB-100", resp.Items[0].Codigo)
	// alertas nil serializa como lista vacía, no como null
	assert.NotNil(t, resp.Alertas)
}

func TestActualizarNotas(t *testing.T) {
	svc, repo, actividad := nuevoPresupuestoService()
	sembrarPresupuesto(repo)

	notas := "llamar el lunes"
	resp, err := svc.Actualizar(context.Background(), "P-001", usuarioPrueba(),
		dto.ActualizarPresupuestoRequest{Notas: &notas})
	require.NoError(t, err)
	assert.Equal(t, notas, resp.Notas)

	require.Len(t, actividad.registros, 1)
	assert.Equal(t, model.ActividadBudgetUpdate, actividad.registros[0])
	assert.Equal(t, []string{"notas"}, actividad.detalles[0].CamposModificados)
}

func TestActualizarCompletadoEstampaFecha(t *testing.T) {
	svc, repo, _ := nuevoPresupuestoService()
	sembrarPresupuesto(repo)
	ctx := context.Background()
	usuario := usuarioPrueba()

	completado := true
	resp, err := svc.Actualizar(ctx, "P-001", usuario,
		dto.ActualizarPresupuestoRequest{Completado: &completado})
	require.NoError(t, err)
	assert.True(t, resp.Completado)
	require.NotNil(t, resp.FechaCompletado)

	// revertir limpia la fecha
	completado = false
	resp, err = svc.Actualizar(ctx, "P-001", usuario,
		dto.ActualizarPresupuestoRequest{Completado: &completado})
	require.NoError(t, err)
	assert.False(t, resp.Completado)
	assert.Nil(t, resp.FechaCompletado)
}

func TestActualizarEstadoDejaHistorial(t *testing.T) {
	svc, repo, _ := nuevoPresupuestoService()
	sembrarPresupuesto(repo)

	estado := "Aprobado"
	resp, err := svc.Actualizar(context.Background(), "P-001", usuarioPrueba(),
		dto.ActualizarPresupuestoRequest{Estado: &estado})
	require.NoError(t, err)
	assert.Equal(t, "Aprobado", resp.Estado)
	require.NotNil(t, resp.FechaEstado)

	p := repo.presupuestos["P-001"]
	require.Len(t, p.HistorialEtapas, 1)
	assert.Equal(t, "Aprobado", p.HistorialEtapas[0].Valor)
	assert.Equal(t, "lionel", p.HistorialEtapas[0].Usuario)
	// toda actualización deja además una entrada en el historial de acciones
	require.Len(t, p.HistorialAcciones, 1)
}

func TestActualizarSinCambiosNoAudita(t *testing.T) {
	svc, repo, actividad := nuevoPresupuestoService()
	sembrarPresupuesto(repo)

	// mismo estado que el actual: no cuenta como cambio
	estado := model.EstadoPendiente
	_, err := svc.Actualizar(context.Background(), "P-001", usuarioPrueba(),
		dto.ActualizarPresupuestoRequest{Estado: &estado})
	require.NoError(t, err)

	assert.Empty(t, actividad.registros)
	assert.Empty(t, repo.presupuestos["P-001"].HistorialAcciones)
}

func TestActualizarUsuarioAsignadoInvalido(t *testing.T) {
	svc, repo, _ := nuevoPresupuestoService()
	sembrarPresupuesto(repo)

	malo := "no-es-un-uuid"
	_, err := svc.Actualizar(context.Background(), "P-001", usuarioPrueba(),
		dto.ActualizarPresupuestoRequest{UsuarioAsignado: &malo})
	assert.EqualError(t, err, "usuario_asignado invalido")
}

func TestGuardarContactoCreaYActualiza(t *testing.T) {
	svc, _, actividad := nuevoPresupuestoService()
	ctx := context.Background()
	usuario := usuarioPrueba()

	email := "juan@acme.com"
	resp, creado, err := svc.GuardarContacto(ctx, usuario, dto.GuardarContactoRequest{
		PresupuestoID: "P-001",
		Nombre:        "Juan Pérez",
		Email:         &email,
	})
	require.NoError(t, err)
	assert.True(t, creado)
	assert.Equal(t, "Juan Pérez", resp.Nombre)

	// segunda llamada sobre el mismo presupuesto: upsert
	resp, creado, err = svc.GuardarContacto(ctx, usuario, dto.GuardarContactoRequest{
		PresupuestoID: "P-001",
		Nombre:        "Juana Pérez",
	})
	require.NoError(t, err)
	assert.False(t, creado)
	assert.Equal(t, "Juana Pérez", resp.Nombre)

	require.Equal(t, []string{model.ActividadContactCreate, model.ActividadContactUpdate}, actividad.registros)
	require.NotNil(t, actividad.detalles[0].Contacto)
	assert.Equal(t, "Juan Pérez", actividad.detalles[0].Contacto.Nombre)
}
