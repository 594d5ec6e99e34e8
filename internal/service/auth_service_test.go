package service

import (
	"context"
	"testing"

	"github.com/LionelChoque/presupuestos-app/internal/config"
	"github.com/LionelChoque/presupuestos-app/internal/dto"
	"github.com/LionelChoque/presupuestos-app/internal/model"
	"github.com/LionelChoque/presupuestos-app/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ─── Stubs en memoria ────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]model.Usuario
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]model.Usuario)}
}

func (s *stubUsuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.usuarios[u.ID] = *u
	return nil
}

func (s *stubUsuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	for _, u := range s.usuarios {
		if !u.Activo {
			continue
		}
		if u.Username == username || (u.Email != nil && *u.Email == username) {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := s.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (s *stubUsuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range s.usuarios {
		if u.Activo {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUsuarioRepo) ListAll(ctx context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range s.usuarios {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubUsuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	s.usuarios[u.ID] = *u
	return nil
}

func (s *stubUsuarioRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	u, ok := s.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = false
	s.usuarios[id] = u
	return nil
}

func (s *stubUsuarioRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	u, ok := s.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = true
	s.usuarios[id] = u
	return nil
}

func (s *stubUsuarioRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.usuarios)), nil
}

// stubActividadService captura los registros de auditoría emitidos.
type stubActividadService struct {
	registros []string // tipos registrados, en orden
	detalles  []model.DetalleActividad
}

var _ ActividadService = (*stubActividadService)(nil)

func (s *stubActividadService) Registrar(ctx context.Context, usuarioID uuid.UUID, tipo, descripcion string, entidadID *string, detalles model.DetalleActividad) {
	s.registros = append(s.registros, tipo)
	s.detalles = append(s.detalles, detalles)
}

func (s *stubActividadService) Listar(ctx context.Context, limit, offset int) ([]dto.ActividadResponse, error) {
	return nil, nil
}

func (s *stubActividadService) ListarPorUsuario(ctx context.Context, usuarioID uuid.UUID, limit, offset int) ([]dto.ActividadResponse, error) {
	return nil, nil
}

func (s *stubActividadService) Estadisticas(ctx context.Context) (*dto.EstadisticasUsuariosResponse, error) {
	return nil, nil
}

// ─── Fixtures ────────────────────────────────────────────────────────────────

func cfgPruebas() *config.Config {
	return &config.Config{
		JWTSecret:          "secreto-de-pruebas",
		JWTExpirationHours: 1,
		JWTRefreshHours:    2,
	}
}

func nuevoAuthService() (AuthService, *stubUsuarioRepo, *stubActividadService) {
	repo := newStubUsuarioRepo()
	actividad := &stubActividadService{}
	return NewAuthService(repo, actividad, cfgPruebas()), repo, actividad
}

func crearUsuarioPrueba(t *testing.T, repo *stubUsuarioRepo, username, password, rol string) uuid.UUID {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		Username:     username,
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u.ID
}

// ─── Tests ───────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	svc, repo, actividad := nuevoAuthService()
	id := crearUsuarioPrueba(t, repo, "lionel", "secreta123", "admin")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "lionel", Password: "secreta123"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "lionel", resp.User.Username)

	// el login actualiza el último acceso y deja rastro en la auditoría
	u, _ := repo.FindByID(context.Background(), id)
	assert.NotNil(t, u.UltimoAcceso)
	assert.Equal(t, []string{model.ActividadLogin}, actividad.registros)
}

func TestLoginCredencialesIncorrectas(t *testing.T) {
	svc, repo, _ := nuevoAuthService()
	crearUsuarioPrueba(t, repo, "lionel", "secreta123", "usuario")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "lionel", Password: "otra"})
	assert.EqualError(t, err, "credenciales incorrectas")

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "secreta123"})
	assert.EqualError(t, err, "credenciales incorrectas")
}

func TestLoginUsuarioInactivo(t *testing.T) {
	svc, repo, _ := nuevoAuthService()
	id := crearUsuarioPrueba(t, repo, "lionel", "secreta123", "usuario")
	require.NoError(t, repo.SoftDelete(context.Background(), id))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "lionel", Password: "secreta123"})
	assert.EqualError(t, err, "credenciales incorrectas")
}

func TestRefresh(t *testing.T) {
	svc, repo, _ := nuevoAuthService()
	crearUsuarioPrueba(t, repo, "lionel", "secreta123", "usuario")

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "lionel", Password: "secreta123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "lionel", resp.User.Username)
}

func TestRefreshTokenInvalido(t *testing.T) {
	svc, _, _ := nuevoAuthService()

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.EqualError(t, err, "refresh token invalido o expirado")
}

func TestCrearUsuarioPrimeroEsAdmin(t *testing.T) {
	svc, _, _ := nuevoAuthService()

	resp, err := svc.CrearUsuario(context.Background(), nil, dto.CrearUsuarioRequest{
		Username: "primero",
		Password: "secreta123",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Rol, "el primer usuario del sistema es admin")
	assert.True(t, resp.Activo)

	resp, err = svc.CrearUsuario(context.Background(), nil, dto.CrearUsuarioRequest{
		Username: "segundo",
		Password: "secreta123",
	})
	require.NoError(t, err)
	assert.Equal(t, "usuario", resp.Rol)
}

func TestCrearUsuarioDuplicado(t *testing.T) {
	svc, repo, _ := nuevoAuthService()
	crearUsuarioPrueba(t, repo, "lionel", "secreta123", "usuario")

	_, err := svc.CrearUsuario(context.Background(), nil, dto.CrearUsuarioRequest{
		Username: "lionel",
		Password: "secreta123",
	})
	assert.EqualError(t, err, "el nombre de usuario ya existe")
}

func TestCrearUsuarioAuditaAlCreador(t *testing.T) {
	svc, repo, actividad := nuevoAuthService()
	adminID := crearUsuarioPrueba(t, repo, "admin", "secreta123", "admin")

	_, err := svc.CrearUsuario(context.Background(), &adminID, dto.CrearUsuarioRequest{
		Username: "nuevo",
		Password: "secreta123",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{model.ActividadUsuarioCrear}, actividad.registros)
}

func TestActualizarUsuarioRolSoloAdmin(t *testing.T) {
	svc, repo, _ := nuevoAuthService()
	id := crearUsuarioPrueba(t, repo, "lionel", "secreta123", "usuario")

	// sin privilegios de admin el rol no cambia
	resp, err := svc.ActualizarUsuario(context.Background(), id, false, dto.ActualizarUsuarioRequest{
		Nombre: "Lionel",
		Rol:    "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lionel", resp.Nombre)
	assert.Equal(t, "usuario", resp.Rol)

	// un admin sí puede promover
	resp, err = svc.ActualizarUsuario(context.Background(), id, true, dto.ActualizarUsuarioRequest{Rol: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Rol)
}

func TestActualizarUsuarioCambiaPassword(t *testing.T) {
	svc, repo, _ := nuevoAuthService()
	id := crearUsuarioPrueba(t, repo, "lionel", "vieja1234", "usuario")

	_, err := svc.ActualizarUsuario(context.Background(), id, false, dto.ActualizarUsuarioRequest{
		Password: "nueva1234",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "lionel", Password: "nueva1234"})
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "lionel", Password: "vieja1234"})
	assert.Error(t, err)
}

func TestDesactivarYReactivarUsuario(t *testing.T) {
	svc, repo, _ := nuevoAuthService()
	id := crearUsuarioPrueba(t, repo, "lionel", "secreta123", "usuario")

	resp, err := svc.DesactivarUsuario(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, resp.Activo)

	activos, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, activos)

	todos, err := svc.ListarUsuarios(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 1)

	require.NoError(t, svc.ReactivarUsuario(context.Background(), id))
	activos, err = svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, activos, 1)
}
