package handler

import (
	"net/http"

	"github.com/LionelChoque/presupuestos-app/internal/apierror"
	"github.com/LionelChoque/presupuestos-app/internal/dto"
	"github.com/LionelChoque/presupuestos-app/internal/model"
	"github.com/LionelChoque/presupuestos-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user behind the current token.
func (h *AuthHandler) Me(c *gin.Context) {
	actor := usuarioActual(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("No autenticado"))
		return
	}
	resp, err := h.svc.ObtenerUsuario(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Usuarios Handler ─────────────────────────────────────────────────────────

type UsuariosHandler struct {
	svc       service.AuthService
	actividad service.ActividadService
}

func NewUsuariosHandler(svc service.AuthService, actividad service.ActividadService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc, actividad: actividad}
}

func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	var creadorID *uuid.UUID
	if actor := usuarioActual(c); actor != nil {
		creadorID = &actor.ID
	}
	resp, err := h.svc.CrearUsuario(c.Request.Context(), creadorID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UsuariosHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), incluirInactivos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar usuarios"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar permits self-edits for any user and arbitrary edits for admins.
func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id invalido"))
		return
	}
	actor := usuarioActual(c)
	esAdmin := actor != nil && actor.Rol == "admin"
	if !esAdmin && (actor == nil || actor.ID != id) {
		c.JSON(http.StatusForbidden, apierror.New("No autorizado para editar este usuario"))
		return
	}

	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarUsuario(c.Request.Context(), id, esAdmin, req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}

	entidad := id.String()
	h.actividad.Registrar(c.Request.Context(), actor.ID, model.ActividadUsuarioEditar,
		"Usuario "+actor.Username+" actualizó los datos de usuario: "+resp.Username, &entidad,
		model.DetalleActividad{})
	c.JSON(http.StatusOK, resp)
}

// Desactivar soft-deletes a user account. Admins cannot deactivate themselves.
func (h *UsuariosHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id invalido"))
		return
	}
	actor := usuarioActual(c)
	if actor != nil && actor.ID == id {
		c.JSON(http.StatusBadRequest, apierror.New("No puede eliminar su propia cuenta"))
		return
	}
	resp, err := h.svc.DesactivarUsuario(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	if actor != nil {
		entidad := id.String()
		h.actividad.Registrar(c.Request.Context(), actor.ID, model.ActividadUsuarioBorrar,
			"Usuario "+actor.Username+" desactivó la cuenta de usuario: "+resp.Username, &entidad,
			model.DetalleActividad{})
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuario desactivado correctamente"})
}

func (h *UsuariosHandler) Reactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id invalido"))
		return
	}
	if err := h.svc.ReactivarUsuario(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al reactivar usuario"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuario reactivado correctamente"})
}
