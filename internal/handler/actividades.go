package handler

import (
	"net/http"
	"strconv"

	"github.com/LionelChoque/presupuestos-app/internal/apierror"
	"github.com/LionelChoque/presupuestos-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ActividadesHandler struct{ svc service.ActividadService }

func NewActividadesHandler(svc service.ActividadService) *ActividadesHandler {
	return &ActividadesHandler{svc: svc}
}

func (h *ActividadesHandler) Listar(c *gin.Context) {
	limit, offset := paginacion(c)
	resp, err := h.svc.Listar(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener actividades"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorUsuario lets a user see their own trail; admins can see anyone's.
func (h *ActividadesHandler) ListarPorUsuario(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id invalido"))
		return
	}
	actor := usuarioActual(c)
	if actor == nil || (actor.ID != id && actor.Rol != "admin") {
		c.JSON(http.StatusForbidden, apierror.New("No autorizado para ver actividades de este usuario"))
		return
	}
	limit, offset := paginacion(c)
	resp, err := h.svc.ListarPorUsuario(c.Request.Context(), id, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener actividades del usuario"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ActividadesHandler) Estadisticas(c *gin.Context) {
	resp, err := h.svc.Estadisticas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener estadísticas de usuarios"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func paginacion(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
