package handler

import (
	"errors"
	"net/http"

	"github.com/LionelChoque/presupuestos-app/internal/apierror"
	"github.com/LionelChoque/presupuestos-app/internal/dto"
	"github.com/LionelChoque/presupuestos-app/internal/service"

	"github.com/gin-gonic/gin"
)

type PresupuestosHandler struct{ svc service.PresupuestoService }

func NewPresupuestosHandler(svc service.PresupuestoService) *PresupuestosHandler {
	return &PresupuestosHandler{svc: svc}
}

// Listar godoc
// @Summary Lista todos los presupuestos
// @Tags presupuestos
// @Produce json
// @Success 200 {array} dto.PresupuestoResponse
// @Router /v1/presupuestos [get]
func (h *PresupuestosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener presupuestos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PresupuestosHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPresupuestoNoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New("Presupuesto no encontrado"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener presupuesto"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PresupuestosHandler) ObtenerItems(c *gin.Context) {
	resp, err := h.svc.ObtenerItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener items"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PresupuestosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarPresupuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := usuarioActual(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("No autenticado"))
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), c.Param("id"), actor, req)
	if err != nil {
		if errors.Is(err, service.ErrPresupuestoNoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New("Presupuesto no encontrado"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Contactos ────────────────────────────────────────────────────────────────

type ContactosHandler struct{ svc service.PresupuestoService }

func NewContactosHandler(svc service.PresupuestoService) *ContactosHandler {
	return &ContactosHandler{svc: svc}
}

func (h *ContactosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarContactos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener contactos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContactosHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.ObtenerContacto(c.Request.Context(), c.Param("budgetId"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Contacto no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Guardar upserts the contact for a budget.
func (h *ContactosHandler) Guardar(c *gin.Context) {
	var req dto.GuardarContactoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := usuarioActual(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("No autenticado"))
		return
	}
	resp, creado, err := h.svc.GuardarContacto(c.Request.Context(), actor, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al guardar contacto"))
		return
	}
	status := http.StatusOK
	if creado {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}
