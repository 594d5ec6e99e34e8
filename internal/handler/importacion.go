package handler

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/LionelChoque/presupuestos-app/internal/apierror"
	"github.com/LionelChoque/presupuestos-app/internal/dto"
	"github.com/LionelChoque/presupuestos-app/internal/model"
	"github.com/LionelChoque/presupuestos-app/internal/service"

	"github.com/gin-gonic/gin"
)

type ImportacionHandler struct {
	svc         service.ImportacionService
	actividad   service.ActividadService
	demoCSVPath string
}

func NewImportacionHandler(svc service.ImportacionService, actividad service.ActividadService, demoCSVPath string) *ImportacionHandler {
	return &ImportacionHandler{svc: svc, actividad: actividad, demoCSVPath: demoCSVPath}
}

// Importar godoc
// @Summary Importa presupuestos desde CSV
// @Tags importacion
// @Accept json
// @Produce json
// @Param body body dto.ImportarCSVRequest true "CSV y opciones"
// @Success 200 {object} dto.ResultadoImportacion
// @Failure 400 {object} apierror.APIError
// @Router /v1/import [post]
func (h *ImportacionHandler) Importar(c *gin.Context) {
	var req dto.ImportarCSVRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resultado, err := h.svc.Importar(c.Request.Context(), req.CSVData, req.Opciones, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo importar el CSV: "+err.Error()))
		return
	}

	h.svc.RegistrarImportacion(c.Request.Context(), "manual_import.csv", resultado)
	h.auditar(c, model.ActividadImportCSV, "manual_csv", req.Opciones, resultado)

	c.JSON(http.StatusOK, resultado)
}

// ImportarDemo re-runs the import against the bundled demo CSV.
func (h *ImportacionHandler) ImportarDemo(c *gin.Context) {
	var req dto.ImportarDemoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	data, err := os.ReadFile(h.demoCSVPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo leer el CSV de demostración"))
		return
	}

	resultado, err := h.svc.Importar(c.Request.Context(), string(data), req.Opciones, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo importar el CSV: "+err.Error()))
		return
	}

	h.svc.RegistrarImportacion(c.Request.Context(), "PRESUPUESTOS_CON_ITEMS.csv", resultado)
	h.auditar(c, model.ActividadImportDemo, "demo_csv", req.Opciones, resultado)

	c.JSON(http.StatusOK, resultado)
}

func (h *ImportacionHandler) ListarRegistros(c *gin.Context) {
	resp, err := h.svc.ListarRegistros(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener registros de importación"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ImportacionHandler) auditar(c *gin.Context, tipo, entidad string, opts dto.OpcionesImportacion, res *dto.ResultadoImportacion) {
	actor := usuarioActual(c)
	if actor == nil {
		return
	}
	h.actividad.Registrar(c.Request.Context(), actor.ID, tipo,
		fmt.Sprintf("Usuario %s importó CSV con %d nuevos, %d actualizados, %d eliminados",
			actor.Username, res.Agregados, res.Actualizados, res.Eliminados),
		&entidad,
		model.DetalleActividad{Importacion: &model.DetalleImportacion{
			CompararConAnterior: opts.CompararConAnterior,
			FinalizarAusentes:   opts.FinalizarAusentes,
			RegistrosTotales:    res.Total,
		}})
}
