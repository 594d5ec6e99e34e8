package dto

import "github.com/LionelChoque/presupuestos-app/internal/model"

type ActividadResponse struct {
	ID          string                 `json:"id"`
	UsuarioID   string                 `json:"usuario_id"`
	Username    string                 `json:"username"`
	Tipo        string                 `json:"tipo"`
	Descripcion string                 `json:"descripcion"`
	EntidadID   *string                `json:"entidad_id,omitempty"`
	Detalles    model.DetalleActividad `json:"detalles"`
	Fecha       string                 `json:"fecha"`
}

type ActividadUsuarioStat struct {
	UsuarioID string `json:"usuario_id"`
	Username  string `json:"username"`
	Cantidad  int64  `json:"cantidad"`
}

type EstadisticasUsuariosResponse struct {
	TotalUsuarios        int64                  `json:"total_usuarios"`
	UsuariosActivos      int64                  `json:"usuarios_activos"`
	ActividadPorUsuario  []ActividadUsuarioStat `json:"actividad_por_usuario"`
	ActividadesRecientes []ActividadResponse    `json:"actividades_recientes"`
}
