package seguimiento

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ahora = time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)

func diasAtras(n int) time.Time { return ahora.AddDate(0, 0, -n) }

func TestClasificarAlertaSinValidez(t *testing.T) {
	for _, elapsed := range []int{0, 1, 5, 30, 100} {
		r := Clasificar(0, diasAtras(elapsed), ahora)
		assert.Contains(t, r.Alertas, "Sin fecha de validez definida", "elapsed=%d", elapsed)
	}
}

func TestClasificarAlertaValidezCorta(t *testing.T) {
	for validez := 1; validez < 14; validez++ {
		r := Clasificar(validez, diasAtras(0), ahora)
		assert.Contains(t, r.Alertas, fmt.Sprintf("Validez corta (%d días)", validez))
	}
	// 14 o más no dispara la alerta
	r := Clasificar(14, diasAtras(0), ahora)
	assert.NotContains(t, r.Alertas, "Validez corta (14 días)")
}

func TestClasificarVencido(t *testing.T) {
	r := Clasificar(10, diasAtras(17), ahora)

	assert.Equal(t, 17, r.DiasTranscurridos)
	assert.Equal(t, -7, r.DiasRestantes)
	assert.Equal(t, EtapaVencido, r.TipoSeguimiento)
	assert.Equal(t, PrioridadAlta, r.Prioridad)
	assert.Contains(t, r.Alertas, "Presupuesto vencido hace 7 días")
}

func TestClasificarPrecedenciaVencido(t *testing.T) {
	// remaining<=0 gana siempre, incluso con pocos días transcurridos
	r := Clasificar(2, diasAtras(2), ahora)
	assert.Equal(t, EtapaVencido, r.TipoSeguimiento)
	assert.Equal(t, PrioridadAlta, r.Prioridad)

	// y también con muchos
	r = Clasificar(30, diasAtras(90), ahora)
	assert.Equal(t, EtapaVencido, r.TipoSeguimiento)
}

func TestClasificarEtapas(t *testing.T) {
	tests := []struct {
		nombre    string
		validez   int
		elapsed   int
		etapa     string
		prioridad string
	}{
		{"confirmación validez amplia", 30, 2, EtapaConfirmacion, PrioridadMedia},
		{"confirmación validez corta", 10, 1, EtapaConfirmacion, PrioridadAlta},
		{"primer seguimiento holgado", 30, 10, EtapaPrimero, PrioridadMedia},
		{"primer seguimiento por vencer", 20, 14, EtapaPrimero, PrioridadAlta},
		{"seguimiento final", 30, 20, EtapaFinal, PrioridadAlta},
	}
	for _, tt := range tests {
		t.Run(tt.nombre, func(t *testing.T) {
			r := Clasificar(tt.validez, diasAtras(tt.elapsed), ahora)
			assert.Equal(t, tt.etapa, r.TipoSeguimiento)
			assert.Equal(t, tt.prioridad, r.Prioridad)
		})
	}
}

func TestClasificarEscenarioValidezDiez(t *testing.T) {
	r := Clasificar(10, diasAtras(5), ahora)

	assert.Equal(t, 5, r.DiasTranscurridos)
	assert.Equal(t, 5, r.DiasRestantes)
	assert.Equal(t, []string{"Validez corta (10 días)"}, r.Alertas)
	assert.Equal(t, EtapaPrimero, r.TipoSeguimiento)
	// quedan 5 días (<=7), así que la prioridad sube a Alta
	assert.Equal(t, PrioridadAlta, r.Prioridad)
}

func TestEsLicitacion(t *testing.T) {
	assert.True(t, EsLicitacion(90, "Ferretería Pampa"), "validez larga")
	assert.True(t, EsLicitacion(10, "Municipalidad de Córdoba"))
	assert.True(t, EsLicitacion(10, "UNIVERSIDAD NACIONAL"))
	assert.True(t, EsLicitacion(0, "Instituto Geográfico"))
	assert.False(t, EsLicitacion(30, "Acme SRL"))
	assert.False(t, EsLicitacion(60, "Acme SRL"), "60 no supera el umbral")
}

func TestDiasEntre(t *testing.T) {
	assert.Equal(t, 0, DiasEntre(ahora, ahora))
	assert.Equal(t, 5, DiasEntre(diasAtras(5), ahora))
	// valor absoluto: el orden de los argumentos no importa
	assert.Equal(t, 5, DiasEntre(ahora, diasAtras(5)))
	// fracciones de día redondean hacia arriba
	assert.Equal(t, 1, DiasEntre(ahora, ahora.Add(2*time.Hour)))
}

func TestFechaDesdePrefijo(t *testing.T) {
	f, err := FechaDesdePrefijo("15/03/2026")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local), f)

	// el export a veces arrastra un sufijo de hora
	f, err = FechaDesdePrefijo("15/03/2026 10:22:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local), f)

	_, err = FechaDesdePrefijo("2026-03-15")
	assert.Error(t, err)
}
