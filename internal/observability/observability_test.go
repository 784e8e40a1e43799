package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestRegisterAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterAll(reg)

	UnregisteredDecoderTotal.WithLabelValues("UserCreated", "1").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() == "activity_unregistered_decoder_total" {
			found = true
			require.GreaterOrEqual(t, mf.GetMetric()[0].GetCounter().GetValue(), float64(1))
		}
	}
	require.True(t, found)

	require.Panics(t, func() { RegisterAll(reg) })
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	log, err := NewLogger("loud")
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.InfoLevel))
	require.False(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = NewLogger("debug")
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
