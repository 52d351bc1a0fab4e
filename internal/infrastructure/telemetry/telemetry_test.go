package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer("test"))
	assert.NotNil(t, p.Meter("test"))
	assert.Nil(t, p.Logs())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProviders_NilSafe(t *testing.T) {
	var p *Providers
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer("x"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), sampler(0.25).Description())
}

func TestLoggerProvider_NilIsPassthrough(t *testing.T) {
	var lp *LoggerProvider
	core, recorded := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	assert.Same(t, l, lp.Tee(l, zapcore.InfoLevel))
	assert.False(t, lp.Core(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))

	l.Info("still logged")
	assert.Equal(t, 1, recorded.Len())
}

func TestLevelCore(t *testing.T) {
	inner, recorded := observer.New(zapcore.DebugLevel)
	c := &levelCore{Core: inner, min: zapcore.WarnLevel}
	l := zap.New(c).With(zap.String("k", "v"))

	l.Info("dropped")
	l.Warn("kept")

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "v", entries[0].ContextMap()["k"])
}

func TestStartProfiler_Disabled(t *testing.T) {
	p, err := StartProfiler(ProfilerConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Stop())
}

func TestStartProfiler_RequiresAddress(t *testing.T) {
	_, err := StartProfiler(ProfilerConfig{Enabled: true}, zap.NewNop())
	require.Error(t, err)
}
