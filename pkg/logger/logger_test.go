package logger_test

import (
	"context"
	"testing"

	"companyscan/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		level       string
		debug       bool
		wantErr     bool
	}{
		{name: "development defaults to debug", environment: logger.DevelopmentEnvironment, debug: true},
		{name: "production defaults to info", environment: logger.ProductionEnvironment},
		{name: "explicit level wins", environment: logger.DevelopmentEnvironment, level: "warn"},
		{name: "production with debug", environment: logger.ProductionEnvironment, level: "debug", debug: true},
		{name: "unknown level", environment: logger.DevelopmentEnvironment, level: "chatty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logger.Setup(tt.environment, tt.level)
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.debug, logger.IsDebug(context.Background()))
		})
	}
}

func TestGetPrefersContextLogger(t *testing.T) {
	require.NoError(t, logger.Setup(logger.DevelopmentEnvironment))

	ctx := context.Background()
	require.NotNil(t, logger.Get(ctx))

	custom := zap.NewExample()
	require.Same(t, custom, logger.Get(logger.WithLogger(ctx, custom)))
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	ctx = logger.WithFields(ctx, zap.String("range", "scottish"), zap.String("company", "SC000101"))
	logger.Info(ctx, "company qualified")
	logger.Debug(ctx, "company age", zap.Int("days", 12))

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "company qualified", entries[0].Message)
	require.Equal(t, "scottish", entries[0].ContextMap()["range"])
	require.Equal(t, "SC000101", entries[1].ContextMap()["company"])
	require.EqualValues(t, 12, entries[1].ContextMap()["days"])
}

func TestLevelHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	logger.Debug(ctx, "hidden")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	require.False(t, logger.IsDebug(ctx))
	require.Equal(t, 3, logs.Len())
	require.Equal(t, zapcore.WarnLevel, logs.FilterMessage("warn").All()[0].Level)
}
