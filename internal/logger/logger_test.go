package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Brownie44l1/modelclassify/internal/config"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "test", "development"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewLogger(&config.Config{Environment: env})
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestProductionSkipsDebug(t *testing.T) {
	l := MustNewLogger(&config.Config{Environment: "production"})
	assert.Nil(t, l.Check(zapcore.DebugLevel, "debug"))
}
