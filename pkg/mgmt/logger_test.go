package mgmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

func TestNewZapLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := mgmt.NewZapLogger(zap.New(core))

	logger.Debug("HTTP Request", map[string]interface{}{"url": "https://tenant.example.com/api/v2/jobs/job_1", "method": "GET"})
	logger.Info("job created", nil)
	logger.Warn("retrying", map[string]interface{}{"attempt": 2})
	logger.Error("API Response Error", map[string]interface{}{"status_code": 500})

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "HTTP Request", entries[0].Message)
	require.Len(t, entries[0].Context, 2)
	assert.Equal(t, "method", entries[0].Context[0].Key)
	assert.Equal(t, "url", entries[0].Context[1].Key)

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Empty(t, entries[1].Context)

	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, map[string]interface{}{"attempt": int64(2)}, entries[2].ContextMap())

	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}
