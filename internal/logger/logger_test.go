package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/L1nMay/scanresults/internal/config"
)

func TestInitJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "scanresults.log")
	cfg := &config.LogConfig{Level: "debug", Format: "json", Output: "file", FilePath: path, MaxSize: 1}
	require.NoError(t, Init(cfg))
	t.Cleanup(func() {
		_ = Init(&config.LogConfig{Level: "info", Format: "text", Output: "stderr"})
	})

	WithField("stage", "prefix").Infof("count=%d", 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"count=3"`)
	assert.Contains(t, string(data), `"stage":"prefix"`)
}

func TestInitRejectsBadConfig(t *testing.T) {
	assert.Error(t, Init(nil))
	assert.Error(t, Init(&config.LogConfig{Level: "loud", Format: "text"}))
	assert.Error(t, Init(&config.LogConfig{Level: "info", Format: "xml"}))
	assert.Error(t, Init(&config.LogConfig{Level: "info", Format: "text", Output: "file"}))
}

func TestDebugHiddenAtInfo(t *testing.T) {
	require.NoError(t, Init(&config.LogConfig{Level: "info", Format: "text", Output: "stderr"}))
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	Debugf("hidden")
	Warnf("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
