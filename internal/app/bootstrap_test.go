package app

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olistcli/internal/errors"
	"olistcli/internal/infrastructure"
)

func TestBootstrap_InvalidEnvironment(t *testing.T) {
	t.Setenv("OLIST_PIPELINE_BASE_DIR", t.TempDir())
	t.Setenv("OLIST_PIPELINE_TOP_CATEGORIES", "fifteen")

	cfg, closeLog, err := Bootstrap()
	defer closeLog()

	require.Error(t, err)
	assert.Nil(t, cfg, "no partial configuration is handed out")
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
	assert.Contains(t, err.Error(), "TOP_CATEGORIES")
	assert.Equal(t, 1, ExitCode(err))
}

func TestBootstrap_InvalidValue(t *testing.T) {
	t.Setenv("OLIST_PIPELINE_DELIVERY_CUTOFF_DAYS", "0")

	_, closeLog, err := Bootstrap()
	defer closeLog()

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}

func TestBootstrap_LogFileUnderBaseDir(t *testing.T) {
	previous := slog.Default()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(func() {
		infrastructure.ResetLoggerForTesting()
		slog.SetDefault(previous)
	})

	base := t.TempDir()
	t.Setenv("OLIST_PIPELINE_BASE_DIR", base)
	t.Setenv("OLIST_LOGGING_OUTPUT", "file")

	cfg, closeLog, err := Bootstrap()
	require.NoError(t, err)
	defer closeLog()

	want := filepath.Join(base, "logs", "olist.log")
	assert.Equal(t, want, cfg.Logging.FilePath)
	assert.Equal(t, base, cfg.Pipeline.BaseDir)
	assert.FileExists(t, want)
}
