package cli

import (
	"bytes"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olistcli/internal/app"
	"olistcli/internal/errors"
	"olistcli/internal/shared/testutil"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("OLIST_PIPELINE_BASE_DIR", base)
	t.Setenv("OLIST_PIPELINE_DATA_DIR", testutil.WriteOlistDataset(t))
	t.Setenv("OLIST_PIPELINE_CHART_WIDTH_INCHES", "4")
	t.Setenv("OLIST_PIPELINE_CHART_HEIGHT_INCHES", "3")
	return base
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands_Registered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"etl", "analyze", "run"})
}

func TestAnalyzeWithoutETL(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "analyze")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, app.ErrInputMissing))
	assert.Equal(t, 0, app.ExitCode(err))
	assert.Contains(t, out, "Please run the ETL job first.")
}

func TestRun(t *testing.T) {
	base := setupEnv(t)

	out, err := execute(t, "run")
	require.NoError(t, err)

	assert.Contains(t, out, "Load completed successfully!")
	assert.Contains(t, out, "Analysis 5/5")
	assert.FileExists(t, filepath.Join(base, "analysis", "processed_orders.csv"))
	assert.FileExists(t, filepath.Join(base, "analysis", "5_installments_revenue.png"))
}

func TestRejectsArguments(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "etl", "extra")
	assert.Error(t, err)
	assert.Equal(t, 1, app.ExitCode(err))
}

func TestInvalidConfigFailsJob(t *testing.T) {
	base := setupEnv(t)
	t.Setenv("OLIST_PIPELINE_HISTOGRAM_BINS", "thirty")

	_, err := execute(t, "etl")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
	assert.Equal(t, 1, app.ExitCode(err))
	assert.NoDirExists(t, filepath.Join(base, "analysis"))
}
