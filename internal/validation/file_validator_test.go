package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olistcli/internal/errors"
)

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	tests := []struct {
		name            string
		setupFunc       func(t *testing.T) string
		requiredPattern string
		wantErr         bool
		wantType        errors.ErrorType
	}{
		{
			name: "valid directory with files",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.csv"), []byte("a\n"), 0644))
				return dir
			},
			requiredPattern: "*.csv",
		},
		{
			name:            "valid directory without files",
			setupFunc:       func(t *testing.T) string { return t.TempDir() },
			requiredPattern: "*.csv",
		},
		{
			name:      "non-existent directory",
			setupFunc: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			wantErr:   true,
			wantType:  errors.ErrTypeNotFound,
		},
		{
			name: "path is file not directory",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "test.txt")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
			wantErr:  true,
			wantType: errors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFileValidator(nil)
			err := v.ValidateInputDirectory(tt.setupFunc(t), tt.requiredPattern)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.wantType))
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, v.ValidateOutputDirectory(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe must be removed")
}

func TestFileValidator_ValidateCSVFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "processed.csv")
	txtPath := filepath.Join(dir, "processed.txt")
	require.NoError(t, os.WriteFile(csvPath, []byte("a,b\n"), 0644))
	require.NoError(t, os.WriteFile(txtPath, []byte("a,b\n"), 0644))

	v := NewFileValidator(nil)

	assert.NoError(t, v.ValidateCSVFile(csvPath))

	err := v.ValidateCSVFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
	assert.True(t, os.IsNotExist(unwrapAll(err)))

	err = v.ValidateCSVFile(txtPath)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))

	err = v.ValidateCSVFile(dir)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}

func unwrapAll(err error) error {
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok || u.Unwrap() == nil {
			return err
		}
		err = u.Unwrap()
	}
}
