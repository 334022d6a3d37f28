package app

import (
	stderrors "errors"
	"fmt"
	"os"

	"olistcli/internal/config"
	"olistcli/internal/errors"
	"olistcli/internal/infrastructure"
)

// Bootstrap loads the configuration and initializes the global logger. An
// invalid configuration is a CONFIG error; the job must not run on partial
// settings. The returned function closes the log file.
func Bootstrap() (*config.Config, func(), error) {
	noop := func() {}

	cfg, err := config.Load()
	if err != nil {
		return nil, noop, errors.NewConfigError("failed to load configuration", err)
	}

	paths, err := config.GetPaths(cfg.Pipeline)
	if err != nil {
		return nil, noop, errors.NewConfigError("failed to resolve pipeline paths", err)
	}
	cfg.Logging.FilePath = paths.GetLogPath(cfg.Logging.FilePath)

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		return nil, noop, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, func() { _ = infrastructure.CloseLogFile() }, nil
}

// ExitCode maps a job result to the process exit status. A missing processed
// dataset is an expected early exit, not a failure.
func ExitCode(err error) int {
	if err == nil || stderrors.Is(err, ErrInputMissing) {
		return 0
	}
	return 1
}

// Fail reports err on stderr when it is a real failure
func Fail(err error) {
	if ExitCode(err) != 0 {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
