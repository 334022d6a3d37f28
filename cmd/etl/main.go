package main

import (
	"context"
	"os"

	"olistcli/internal/app"
)

func main() {
	cfg, closeLog, err := app.Bootstrap()
	if err != nil {
		app.Fail(err)
		os.Exit(1)
	}

	_, err = app.RunETL(context.Background(), cfg, os.Stdout)
	closeLog()
	app.Fail(err)
	os.Exit(app.ExitCode(err))
}
