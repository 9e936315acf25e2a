package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"kamar-notices/cmd/kni/commands"
	"kamar-notices/lib/serviceutil"
	"kamar-notices/lib/telemetry"
)

func run() error {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()

	telemetry.InitSlog(false)

	tel, err := telemetry.SetupFromEnv(ctx, "kni")
	if os.IsNotExist(err) {
		slog.Debug("no telemetry.json5 found, telemetry disabled")
	} else if err != nil {
		slog.Warn("failed to setup telemetry", "err", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := tel.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	}()

	return commands.ExecuteContext(ctx)
}

func main() {
	err := run()
	if err != nil {
		serviceutil.Fatal("kni failed", err)
	}
}
