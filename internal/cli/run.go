package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/nmxmxh/contractchain/internal/config"
	"github.com/nmxmxh/contractchain/internal/core"
	"github.com/nmxmxh/contractchain/internal/metrics"
	"github.com/nmxmxh/contractchain/wasm"
)

// Fixed inputs of the sample run.
const (
	DataPayload       = "new data"
	ProgramIdentifier = "hello"
)

func run(ctx context.Context, out io.Writer, cfg config.Config, fs afero.Fs, log *logrus.Logger) error {
	recorder := metrics.NewRecorder()

	loader := wasm.NewLoader(wasm.NewWasmerRuntime(),
		wasm.WithFs(fs),
		wasm.WithDir(cfg.ModuleDir),
		wasm.WithLogger(log),
	)
	chain := core.NewChain(loader, core.WithLogger(log), core.WithMetrics(recorder))
	defer chain.Close()

	chain.AppendData(DataPayload)
	if err := chain.AppendProgram(ProgramIdentifier); err != nil {
		log.WithError(err).Error("Failed to append program block")
		return err
	}

	if err := core.RenderSnapshot(out, chain); err != nil {
		return err
	}

	fmt.Fprintln(out, "results of operations of programs:")
	for _, index := range []int{1, 2} {
		block, err := chain.Get(index)
		if err != nil {
			return err
		}
		if err := block.Execute(); err != nil {
			return err
		}
	}

	if cfg.MetricsAddr == "" {
		return nil
	}
	return serveMetrics(ctx, cfg.MetricsAddr, recorder, log)
}

// serveMetrics keeps the process alive with /metrics exposed until
// interrupted.
func serveMetrics(ctx context.Context, addr string, recorder *metrics.Recorder, log *logrus.Logger) error {
	server, err := metrics.Serve(addr, recorder, log)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info("Shutting down metrics server")
	return server.Close()
}
