package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slok/tfe-sync/internal/controller"
	"github.com/slok/tfe-sync/internal/desired"
	"github.com/slok/tfe-sync/internal/log"
	internalprometheus "github.com/slok/tfe-sync/internal/metrics/prometheus"
)

type ControllerCommand struct {
	cmd        *kingpin.CmdClause
	rootConfig *RootCommand

	stateFile       string
	syncInterval    time.Duration
	listenAddress   string
	metricsPath     string
	healthCheckPath string
	pprofPath       string
}

// NewControllerCommand returns the controller command.
func NewControllerCommand(rootConfig *RootCommand, app *kingpin.Application) *ControllerCommand {
	cmd := app.Command("controller", "Re-applies a desired state file on an interval.")
	c := &ControllerCommand{
		cmd:        cmd,
		rootConfig: rootConfig,
	}

	cmd.Flag("state-file", "Desired state file (YAML or JSON) with the workspaces to converge.").Short('f').Required().StringVar(&c.stateFile)
	cmd.Flag("sync-interval", "The interval the app will re-apply the desired state.").Default("5m").DurationVar(&c.syncInterval)
	cmd.Flag("listen-address", "The address where the will be listening.").Default(":8080").StringVar(&c.listenAddress)
	cmd.Flag("metrics-path", "The path where Prometheus metrics will be served.").Default("/metrics").StringVar(&c.metricsPath)
	cmd.Flag("health-check-path", "The path where the health check will be served.").Default("/status").StringVar(&c.healthCheckPath)
	cmd.Flag("pprof-path", "The path where the pprof handlers will be served.").Default("/debug/pprof").StringVar(&c.pprofPath)

	return c
}

func (c ControllerCommand) Name() string { return c.cmd.FullCommand() }
func (c ControllerCommand) Run(ctx context.Context) error {
	logger := c.rootConfig.Logger

	state, err := desired.LoadState(c.stateFile)
	if err != nil {
		return fmt.Errorf("could not load desired state: %w", err)
	}

	svc, err := c.rootConfig.NewService(0)
	if err != nil {
		return err
	}

	metricsRecorder := internalprometheus.NewRecorder(prometheus.DefaultRegisterer)

	var g run.Group

	// Controller.
	{
		ctrl, err := controller.NewSyncer(controller.SyncerConfig{
			Logger:   logger,
			Metrics:  metricsRecorder,
			Applier:  svc,
			State:    state,
			Interval: c.syncInterval,
		})
		if err != nil {
			return fmt.Errorf("controller syncer could not be created: %w", err)
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := ctrl.Run(ctx)
				if err != nil {
					return fmt.Errorf("controller syncer had an error: %w", err)
				}

				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	// Serving HTTP server.
	{
		logger := logger.WithValues(log.Kv{
			"addr":         c.listenAddress,
			"metrics":      c.metricsPath,
			"health-check": c.healthCheckPath,
			"pprof":        c.pprofPath,
		})
		mux := http.NewServeMux()

		// Metrics.
		mux.Handle(c.metricsPath, promhttp.Handler())

		// Pprof.
		mux.HandleFunc(c.pprofPath+"/", pprof.Index)
		mux.HandleFunc(c.pprofPath+"/cmdline", pprof.Cmdline)
		mux.HandleFunc(c.pprofPath+"/profile", pprof.Profile)
		mux.HandleFunc(c.pprofPath+"/symbol", pprof.Symbol)
		mux.HandleFunc(c.pprofPath+"/trace", pprof.Trace)

		// Health check.
		mux.Handle(c.healthCheckPath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"status":"ok"}`)) }))

		server := &http.Server{
			Addr:    c.listenAddress,
			Handler: mux,
		}

		g.Add(
			func() error {
				logger.Infof("HTTP server listening for requests")
				return server.ListenAndServe()
			},
			func(_ error) {
				logger.Infof("HTTP server shutdown, draining connections...")

				ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()
				err := server.Shutdown(ctx)
				if err != nil {
					logger.Errorf("Error shutting down server: %s", err)
				}

				logger.Infof("Connections drained")
			},
		)
	}

	// In case we are stopped from the upper level context.
	{
		g.Add(
			func() error {
				<-ctx.Done()
				return nil
			},
			func(_ error) {},
		)
	}

	return g.Run()
}
