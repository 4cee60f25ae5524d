package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/internal/logging"
	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errInvalid marks a validate run that found errors; main exits 1 without
// repeating them.
var errInvalid = errors.New("form has validation errors")

type app struct {
	definition  string
	logLevel    string
	logFormat   string
	metricsAddr string

	logger *zap.SugaredLogger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "formkit",
		Short: "Drive declarative forms from the terminal",
		Long: `formkit loads a form definition (YAML or JSON) and lets you fill it in
interactively, render it as HTML or text, or validate a set of values.

Without --definition the embedded demo form is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.NewWithWriter(a.logLevel, a.logFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.definition, "definition", "d", "", "Form definition file (default: embedded demo)")
	flags.StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "console", "Log format (console, json)")
	flags.StringVar(&a.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	rootCmd.AddCommand(
		runCmd(a),
		renderCmd(a),
		validateCmd(a),
		versionCmd(),
	)
	return rootCmd
}

func (a *app) loadForm() (model.FormModel, error) {
	if a.definition == "" {
		return definition.Demo()
	}
	return definition.LoadFile(a.definition)
}

// newStore loads the definition and builds a store. The returned stop
// function shuts down the metrics endpoint when one was requested.
func (a *app) newStore() (*form.Store, func(), error) {
	def, err := a.loadForm()
	if err != nil {
		return nil, nil, err
	}

	opts := []form.Option{form.WithLogger(a.logger)}
	stop := func() {}
	if a.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, form.WithMetrics(form.NewMetrics(reg, "formkit")))
		stop = serveMetrics(a.metricsAddr, reg, a.logger)
	}

	store, err := form.New(def, opts...)
	if err != nil {
		stop()
		return nil, nil, err
	}
	return store, stop, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.SugaredLogger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Infow("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("metrics server stopped", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
