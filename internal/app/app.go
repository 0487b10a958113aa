package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/chartsight/internal/analysis"
	"github.com/chartsight/internal/config"
	"github.com/chartsight/internal/metrics"
	"github.com/ollama/ollama/api"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config   *config.Config
	logger   *slog.Logger
	closeLog func() error
	ollama   *api.Client
	invoker  *analysis.Invoker
}

func (app *App) Close() {
	if err := app.closeLog(); err != nil {
		slog.Error("closing log file", "err", err)
	}
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return newApp(cfg)
}

func newApp(cfg *config.Config) (*App, error) {
	logger, closeLog := newLogger(cfg)

	base, err := cfg.OllamaURL()
	if err != nil {
		closeLog()
		return nil, err
	}
	// No client timeout: analyses are bounded by the request context and
	// the optional analysis timeout only.
	client := api.NewClient(base, &http.Client{})

	metrics.Register()
	invoker := analysis.New(client,
		analysis.WithLogger(logger),
		analysis.WithObserver(metrics.Recorder{}),
		analysis.WithTimeout(cfg.AnalysisTimeout),
	)

	return &App{
		config:   cfg,
		logger:   logger,
		closeLog: closeLog,
		ollama:   client,
		invoker:  invoker,
	}, nil
}

// Start serves the UI until ctx is cancelled, then shuts down gracefully.
func (app *App) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              app.config.Addr(),
		Handler:           app.routes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      writeTimeout(app.config.AnalysisTimeout),
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	g.Go(func() error {
		app.logger.Info("starting server",
			"url", "http://"+localURLHost(ln.Addr()),
			"env", app.config.Env,
			"model", analysis.Model,
			"ollama", app.config.OllamaHost,
		)
		if app.config.Share {
			for _, u := range shareURLs(ln.Addr()) {
				app.logger.Info("sharing on network", "url", u)
			}
		}
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	app.logger.Info("stopped server")
	return nil
}

// writeTimeout leaves room for the analysis itself; without an analysis
// timeout the response may take arbitrarily long.
func writeTimeout(analysisTimeout time.Duration) time.Duration {
	if analysisTimeout <= 0 {
		return 0
	}
	return analysisTimeout + 30*time.Second
}

func localURLHost(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || tcp.IP.IsUnspecified() {
		_, port, _ := net.SplitHostPort(addr.String())
		return net.JoinHostPort("localhost", port)
	}
	return addr.String()
}

// shareURLs lists the URLs under which other machines on the network can
// reach the UI.
func shareURLs(addr net.Addr) []string {
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return nil
	}
	ifaddrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}

	var urls []string
	for _, a := range ifaddrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() || ipnet.IP.To4() == nil {
			continue
		}
		urls = append(urls, "http://"+net.JoinHostPort(ipnet.IP.String(), port))
	}
	return urls
}
