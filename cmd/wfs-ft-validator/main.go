package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	wfs "github.com/de-bkg/wfs-ft-validator"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
)

const (
	exitErrors = 2
	exitUsage  = 1
)

func main() {
	app := newApp(func() (wfs.Compiler, error) {
		return wfs.NewLibxmlCompiler()
	})
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			cli.HandleExitCoder(cli.Exit(err.Error(), exitUsage))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		os.Exit(exitUsage)
	}
}

// newApp builds the command. newCompiler is called once per run, after the
// arguments have been checked.
func newApp(newCompiler func() (wfs.Compiler, error)) *cli.App {
	app := cli.NewApp()
	app.Name = "wfs-ft-validator"
	app.Version = fmt.Sprintf("%s-%s", Version, GitCommit)
	app.Usage = "Validate the feature types of a WFS 2.0 service"
	app.Description = "Requests a sample of every feature type a WFS offers, validates it against " +
		"the service's DescribeFeatureType schema and checks that in-service links resolve. " +
		"Exits 0 when no errors were found, 2 otherwise."
	app.ArgsUsage = "URL"
	app.HideHelpCommand = true
	app.Flags = Flags
	app.OnUsageError = func(c *cli.Context, err error, _ bool) error {
		return cli.Exit(fmt.Sprintf("Error parsing arguments: %v", err), exitUsage)
	}
	app.Action = func(c *cli.Context) error {
		return run(c, newCompiler)
	}
	return app
}

func usageError(c *cli.Context, err error) error {
	_ = cli.ShowAppHelp(c)
	return cli.Exit(fmt.Sprintf("Error parsing arguments: %v", err), exitUsage)
}

func run(c *cli.Context, newCompiler func() (wfs.Compiler, error)) error {
	if c.NArg() != 1 {
		return usageError(c, errors.New("expected exactly one WFS URL"))
	}
	endpoint, err := wfs.ParseEndpoint(c.Args().First())
	if err != nil {
		return usageError(c, err)
	}
	cfg, err := configFromContext(c)
	if err != nil {
		return usageError(c, err)
	}
	logger, err := newLogger(c.App.ErrWriter, cfg.Log)
	if err != nil {
		return usageError(c, err)
	}

	compiler, err := newCompiler()
	if err != nil {
		logger.Error("failed to set up schema compiler", "error", err)
		return cli.Exit("", exitErrors)
	}
	if _, ok := compiler.(*wfs.LibxmlCompiler); ok {
		defer wfs.CloseLibxml()
	}

	metrics := wfs.NewMetrics()
	transport := wfs.NewHTTPTransport(wfs.TransportOptions{
		Timeout:   time.Duration(cfg.Timeout),
		RateLimit: cfg.RateLimit,
		UserAgent: cfg.UserAgent,
		Logger:    logger,
		Metrics:   metrics,
	})
	schemas := wfs.NewSchemaCache(&wfs.SchemaBuilder{
		Fetcher:        transport,
		Compiler:       compiler,
		ImportLocation: cfg.WFSSchemaLocation,
	})
	defer schemas.Close()

	runner := &wfs.Runner{
		Fetcher:   transport,
		Schemas:   schemas,
		Hrefs:     &wfs.HrefChecker{Fetcher: transport, Logger: logger},
		Logger:    logger,
		Metrics:   metrics,
		Count:     cfg.Count,
		Workers:   cfg.Workers,
		Formatter: &wfs.ViolationFormatter{ContextLines: 2},
	}
	summary := runner.Run(c.Context, endpoint)

	if cfg.Summary {
		wfs.WriteSummary(c.App.Writer, summary)
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("failed to write metrics", "path", cfg.MetricsFile, "error", err)
		}
	}

	if summary.Failed() {
		logger.Error("validation failed", "errors", summary.Errors())
		return cli.Exit("", summary.ExitCode())
	}
	logger.Info("validation passed")
	return nil
}
