package main

import (
	"github.com/urfave/cli/v2"

	wfs "github.com/de-bkg/wfs-ft-validator"
)

const EnvVarPrefix = "WFS_VALIDATOR"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	Count = &cli.IntFlag{
		Name:    "count",
		Value:   wfs.DefaultFeatureCount,
		EnvVars: prefixEnvVars("COUNT"),
		Usage:   "Number of features to request and validate per feature type",
	}
	ConfigFile = &cli.StringFlag{
		Name:    "config",
		EnvVars: prefixEnvVars("CONFIG"),
		Usage:   "Path to a TOML config file. Flags override its values.",
	}
	Workers = &cli.IntFlag{
		Name:    "workers",
		Value:   1,
		EnvVars: prefixEnvVars("WORKERS"),
		Usage:   "Number of feature types validated at a time",
	}
	RateLimit = &cli.Float64Flag{
		Name:    "rate-limit",
		EnvVars: prefixEnvVars("RATE_LIMIT"),
		Usage:   "Maximum requests per second sent to the service (0 = unlimited)",
	}
	Timeout = &cli.DurationFlag{
		Name:    "timeout",
		EnvVars: prefixEnvVars("TIMEOUT"),
		Usage:   "Timeout of a single HTTP request (e.g. '30s'). 0 disables it.",
	}
	UserAgent = &cli.StringFlag{
		Name:    "user-agent",
		Value:   "wfs-ft-validator",
		EnvVars: prefixEnvVars("USER_AGENT"),
		Usage:   "User-Agent header sent with every request",
	}
	WFSSchemaLocation = &cli.StringFlag{
		Name:    "wfs-schema-location",
		Value:   wfs.DefaultWFSSchemaLocation,
		EnvVars: prefixEnvVars("WFS_SCHEMA_LOCATION"),
		Usage:   "schemaLocation of the WFS 2.0 import added to the combined schema",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log.level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Lowest log level to output: debug, info, warn, error",
	}
	LogFormat = &cli.StringFlag{
		Name:    "log.format",
		Value:   "text",
		EnvVars: prefixEnvVars("LOG_FORMAT"),
		Usage:   "Log output format: text, json",
	}
	Summary = &cli.BoolFlag{
		Name:    "summary",
		EnvVars: prefixEnvVars("SUMMARY"),
		Usage:   "Print a results table to stdout after the run",
	}
	MetricsFile = &cli.StringFlag{
		Name:    "metrics-file",
		EnvVars: prefixEnvVars("METRICS_FILE"),
		Usage:   "Write run metrics in Prometheus textfile format to this path",
	}
)

var Flags = []cli.Flag{
	Count,
	ConfigFile,
	Workers,
	RateLimit,
	Timeout,
	UserAgent,
	WFSSchemaLocation,
	LogLevel,
	LogFormat,
	Summary,
	MetricsFile,
}

// configFromContext loads the config file, if any, and applies every flag that
// was set explicitly on top of it
func configFromContext(c *cli.Context) (wfs.Config, error) {
	cfg := wfs.DefaultConfig()
	if path := c.String(ConfigFile.Name); path != "" {
		loaded, err := wfs.LoadConfig(path)
		if err != nil {
			return wfs.Config{}, err
		}
		cfg = loaded
	}

	if c.IsSet(Count.Name) {
		cfg.Count = c.Int(Count.Name)
	}
	if c.IsSet(Workers.Name) {
		cfg.Workers = c.Int(Workers.Name)
	}
	if c.IsSet(RateLimit.Name) {
		cfg.RateLimit = c.Float64(RateLimit.Name)
	}
	if c.IsSet(Timeout.Name) {
		cfg.Timeout = wfs.Duration(c.Duration(Timeout.Name))
	}
	if c.IsSet(UserAgent.Name) {
		cfg.UserAgent = c.String(UserAgent.Name)
	}
	if c.IsSet(WFSSchemaLocation.Name) {
		cfg.WFSSchemaLocation = c.String(WFSSchemaLocation.Name)
	}
	if c.IsSet(LogLevel.Name) {
		cfg.Log.Level = c.String(LogLevel.Name)
	}
	if c.IsSet(LogFormat.Name) {
		cfg.Log.Format = c.String(LogFormat.Name)
	}
	if c.IsSet(Summary.Name) {
		cfg.Summary = c.Bool(Summary.Name)
	}
	if c.IsSet(MetricsFile.Name) {
		cfg.MetricsFile = c.String(MetricsFile.Name)
	}
	return cfg, cfg.Check()
}
