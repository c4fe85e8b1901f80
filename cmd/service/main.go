package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/2beens/fitassess/internal"
	"github.com/2beens/fitassess/internal/config"
	"github.com/2beens/fitassess/internal/logging"
	"github.com/2beens/fitassess/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	envSentryDSN        = "SENTRY_DSN"
	envRedisPassword    = "FITASSESS_REDIS_PASS"
	envOtelServiceName  = "OTEL_SERVICE_NAME"
	envHoneycombEnabled = "HONEYCOMB_ENABLED"
	envHoneycombAPIKey  = "HONEYCOMB_API_KEY"
)

func main() {
	fmt.Println("starting fitassess ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	if err := run(*env, *configPath); err != nil {
		log.Fatalf("fitassess: %s", err)
	}
}

func run(env, configPath string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sentryDSN := os.Getenv(envSentryDSN)
	logCloser := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled && sentryDSN != "",
		SentryDSN:        sentryDSN,
		SentryServerName: "fitassess-service",
		MaxBackups:       cfg.LogsMaxBackups,
		MaxAgeDays:       cfg.LogsMaxAgeDays,
	})
	defer func() {
		if err := logCloser.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file: %s\n", err)
		}
	}()

	log.Warnf("---->> running in [%s] environment", cfg.Environment)
	if cfg.SentryEnabled && sentryDSN == "" {
		log.Errorf("sentry enabled, but %s env var not set", envSentryDSN)
	}
	log.Debugf("listening on %s:%d, logs path: [%s]", cfg.Host, cfg.Port, cfg.LogsPath)

	versionInfo := resolveVersion()
	log.Tracef("running version: %s", versionInfo)

	redisPassword := os.Getenv(envRedisPassword)
	if redisPassword == "" {
		log.Warnf("redis password not set. use %s", envRedisPassword)
	}

	if os.Getenv(envOtelServiceName) == "" {
		log.Warnf("%s env var not set", envOtelServiceName)
	}
	honeycombEnabled := os.Getenv(envHoneycombEnabled) == "true"
	switch {
	case !honeycombEnabled:
		log.Debugln("honeycomb tracing disabled")
	case os.Getenv(envHoneycombAPIKey) == "":
		log.Warnf("%s env var not set", envHoneycombAPIKey)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := internal.NewServer(ctx, internal.NewServerParams{
		Config:                  cfg,
		VersionInfo:             versionInfo,
		RedisPassword:           redisPassword,
		HoneycombTracingEnabled: honeycombEnabled,
	})
	if err != nil {
		return fmt.Errorf("new server: %w", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	<-ctx.Done()
	log.Warnln("shutdown signal received, shutting down ...")
	server.GracefulShutdown()

	return nil
}

// resolveVersion prefers the VCS revision stamped into the binary and falls
// back to asking git, which assumes the binary runs from the repo root.
func resolveVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value
			}
		}
	}

	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		log.Tracef("failed to get last commit hash: %s", err)
		return "unknown"
	}
	return strings.TrimSpace(pkg.BytesToString(out))
}
