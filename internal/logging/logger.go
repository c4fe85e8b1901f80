package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/2beens/fitassess/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const maxLogFileSizeMB = 50

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
	// zero keeps rotated files indefinitely
	MaxBackups int
	MaxAgeDays int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup configures the package-level logrus logger and returns a closer for
// the log file, if one was opened. Callers close it on shutdown.
func Setup(params LoggerSetupParams) io.Closer {
	logrus.SetFormatter(newFormatter(params.LogFormatJSON))
	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.SentryEnabled {
		setupSentry(params)
	}

	if params.LogFileName == "" {
		logrus.SetOutput(os.Stdout)
		logrus.Debugln("writing logs only to STDOUT")
		return nopCloser{}
	}

	fileLogger := newFileLogger(params)
	if params.LogToStdout {
		logrus.SetOutput(pkg.NewCombinedWriter(os.Stdout, fileLogger))
		logrus.Debugf("writing logs to [%s] and STDOUT", fileLogger.Filename)
	} else {
		logrus.SetOutput(fileLogger)
	}

	return fileLogger
}

func newFormatter(asJSON bool) logrus.Formatter {
	if asJSON {
		return &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg: "message",
			},
		}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.DateTime,
	}
}

func setupSentry(params LoggerSetupParams) {
	err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infoln("sentry hook installed")
}

func newFileLogger(params LoggerSetupParams) *lumberjack.Logger {
	fileName := params.LogFileName
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}
	return &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    maxLogFileSizeMB,
		LocalTime:  false, // UTC in rotated file names
		Compress:   true,
		MaxBackups: params.MaxBackups,
		MaxAge:     params.MaxAgeDays,
	}
}

// GetLevel parses a level name case-insensitively. Unknown names fall back to info.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
