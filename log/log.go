// Package log provides the application logger, a logrus instance with a
// Sentry hook attached outside of the test environment.
package log

import (
	"io"
	"os"

	"github.com/gobuffalo/buffalo"
	"github.com/sirupsen/logrus"

	"github.com/embedsure/embed-api/domain"
)

var Logger = logrus.New()

func init() {
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.JSONFormatter{})

	if domain.Env.GoEnv == domain.EnvTest {
		Logger.SetOutput(io.Discard)
		return
	}

	if domain.Env.SentryDSN != "" {
		if err := initSentry(); err != nil {
			Logger.WithError(err).Error("failed to initialize sentry")
		} else {
			Logger.AddHook(&SentryHook{})
		}
	}
}

// Error logs an error message with the extras accumulated on the request
// context, if any.
func Error(c buffalo.Context, msg string, extras map[string]interface{}) {
	fields := logrus.Fields{}
	for k, v := range extras {
		fields[k] = v
	}
	Logger.WithContext(c).WithFields(fields).Error(msg)
}

func Errorf(format string, args ...interface{}) {
	Logger.Errorf(format, args...)
}

func Warningf(format string, args ...interface{}) {
	Logger.Warningf(format, args...)
}

func Infof(format string, args ...interface{}) {
	Logger.Infof(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	Logger.Fatalf(format, args...)
}
