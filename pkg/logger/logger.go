package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the application-wide logger. It works with defaults before Init so
// library code and tests can log without any setup.
var Log = logrus.New()

// Init configures the global logger from the environment. Call once at
// startup, after the .env file is loaded.
func Init() {
	// 1. Level from LOG_LEVEL, "info" when unset or unparseable.
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Formatter from LOG_FORMAT.
	// "json" for production log collection, text for development.
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	// 3. Everything to stdout; the process supervisor owns routing.
	Log.SetOutput(os.Stdout)
}
