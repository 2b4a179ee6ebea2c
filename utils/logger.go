package utils

import (
	"os"

	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// InitLogger applies LOG_LEVEL and LOG_FORMAT to the shared logger.
func InitLogger() {
	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(config.Config("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if config.Config("LOG_FORMAT") == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}
}
