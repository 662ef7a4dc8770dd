package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// L is the shared service logger, configured by Init.
var L = logrus.New()

// Init sets up JSON logging with the level taken from LOG_LEVEL.
func Init(serviceName string) {
	L.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	L.SetOutput(os.Stdout)

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		L.SetLevel(logrus.DebugLevel)
	case "warn":
		L.SetLevel(logrus.WarnLevel)
	case "error":
		L.SetLevel(logrus.ErrorLevel)
	default:
		L.SetLevel(logrus.InfoLevel)
	}

	L.AddHook(&serviceHook{name: serviceName})
}

// serviceHook stamps every entry with the service name.
type serviceHook struct {
	name string
}

func (h *serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *serviceHook) Fire(e *logrus.Entry) error {
	e.Data["service"] = h.name
	return nil
}
