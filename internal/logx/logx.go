// Package logx builds the process logger.
package logx

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout. An unparsable level falls back to
// info; format "json" selects the JSON formatter, anything else text.
func New(level, format, service string) *logrus.Logger {
	return NewTo(os.Stdout, level, format, service)
}

func NewTo(out io.Writer, level, format, service string) *logrus.Logger {
	log := logrus.New()
	log.Out = out
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.Level = lvl
	if format == "json" {
		log.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
		}
	} else {
		log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}
	if service != "" {
		log.AddHook(serviceHook(service))
	}
	return log
}

type serviceHook string

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = string(h)
	}
	return nil
}
