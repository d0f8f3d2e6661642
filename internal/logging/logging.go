package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Paintersrp/numdex/internal/constants"
)

// New returns a text logger writing to out. Unknown levels fall back to info.
func New(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(ParseLevel(level))
	return logger
}

func ParseLevel(level string) logrus.Level {
	trimmed := strings.TrimSpace(level)
	if trimmed == "" {
		trimmed = constants.DefaultLogLevel
	}
	parsed, err := logrus.ParseLevel(trimmed)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
