package logger

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// Level is a logrus level name such as "debug" or "info".
	Level string
	// Format is "text" or "json".
	Format string
	Output io.Writer
}

// Init configures the standard logrus logger.
func Init(opts Options) error {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", opts.Level)
	}
	logrus.SetLevel(level)

	switch opts.Format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return errors.Errorf("invalid log format %q", opts.Format)
	}

	if opts.Output != nil {
		logrus.SetOutput(opts.Output)
	}
	return nil
}
