// Package logging builds the go-kit logger shared by the CLI and the
// decorators it wires together.
package logging

import (
	"fmt"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New returns a logfmt logger writing to w that drops records below lvl
// ("debug", "info", "warn" or "error").
func New(w io.Writer, lvl string) (log.Logger, error) {
	allow, err := allowed(lvl)
	if err != nil {
		return nil, err
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return level.NewFilter(logger, allow), nil
}

// Component tags every record of logger with the component name.
func Component(logger log.Logger, name string) log.Logger {
	return log.With(logger, "component", name)
}

func allowed(lvl string) (level.Option, error) {
	switch lvl {
	case "debug":
		return level.AllowDebug(), nil
	case "info", "":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}
}
