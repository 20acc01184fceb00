// Package logging provides the logging sink shared by the generation
// pipeline. The sink is built once at startup and passed to every
// component that reports progress.
package logging

import (
	"io"

	"github.com/qiniu/x/log"
)

// Logger is the sink components write to.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// Level selects which messages reach the sink.
type Level int

const (
	LevelDebug Level = log.Ldebug
	LevelInfo  Level = log.Linfo
	LevelWarn  Level = log.Lwarn
	LevelError Level = log.Lerror
)

// LevelFor maps the command line verbosity to a level. quiet wins over
// any number of -v.
func LevelFor(quiet bool, verbosity int) Level {
	switch {
	case quiet:
		return LevelError
	case verbosity <= 0:
		return LevelWarn
	case verbosity == 1:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// New returns a Logger writing to w at the given level.
func New(w io.Writer, level Level) Logger {
	l := log.New(w, "gbindgen: ", 0)
	l.SetOutputLevel(int(level))
	return l
}

// Discard drops everything.
var Discard Logger = discard{}

type discard struct{}

func (discard) Debugf(string, ...any) {}
func (discard) Infof(string, ...any)  {}
func (discard) Warnf(string, ...any)  {}
func (discard) Errorf(string, ...any) {}
