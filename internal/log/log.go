// Package log provides categorised, structured logging for deadlines.
//
// Output goes to a rolling log file so it never interleaves with command
// output on stdout. Until Init is called every message is discarded.
//
// Usage:
//
//	cleanup, err := log.Init(log.Options{File: "~/.deadlines/deadlines.log", Debug: true})
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//
//	log.Debug(log.CatDB, "Opening database", "path", path)
//	log.ErrorErr(log.CatDB, "Failed to open database", err, "path", path)
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

// Category tags a message with the subsystem that produced it.
type Category string

const (
	CatDB     Category = "db"
	CatConfig Category = "config"
	CatTasks  Category = "tasks"
	CatCLI    Category = "cli"
)

const (
	categoryField = "cat"
	errorField    = "error"
)

// Options configures the log sink.
type Options struct {
	File       string // log file path, empty disables logging
	Debug      bool   // include debug messages
	MaxSizeMB  int    // rotate after this many megabytes
	MaxBackups int    // rotated files to keep
	MaxAgeDays int    // days to keep rotated files
}

var current atomic.Pointer[logrus.Logger]

func init() {
	current.Store(newLogger(io.Discard, false))
}

func newLogger(out io.Writer, debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
		DisableColors:   true,
	})
	if debug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// Init directs logging to a rolling file described by opts and returns a
// cleanup function that closes it. An empty File keeps logging disabled.
func Init(opts Options) (func() error, error) {
	if opts.File == "" {
		current.Store(newLogger(io.Discard, opts.Debug))
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	w := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		LocalTime:  true,
	}
	current.Store(newLogger(w, opts.Debug))

	return func() error {
		current.Store(newLogger(io.Discard, false))
		return w.Close()
	}, nil
}

// SetOutput replaces the sink with w. Intended for tests.
func SetOutput(w io.Writer, debug bool) {
	current.Store(newLogger(w, debug))
}

// IsDebug reports whether debug messages are being recorded.
func IsDebug() bool {
	return current.Load().IsLevelEnabled(logrus.DebugLevel)
}

func entry(cat Category, kv []any) *logrus.Entry {
	fields := make(logrus.Fields, len(kv)/2+1)
	fields[categoryField] = string(cat)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if i+1 < len(kv) {
			fields[key] = kv[i+1]
		} else {
			fields[key] = "!MISSING"
		}
	}
	return current.Load().WithFields(fields)
}

func Debug(cat Category, msg string, kv ...any) {
	entry(cat, kv).Debug(msg)
}

func Info(cat Category, msg string, kv ...any) {
	entry(cat, kv).Info(msg)
}

func Warn(cat Category, msg string, kv ...any) {
	entry(cat, kv).Warn(msg)
}

func Error(cat Category, msg string, kv ...any) {
	entry(cat, kv).Error(msg)
}

// ErrorErr logs msg at error level with err attached.
func ErrorErr(cat Category, msg string, err error, kv ...any) {
	entry(cat, kv).WithField(errorField, err).Error(msg)
}
