package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Logger struct{ entry *logrus.Entry }

type ctxKey struct{}

var base = newBase(os.Stdout)

func newBase(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyMsg:   "message",
			logrus.FieldKeyLevel: "level",
		},
	})
	return l
}

// SetLevel accepts logrus level names; unknown values keep the current level.
func SetLevel(level string) {
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(level)); err == nil {
		base.SetLevel(lvl)
	}
}

// SetOutput redirects every logger, tests use it to capture lines.
func SetOutput(w io.Writer) { base.SetOutput(w) }

func New(service string) *Logger {
	return &Logger{entry: base.WithFields(logrus.Fields{
		"service":  service,
		"hostname": hostname(),
	})}
}

// With returns a child logger carrying extra fields on every line.
func (l *Logger) With(fields map[string]any) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// FromContext attaches the request id stored by ContextWithRequestID, if any.
func (l *Logger) FromContext(ctx context.Context) *Logger {
	if id := RequestID(ctx); id != "" {
		return &Logger{entry: l.entry.WithField("request_id", id)}
	}
	return l
}

func (l *Logger) log(level logrus.Level, action string, fields map[string]any, err error) {
	e := l.entry.WithField("action", action)
	if fields != nil {
		e = e.WithFields(logrus.Fields(fields))
	}
	if err != nil {
		e = e.WithField("error", err.Error())
	}
	e.Log(level, action)
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(logrus.InfoLevel, action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(logrus.DebugLevel, action, fields, nil) }
func (l *Logger) Warn(action string, fields map[string]any)  { l.log(logrus.WarnLevel, action, fields, nil) }
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(logrus.ErrorLevel, action, fields, err)
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func hostname() string { h, _ := os.Hostname(); return h }
