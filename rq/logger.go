package rq

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

var _ asynq.Logger = (*Logger)(nil)

// Logger forwards asynq's internal logs to zerolog.
type Logger struct {
	logger zerolog.Logger
}

func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Print(level zerolog.Level, args ...interface{}) {
	l.logger.WithLevel(level).Msg(fmt.Sprint(args...))
}

func (l *Logger) Debug(args ...interface{}) {
	l.Print(zerolog.DebugLevel, args...)
}

func (l *Logger) Info(args ...interface{}) {
	l.Print(zerolog.InfoLevel, args...)
}

func (l *Logger) Warn(args ...interface{}) {
	l.Print(zerolog.WarnLevel, args...)
}

func (l *Logger) Error(args ...interface{}) {
	l.Print(zerolog.ErrorLevel, args...)
}

// Fatal logs and exits the process, as asynq expects.
func (l *Logger) Fatal(args ...interface{}) {
	l.logger.Fatal().Msg(fmt.Sprint(args...))
}
