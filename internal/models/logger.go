package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gorm_logger "gorm.io/gorm/logger"
)

// dbLogger bridges gorm logging to zerolog. Queries log at debug level,
// failed queries at error level. Not-found results are expected during
// normal operation and are not treated as errors.
type dbLogger struct {
	log zerolog.Logger
}

// LogMode is a no-op, the level is controlled by the zerolog configuration.
func (l *dbLogger) LogMode(gorm_logger.LogLevel) gorm_logger.Interface {
	return l
}

func (l *dbLogger) Info(_ context.Context, format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *dbLogger) Warn(_ context.Context, format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *dbLogger) Error(_ context.Context, format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

func (l *dbLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, rows := fc()

	event := l.log.Debug()
	if err != nil && !errors.Is(err, ErrResourceNotFound) {
		event = l.log.Error().Err(err)
	}

	event.
		Str("sql", sql).
		Int64("rows", rows).
		Dur("duration", time.Since(begin)).
		Msg("database query")
}
