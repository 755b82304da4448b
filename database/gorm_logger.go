package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodgram/internal/logging"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger sends gorm's SQL log through the zerolog "gorm" component.
type GormLogger struct {
	level         logger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(level logger.LogLevel) *GormLogger {
	return &GormLogger{level: level, slowThreshold: slowQueryThreshold}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	copied := *l
	copied.level = level
	return &copied
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		log := logging.With("gorm")
		log.Info().Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		log := logging.With("gorm")
		log.Warn().Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		log := logging.With("gorm")
		log.Error().Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace logs failed queries as errors, slow ones as warnings and the rest at debug.
// Record-not-found is an expected outcome and is not logged as an error.
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	log := logging.With("gorm")
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Error().Err(err).Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("Query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		log.Warn().Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("Slow query")
	case l.level >= logger.Info:
		sql, rows := fc()
		log.Debug().Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("Query")
	}
}
