package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables in spans; never in production
	SlowQueryThresh time.Duration
	DBSystem        string
}

type queryStartKey struct{}

// RegisterDBInstrumentation installs otelgorm (when tracing is enabled) and
// a timing callback that marks slow queries on the active span and feeds
// the query duration histogram (when metrics is non-nil).
func RegisterDBInstrumentation(db *gorm.DB, cfg DBTracingConfig, metrics *Metrics, logger *zap.Logger) error {
	if cfg.Enabled {
		if cfg.DBSystem == "" {
			cfg.DBSystem = "postgresql"
		}
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
		if !cfg.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return err
		}
	}
	if !cfg.Enabled && metrics == nil {
		return nil
	}

	t := &queryTimer{cfg: cfg, metrics: metrics}
	cb := db.Callback()
	steps := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("telemetry:start_create", t.start) },
		func() error { return cb.Query().Before("gorm:query").Register("telemetry:start_query", t.start) },
		func() error { return cb.Update().Before("gorm:update").Register("telemetry:start_update", t.start) },
		func() error { return cb.Delete().Before("gorm:delete").Register("telemetry:start_delete", t.start) },
		func() error { return cb.Row().Before("gorm:row").Register("telemetry:start_row", t.start) },
		func() error { return cb.Raw().Before("gorm:raw").Register("telemetry:start_raw", t.start) },
		func() error { return cb.Create().After("gorm:create").Register("telemetry:end_create", t.end("create")) },
		func() error { return cb.Query().After("gorm:query").Register("telemetry:end_query", t.end("query")) },
		func() error { return cb.Update().After("gorm:update").Register("telemetry:end_update", t.end("update")) },
		func() error { return cb.Delete().After("gorm:delete").Register("telemetry:end_delete", t.end("delete")) },
		func() error { return cb.Row().After("gorm:row").Register("telemetry:end_row", t.end("row")) },
		func() error { return cb.Raw().After("gorm:raw").Register("telemetry:end_raw", t.end("raw")) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	logger.Info("Database instrumentation enabled",
		zap.Bool("tracing", cfg.Enabled),
		zap.Bool("metrics", metrics != nil),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

type queryTimer struct {
	cfg     DBTracingConfig
	metrics *Metrics
}

func (t *queryTimer) start(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (t *queryTimer) end(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		started, ok := ctx.Value(queryStartKey{}).(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(started)
		if t.metrics != nil {
			t.metrics.ObserveDBQuery(operation, elapsed)
		}

		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}
		if t.cfg.SlowQueryThresh > 0 && elapsed > t.cfg.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
