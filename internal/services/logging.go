package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", service),
	}
}

func (l *ServiceLogger) Logger() *slog.Logger {
	return l.logger
}

// LogOperation writes one line per service operation. Expected failures
// (validation, conflicts, missing records) log below error level.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, actorID, resourceID, resourceType string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case IsUnauthenticated(err), IsForbidden(err):
			level = slog.LevelWarn
			status = "unauthorized"
		case IsNotFound(err):
			level = slog.LevelInfo
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("actor_id", actorID),
		slog.String("resource_id", resourceID),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if validationErrs, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErrs)))
			for i, ve := range validationErrs {
				if i == 3 {
					break
				}
				attrs = append(attrs, slog.Group(fmt.Sprintf("validation_%d", i+1),
					slog.String("field", ve.Field),
					slog.String("message", ve.Message),
				))
			}
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// OperationLogger times one operation and logs its outcome
type OperationLogger struct {
	logger    *ServiceLogger
	ctx       context.Context
	operation string
	actorID   string
	startTime time.Time
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, actorID string) *OperationLogger {
	return &OperationLogger{
		logger:    l,
		ctx:       ctx,
		operation: operation,
		actorID:   actorID,
		startTime: time.Now(),
	}
}

func (ol *OperationLogger) LogResult(resourceID, resourceType string, err error) {
	ol.logger.LogOperation(ol.ctx, ol.operation, ol.actorID, resourceID, resourceType, time.Since(ol.startTime), err)
}
