package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the structured logging key for batch run identifiers.
	FieldRunID = "run_id"
	// FieldAlbum is the structured logging key for the album folder being processed.
	FieldAlbum = "album"
	// FieldPreset is the structured logging key for encoder preset labels.
	FieldPreset = "preset"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact states the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey int

const (
	runIDKey contextKey = iota
	albumKey
	presetKey
)

// WithRunID attaches a batch run identifier to ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// WithAlbum attaches the album folder name to ctx.
func WithAlbum(ctx context.Context, album string) context.Context {
	return context.WithValue(ctx, albumKey, album)
}

// WithPreset attaches the encoder preset label to ctx.
func WithPreset(ctx context.Context, preset string) context.Context {
	return context.WithValue(ctx, presetKey, preset)
}

// RunIDFromContext returns the batch run identifier stored in ctx.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// ContextFields extracts standardized slog attributes from ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if album, ok := ctx.Value(albumKey).(string); ok && album != "" {
		fields = append(fields, slog.String(FieldAlbum, album))
	}
	if preset, ok := ctx.Value(presetKey).(string); ok && preset != "" {
		fields = append(fields, slog.String(FieldPreset, preset))
	}
	return fields
}

// WithContext returns a logger augmented with the fields stored in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
