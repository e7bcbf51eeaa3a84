package services

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	yearKey   contextKey = "year"
	sourceKey contextKey = "source"
)

// WithRunID annotates context with the ingestion run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the ingestion run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithYear annotates context with the chart year being ingested.
func WithYear(ctx context.Context, year int) context.Context {
	return context.WithValue(ctx, yearKey, year)
}

// YearFromContext returns the chart year if present.
func YearFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(yearKey)
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}

// WithSource annotates context with the source name.
func WithSource(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, sourceKey, name)
}

// SourceFromContext returns the source name if present.
func SourceFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sourceKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
