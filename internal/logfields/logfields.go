package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyOwner      = "owner"
	KeyRepo       = "repository"
	KeySlug       = "slug"
	KeySource     = "source"
	KeyPage       = "page"
	KeyAttempts   = "attempts"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyRunID      = "run_id"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Owner(o string) slog.Attr        { return slog.String(KeyOwner, o) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Page(p int) slog.Attr            { return slog.Int(KeyPage, p) }
func Attempts(n int) slog.Attr        { return slog.Int(KeyAttempts, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
