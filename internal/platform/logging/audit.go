package logging

import (
	"context"
	"log/slog"
)

// Audit actions recorded for profile mutations.
const (
	AuditProfileCreate  = "profile.create"
	AuditProfileUpdate  = "profile.update"
	AuditProfileRename  = "profile.rename"
	AuditProfileDelete  = "profile.delete"
	AuditProfileSelect  = "profile.select"
	AuditProfileTheme   = "profile.theme"
	AuditProfileMigrate = "profile.migrate"
	AuditProfileInit    = "profile.init"
)

// Audit results.
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// AuditEvent is one security-relevant change made on behalf of a user.
type AuditEvent struct {
	Action    string
	UserID    string
	ProfileID string
	Result    string
	Details   map[string]any
}

// LogAudit writes e as a structured audit record.
func LogAudit(ctx context.Context, e AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit.action", e.Action),
		slog.String("audit.user_id", e.UserID),
		slog.String("audit.result", e.Result),
	}
	if e.ProfileID != "" {
		attrs = append(attrs, slog.String("audit.profile_id", e.ProfileID))
	}
	if len(e.Details) > 0 {
		attrs = append(attrs, slog.Any("audit.details", e.Details))
	}
	LoggerFromContext(ctx).LogAttrs(ctx, slog.LevelInfo, "audit event", attrs...)
}
