package passport

import (
	"context"

	"github.com/wandermesh/waystation/internal/domain"
	"github.com/wandermesh/waystation/internal/logger"
	"github.com/wandermesh/waystation/internal/repository"
)

// Auditor records rejected passports for later review. Writing the audit
// trail is best effort: a storage failure is logged and swallowed so it can
// never affect the rejection path itself.
type Auditor struct {
	repo    repository.AuditLog
	enabled bool
}

// NewAuditor creates an Auditor. When enabled is false every call is a no-op.
func NewAuditor(repo repository.AuditLog, enabled bool) *Auditor {
	return &Auditor{repo: repo, enabled: enabled}
}

// LogSuspicious records a rejected passport and the reason it was refused.
// The passport may be nil or partially populated; whatever identity it
// carries is captured best effort.
func (a *Auditor) LogSuspicious(ctx context.Context, p *domain.Passport, reason, details string) {
	if !a.enabled {
		return
	}
	log := logger.FromContext(ctx)

	event := map[string]interface{}{
		"reason":  reason,
		"details": details,
	}
	var userID *string
	if p != nil {
		event["agent_id"] = p.AgentID
		event["source_world"] = p.SourceWorld
		event["target_world"] = p.TargetWorld
		if p.AgentID != "" {
			userID = &p.AgentID
		}
	}

	if err := a.repo.LogEvent(ctx, EventRejectedPassport, userID, event); err != nil {
		log.Error(LogMsgAuditWriteFailed, "error", err)
		return
	}
	log.Info(LogMsgSuspiciousLogged, "reason", reason)
}
