package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wandermesh/waystation/internal/concurrency"
	"github.com/wandermesh/waystation/internal/domain"
	"github.com/wandermesh/waystation/internal/identity"
	"github.com/wandermesh/waystation/internal/inventory"
	"github.com/wandermesh/waystation/internal/logger"
	"github.com/wandermesh/waystation/internal/metrics"
	"github.com/wandermesh/waystation/internal/passport"
	"github.com/wandermesh/waystation/internal/relay"
	"github.com/wandermesh/waystation/internal/repository"
	"github.com/wandermesh/waystation/internal/session"
)

// Settings carries the policy and identity knobs the engine needs from
// configuration.
type Settings struct {
	WorldName           string
	WorldURL            string
	DisplayName         string
	ReputationThreshold float64
	PassportLimits      passport.Limits
}

// Engine runs one inbound transfer request through the full admission
// sequence: validate, resolve identity, gate on reputation, merge
// belongings, open a session, and compose the outbound scene and passport.
// The whole sequence is serialized per agent so concurrent handoffs for
// one traveler cannot interleave.
type Engine struct {
	settings Settings
	auditor  *passport.Auditor
	identity identity.Service
	ledger   inventory.Service
	sessions *session.Registry
	portals  repository.Portal
	locks    *concurrency.LockManager
}

// NewEngine creates a handoff engine
func NewEngine(
	settings Settings,
	auditor *passport.Auditor,
	identitySvc identity.Service,
	ledger inventory.Service,
	sessions *session.Registry,
	portals repository.Portal,
) *Engine {
	return &Engine{
		settings: settings,
		auditor:  auditor,
		identity: identitySvc,
		ledger:   ledger,
		sessions: sessions,
		portals:  portals,
		locks:    concurrency.NewLockManager(),
	}
}

// HandleRequest processes one handoff_request frame and returns the frame
// to send back: handoff_confirm on admission, handoff_rejected otherwise.
func (e *Engine) HandleRequest(ctx context.Context, req *relay.HandoffRequest) relay.Frame {
	log := logger.FromContext(ctx)
	start := time.Now()

	p := req.Passport
	log.Info(LogMsgRequestReceived, "from_agent", req.FromAgent, "from_world", req.FromWorld)

	// Validation happens before the lock: it is pure and a rejected
	// passport never touches shared state.
	result := passport.Validate(p, time.Now(), e.settings.PassportLimits)
	if !result.Valid {
		log.Warn(LogMsgRejected, "reason", result.Reason, "details", result.Details)
		e.auditor.LogSuspicious(ctx, p, result.Reason, result.Details)
		return e.reject(result.Reason, fmt.Sprintf("Invalid passport: %s", result.Reason))
	}

	lock := e.locks.GetLock(p.AgentID)
	lock.Lock()
	defer lock.Unlock()

	frame := e.admit(ctx, p, req.FromWorld)
	metrics.HandoffDuration.Observe(time.Since(start).Seconds())
	return frame
}

// admit runs the post-validation steps. Any unexpected failure is reported
// as processing_error; no retry happens at this layer, the sending side
// owns the retry.
func (e *Engine) admit(ctx context.Context, p *domain.Passport, fromWorld string) relay.Frame {
	log := logger.FromContext(ctx)

	user, err := e.identity.GetOrCreateFromPassport(ctx, p)
	if err != nil {
		log.Error(LogMsgProcessingFailed, "agent_id", p.AgentID, "error", err)
		return e.reject(ReasonProcessingError, "Failed to process handoff")
	}

	// Guests always pass the reputation gate: a brand-new traveler has no
	// standing yet and must still be able to arrive.
	if !user.IsGuest {
		ok, err := e.identity.HasReputation(ctx, user.ID, e.settings.ReputationThreshold)
		if err != nil {
			log.Error(LogMsgProcessingFailed, "agent_id", p.AgentID, "error", err)
			return e.reject(ReasonProcessingError, "Failed to process handoff")
		}
		if !ok {
			log.Warn(LogMsgRejected, "reason", ReasonLowReputation,
				"required", e.settings.ReputationThreshold, "actual", user.Reputation)
			return e.reject(ReasonLowReputation,
				fmt.Sprintf("Reputation too low (need %g, have %g)", e.settings.ReputationThreshold, user.Reputation))
		}
	}

	// Belongings transfer is best effort: a parse or merge failure is
	// logged and travel proceeds. Inventory issues must never strand a
	// traveler.
	if p.Inventory != "" {
		items, err := passport.ParseItems(p.Inventory)
		if err != nil {
			log.Error(LogMsgSyncFailed, "agent_id", p.AgentID, "error", err)
		} else if _, err := e.ledger.SyncFromPassport(ctx, user.ID, items, fromWorld); err != nil {
			log.Error(LogMsgSyncFailed, "agent_id", p.AgentID, "error", err)
		} else {
			log.Info(LogMsgSynced, "agent_id", p.AgentID, "items", len(items))
		}
	}

	if _, err := e.sessions.Create(ctx, user.ID, p.AgentID, e.settings.WorldName); err != nil {
		log.Error(LogMsgProcessingFailed, "agent_id", p.AgentID, "error", err)
		return e.reject(ReasonProcessingError, "Failed to process handoff")
	}
	metrics.PlayersOnline.Set(float64(e.sessions.OnlineCount()))

	snapshot, err := e.ledger.PrepareForPassport(ctx, user.ID)
	if err != nil {
		log.Error(LogMsgProcessingFailed, "agent_id", p.AgentID, "error", err)
		return e.reject(ReasonProcessingError, "Failed to process handoff")
	}
	outboundInventory, err := json.Marshal(snapshot)
	if err != nil {
		log.Error(LogMsgProcessingFailed, "agent_id", p.AgentID, "error", err)
		return e.reject(ReasonProcessingError, "Failed to process handoff")
	}

	scene, err := e.buildScene(ctx)
	if err != nil {
		log.Error(LogMsgProcessingFailed, "agent_id", p.AgentID, "error", err)
		return e.reject(ReasonProcessingError, "Failed to process handoff")
	}

	outbound := *p
	outbound.Inventory = string(outboundInventory)
	outbound.TargetWorld = e.settings.WorldName
	outbound.TargetURL = e.settings.WorldURL

	log.Info(LogMsgConfirmed, "agent_id", p.AgentID)
	metrics.HandoffsTotal.WithLabelValues(ResultConfirmed).Inc()
	return relay.HandoffConfirmFrame{
		Type:      relay.TypeHandoffConfirm,
		Timestamp: relay.Timestamp(),
		Passport:  outbound,
		Scene:     scene,
	}
}

func (e *Engine) reject(reason, message string) relay.Frame {
	metrics.HandoffsTotal.WithLabelValues(reason).Inc()
	return relay.HandoffRejectedFrame{
		Type:      relay.TypeHandoffRejected,
		Timestamp: relay.Timestamp(),
		Reason:    reason,
		Message:   message,
	}
}
