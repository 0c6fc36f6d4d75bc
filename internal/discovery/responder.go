package discovery

import (
	"context"

	"github.com/wandermesh/waystation/internal/identity"
	"github.com/wandermesh/waystation/internal/logger"
	"github.com/wandermesh/waystation/internal/relay"
	"github.com/wandermesh/waystation/internal/repository"
	"github.com/wandermesh/waystation/internal/session"
)

// Responder answers destination discovery queries, annotating each portal
// with whether the requester's reputation unlocks it.
type Responder struct {
	worldName        string
	worldDescription string
	portals          repository.Portal
	identity         identity.Service
	sessions         *session.Registry
}

// NewResponder creates a discovery responder
func NewResponder(worldName string, portals repository.Portal, identitySvc identity.Service, sessions *session.Registry) *Responder {
	return &Responder{
		worldName:        worldName,
		worldDescription: WorldDescription,
		portals:          portals,
		identity:         identitySvc,
		sessions:         sessions,
	}
}

// HandleDiscover builds a discover_response for the requesting agent. The
// requester's reputation is looked up only when they have an open session;
// anonymous queries see every gate from a standing of zero.
func (r *Responder) HandleDiscover(ctx context.Context, agentID string) relay.Frame {
	log := logger.FromContext(ctx)
	log.Info(LogMsgRequestReceived, "agent_id", agentID)

	portals, err := r.portals.ListPublic(ctx)
	if err != nil {
		log.Error(LogMsgFailed, "agent_id", agentID, "error", err)
		return relay.ErrorFrame{
			Type:      relay.TypeError,
			Timestamp: relay.Timestamp(),
			Code:      CodeDiscoverError,
			Message:   "Failed to get portals",
		}
	}

	var reputation float64
	if sess, ok := r.sessions.Get(agentID); ok {
		reputation, err = r.identity.GetReputation(ctx, sess.UserID)
		if err != nil {
			log.Error(LogMsgFailed, "agent_id", agentID, "error", err)
			return relay.ErrorFrame{
				Type:      relay.TypeError,
				Timestamp: relay.Timestamp(),
				Code:      CodeDiscoverError,
				Message:   "Failed to get portals",
			}
		}
	}

	entries := make([]relay.DiscoverPortal, 0, len(portals))
	for _, p := range portals {
		entries = append(entries, relay.DiscoverPortal{
			PortalID:           p.ID,
			Name:               p.Name,
			DestinationURL:     p.URL,
			Type:               p.WorldType,
			Description:        p.Description,
			Locked:             reputation < p.RequiresReputation,
			RequiredReputation: p.RequiresReputation,
		})
	}

	log.Info(LogMsgResponded, "agent_id", agentID, "portals", len(entries))
	return relay.DiscoverResponseFrame{
		Type:             relay.TypeDiscoverResponse,
		Timestamp:        relay.Timestamp(),
		WorldName:        r.worldName,
		WorldDescription: r.worldDescription,
		Portals:          entries,
		PlayersOnline:    r.sessions.OnlineCount(),
		YourReputation:   reputation,
	}
}
