package relay

import (
	"context"
	"encoding/json"

	"github.com/wandermesh/waystation/internal/logger"
	"github.com/wandermesh/waystation/internal/metrics"
)

// HandoffHandler processes an inbound transfer request and returns the
// frame to write back over the link.
type HandoffHandler interface {
	HandleRequest(ctx context.Context, req *HandoffRequest) Frame
}

// DiscoverHandler answers destination discovery queries.
type DiscoverHandler interface {
	HandleDiscover(ctx context.Context, agentID string) Frame
}

// Sender writes a frame back over the relay link.
type Sender interface {
	Send(frame Frame) error
}

// Dispatcher routes inbound frames by their kind tag. Known informational
// kinds are logged, protocol kinds go to their handler, and unknown kinds
// are logged and ignored.
type Dispatcher struct {
	handoff  HandoffHandler
	discover DiscoverHandler
}

// NewDispatcher creates a dispatcher over the two protocol handlers
func NewDispatcher(handoff HandoffHandler, discover DiscoverHandler) *Dispatcher {
	return &Dispatcher{handoff: handoff, discover: discover}
}

// Dispatch decodes one raw frame and routes it. Each frame runs to
// completion before the read loop hands over the next; any response frame
// is written back via the sender.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte, sender Sender) {
	log := logger.FromContext(ctx)

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Warn(LogMsgUnparseableFrame, "error", err)
		return
	}
	metrics.RelayFramesReceived.WithLabelValues(env.Type).Inc()
	log.Debug(LogMsgFrameReceived, "type", env.Type)

	switch env.Type {
	case TypeWelcome:
		var frame WelcomeFrame
		if err := json.Unmarshal(raw, &frame); err == nil {
			log.Info(LogMsgWelcome, "relay_name", frame.RelayName, "relay_version", frame.RelayVersion)
		}

	case TypeRegisterConfirm:
		var frame RegisterConfirmFrame
		if err := json.Unmarshal(raw, &frame); err == nil {
			log.Info(LogMsgRegisterConfirm, "status", frame.Status)
		}

	case TypeHandoffRequest:
		var frame HandoffRequest
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Warn(LogMsgUnparseableFrame, "type", env.Type, "error", err)
			return
		}
		d.respond(ctx, sender, d.handoff.HandleRequest(ctx, &frame))

	case TypeDiscover:
		var frame DiscoverRequest
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Warn(LogMsgUnparseableFrame, "type", env.Type, "error", err)
			return
		}
		d.respond(ctx, sender, d.discover.HandleDiscover(ctx, frame.AgentID))

	case TypePong:
		// Keep-alive reply; receipt alone extends the liveness deadline.

	case TypeError:
		var frame ErrorFrame
		if err := json.Unmarshal(raw, &frame); err == nil {
			log.Error(LogMsgRelayError, "code", frame.Code, "message", frame.Message)
		}

	default:
		log.Warn(LogMsgUnknownFrame, "type", env.Type)
	}
}

// respond writes a handler's response back over the link. A send on a dead
// link fails silently here: the work is already committed, the remote side
// owns the retry.
func (d *Dispatcher) respond(ctx context.Context, sender Sender, frame Frame) {
	if frame == nil {
		return
	}
	if err := sender.Send(frame); err != nil {
		logger.FromContext(ctx).Warn(LogMsgSendSkipped, "type", frame.FrameType(), "error", err)
	}
}
