package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandoffHandler struct {
	mu       sync.Mutex
	requests []*HandoffRequest
	response Frame
}

func (s *stubHandoffHandler) HandleRequest(ctx context.Context, req *HandoffRequest) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.response
}

type stubDiscoverHandler struct {
	mu       sync.Mutex
	agentIDs []string
	response Frame
}

func (s *stubDiscoverHandler) HandleDiscover(ctx context.Context, agentID string) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentIDs = append(s.agentIDs, agentID)
	return s.response
}

type recordingSender struct {
	mu     sync.Mutex
	frames []Frame
	err    error
}

func (r *recordingSender) Send(frame Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.frames = append(r.frames, frame)
	return nil
}

func (r *recordingSender) sent() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

func newTestDispatcher() (*Dispatcher, *stubHandoffHandler, *stubDiscoverHandler, *recordingSender) {
	handoff := &stubHandoffHandler{response: HandoffRejectedFrame{Type: TypeHandoffRejected, Reason: "test"}}
	discover := &stubDiscoverHandler{response: DiscoverResponseFrame{Type: TypeDiscoverResponse, WorldName: "waystation"}}
	return NewDispatcher(handoff, discover), handoff, discover, &recordingSender{}
}

func TestDispatch_RoutesHandoffRequest(t *testing.T) {
	dispatcher, handoff, _, sender := newTestDispatcher()

	raw, err := json.Marshal(map[string]interface{}{
		"type":       TypeHandoffRequest,
		"from_agent": "agent-1",
		"from_world": "meadow",
		"passport":   map[string]interface{}{"agent_id": "agent-1"},
	})
	require.NoError(t, err)

	dispatcher.Dispatch(context.Background(), raw, sender)

	require.Len(t, handoff.requests, 1)
	assert.Equal(t, "meadow", handoff.requests[0].FromWorld)
	require.NotNil(t, handoff.requests[0].Passport)
	assert.Equal(t, "agent-1", handoff.requests[0].Passport.AgentID)

	frames := sender.sent()
	require.Len(t, frames, 1)
	assert.Equal(t, TypeHandoffRejected, frames[0].FrameType())
}

func TestDispatch_RoutesDiscover(t *testing.T) {
	dispatcher, _, discover, sender := newTestDispatcher()

	dispatcher.Dispatch(context.Background(), []byte(`{"type":"discover","agent_id":"agent-9"}`), sender)

	require.Len(t, discover.agentIDs, 1)
	assert.Equal(t, "agent-9", discover.agentIDs[0])
	require.Len(t, sender.sent(), 1)
	assert.Equal(t, TypeDiscoverResponse, sender.sent()[0].FrameType())
}

func TestDispatch_InformationalFramesProduceNoResponse(t *testing.T) {
	dispatcher, handoff, discover, sender := newTestDispatcher()

	for _, raw := range []string{
		`{"type":"welcome","relay_name":"hub-relay","relay_version":"1.0"}`,
		`{"type":"register_confirm","status":"ok"}`,
		`{"type":"pong"}`,
		`{"type":"error","code":"X","message":"relay-side trouble"}`,
	} {
		dispatcher.Dispatch(context.Background(), []byte(raw), sender)
	}

	assert.Empty(t, sender.sent())
	assert.Empty(t, handoff.requests)
	assert.Empty(t, discover.agentIDs)
}

func TestDispatch_UnknownAndMalformedFramesIgnored(t *testing.T) {
	dispatcher, handoff, _, sender := newTestDispatcher()

	dispatcher.Dispatch(context.Background(), []byte(`{"type":"teleport_dance"}`), sender)
	dispatcher.Dispatch(context.Background(), []byte(`not json at all`), sender)

	assert.Empty(t, sender.sent())
	assert.Empty(t, handoff.requests)
}

func TestDispatch_DeadLinkResponseDropped(t *testing.T) {
	dispatcher, handoff, _, sender := newTestDispatcher()
	sender.err = errors.New("link down")

	// Must not panic or retry: the handler work is committed either way.
	dispatcher.Dispatch(context.Background(), []byte(`{"type":"handoff_request","passport":{"agent_id":"a"}}`), sender)

	assert.Len(t, handoff.requests, 1)
	assert.Empty(t, sender.sent())
}
