package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandermesh/waystation/internal/domain"
	"github.com/wandermesh/waystation/internal/testing/fakes"
)

func TestCreateAndGet(t *testing.T) {
	repo := fakes.NewSessionRepository()
	registry := NewRegistry(repo, 30*time.Minute)
	ctx := context.Background()

	sessionID, err := registry.Create(ctx, "u1", "agent-1", "waystation")
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	session, ok := registry.Get("agent-1")
	require.True(t, ok)
	assert.Equal(t, sessionID, session.ID)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, 1, registry.OnlineCount())
	assert.Equal(t, 1, repo.Count())
}

func TestCreate_ReadmissionReplaces(t *testing.T) {
	registry := NewRegistry(fakes.NewSessionRepository(), 30*time.Minute)
	ctx := context.Background()

	first, err := registry.Create(ctx, "u1", "agent-1", "waystation")
	require.NoError(t, err)
	second, err := registry.Create(ctx, "u1", "agent-1", "waystation")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	session, ok := registry.Get("agent-1")
	require.True(t, ok)
	assert.Equal(t, second, session.ID)
	assert.Equal(t, 1, registry.OnlineCount(), "re-admission must not double count")
}

func TestUpdate(t *testing.T) {
	registry := NewRegistry(fakes.NewSessionRepository(), 30*time.Minute)
	ctx := context.Background()

	_, err := registry.Create(ctx, "u1", "agent-1", "waystation")
	require.NoError(t, err)
	before, _ := registry.Get("agent-1")
	lastSeen := before.LastSeen

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, registry.Update(ctx, "agent-1"))

	after, _ := registry.Get("agent-1")
	assert.True(t, after.LastSeen.After(lastSeen))
}

func TestUpdate_UnknownAgentIsNoOp(t *testing.T) {
	registry := NewRegistry(fakes.NewSessionRepository(), 30*time.Minute)
	assert.NoError(t, registry.Update(context.Background(), "ghost"))
}

func TestEnd(t *testing.T) {
	repo := fakes.NewSessionRepository()
	registry := NewRegistry(repo, 30*time.Minute)
	ctx := context.Background()

	_, err := registry.Create(ctx, "u1", "agent-1", "waystation")
	require.NoError(t, err)

	session, err := registry.End(ctx, "agent-1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "agent-1", session.AgentID)
	assert.Equal(t, 0, registry.OnlineCount())
	assert.Equal(t, 0, repo.Count())

	// Ending an agent that is not online returns nothing.
	session, err = registry.End(ctx, "agent-1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestCleanup_PrunesOnlyTheMirror(t *testing.T) {
	repo := fakes.NewSessionRepository()
	registry := NewRegistry(repo, 10*time.Millisecond)
	ctx := context.Background()

	// A stale mirror row with no in-memory entry, as after a restart.
	require.NoError(t, repo.InsertSession(ctx, &domain.Session{
		ID: "old", AgentID: "stale-agent", LastSeen: time.Now().Add(-time.Hour),
	}))
	_, err := registry.Create(ctx, "u1", "live-agent", "waystation")
	require.NoError(t, err)

	require.NoError(t, registry.Cleanup(ctx))

	assert.Equal(t, 1, registry.OnlineCount(), "sweep never evicts live entries")
	assert.Equal(t, 1, repo.Count())
	_, ok := registry.Get("live-agent")
	assert.True(t, ok)
}

func TestGetAll(t *testing.T) {
	registry := NewRegistry(fakes.NewSessionRepository(), 30*time.Minute)
	ctx := context.Background()

	_, err := registry.Create(ctx, "u1", "agent-1", "waystation")
	require.NoError(t, err)
	_, err = registry.Create(ctx, "u2", "agent-2", "waystation")
	require.NoError(t, err)

	assert.Len(t, registry.GetAll(), 2)
}
