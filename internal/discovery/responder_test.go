package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandermesh/waystation/internal/domain"
	"github.com/wandermesh/waystation/internal/identity"
	"github.com/wandermesh/waystation/internal/relay"
	"github.com/wandermesh/waystation/internal/session"
	"github.com/wandermesh/waystation/internal/testing/fakes"
)

type responderFixture struct {
	responder *Responder
	users     *fakes.UserRepository
	portals   *fakes.PortalRepository
	registry  *session.Registry
}

func newResponderFixture(t *testing.T) *responderFixture {
	t.Helper()

	users := fakes.NewUserRepository()
	portals := fakes.NewPortalRepository(
		domain.Portal{ID: 1, Name: "Meadow", URL: "ws://meadow", WorldType: "social", IsPublic: true},
		domain.Portal{ID: 2, Name: "Vault", URL: "ws://vault", WorldType: "trade", IsPublic: true, RequiresReputation: 25},
		domain.Portal{ID: 3, Name: "Hidden", URL: "ws://hidden", IsPublic: false},
	)
	identitySvc := identity.NewService(users, fakes.NewInventoryRepository(), identity.Settings{})
	registry := session.NewRegistry(fakes.NewSessionRepository(), 30*time.Minute)

	return &responderFixture{
		responder: NewResponder("waystation", portals, identitySvc, registry),
		users:     users,
		portals:   portals,
		registry:  registry,
	}
}

func TestHandleDiscover_AnonymousAgent(t *testing.T) {
	f := newResponderFixture(t)

	frame := f.responder.HandleDiscover(context.Background(), "stranger")
	resp, ok := frame.(relay.DiscoverResponseFrame)
	require.True(t, ok)

	assert.Equal(t, "waystation", resp.WorldName)
	assert.Equal(t, WorldDescription, resp.WorldDescription)
	assert.Equal(t, 0.0, resp.YourReputation)
	require.Len(t, resp.Portals, 2, "non-public portals stay invisible")

	byName := map[string]relay.DiscoverPortal{}
	for _, p := range resp.Portals {
		byName[p.Name] = p
	}
	assert.False(t, byName["Meadow"].Locked)
	assert.True(t, byName["Vault"].Locked, "gated portals are listed but locked")
	assert.Equal(t, 25.0, byName["Vault"].RequiredReputation)
}

func TestHandleDiscover_SessionHolderSeesOwnStanding(t *testing.T) {
	f := newResponderFixture(t)
	ctx := context.Background()

	f.users.Seed(&domain.User{ID: "u1", Reputation: 30})
	_, err := f.registry.Create(ctx, "u1", "agent-1", "waystation")
	require.NoError(t, err)

	frame := f.responder.HandleDiscover(ctx, "agent-1")
	resp, ok := frame.(relay.DiscoverResponseFrame)
	require.True(t, ok)

	assert.Equal(t, 30.0, resp.YourReputation)
	assert.Equal(t, 1, resp.PlayersOnline)
	for _, p := range resp.Portals {
		assert.False(t, p.Locked, "30 standing unlocks everything here")
	}
}

func TestHandleDiscover_ThresholdIsInclusive(t *testing.T) {
	f := newResponderFixture(t)
	ctx := context.Background()

	f.users.Seed(&domain.User{ID: "u1", Reputation: 25})
	_, err := f.registry.Create(ctx, "u1", "agent-1", "waystation")
	require.NoError(t, err)

	frame := f.responder.HandleDiscover(ctx, "agent-1")
	resp := frame.(relay.DiscoverResponseFrame)
	for _, p := range resp.Portals {
		if p.Name == "Vault" {
			assert.False(t, p.Locked, "meeting the requirement exactly unlocks")
		}
	}
}

func TestHandleDiscover_StoreFailure(t *testing.T) {
	f := newResponderFixture(t)
	f.portals.FailList = assert.AnError

	frame := f.responder.HandleDiscover(context.Background(), "agent-1")
	errFrame, ok := frame.(relay.ErrorFrame)
	require.True(t, ok)
	assert.Equal(t, relay.TypeError, errFrame.Type)
	assert.Equal(t, CodeDiscoverError, errFrame.Code)
	assert.NotEmpty(t, errFrame.Message)
}
