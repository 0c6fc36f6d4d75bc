package handoff

import (
	"context"

	"github.com/wandermesh/waystation/internal/relay"
)

// buildScene composes the world payload an arriving traveler receives:
// identity, spawn, assets, the public portal list, the live online count,
// and house rules.
func (e *Engine) buildScene(ctx context.Context) (relay.Scene, error) {
	portals, err := e.portals.ListPublic(ctx)
	if err != nil {
		return relay.Scene{}, err
	}

	scenePortals := make([]relay.ScenePortal, 0, len(portals))
	for _, p := range portals {
		scenePortals = append(scenePortals, relay.ScenePortal{
			ID:          p.ID,
			Name:        p.Name,
			URL:         p.URL,
			Type:        p.WorldType,
			Description: p.Description,
		})
	}

	return relay.Scene{
		Name:        e.settings.DisplayName,
		Description: SceneDescription,
		SpawnPoint:  relay.SpawnPoint{X: 0, Y: 1, Z: 0},
		Assets: relay.AssetManifest{
			Textures: []string{"/assets/floor.png", "/assets/sky.jpg"},
			Models:   []string{"/assets/portal.glb"},
		},
		Portals:       scenePortals,
		PlayersOnline: e.sessions.OnlineCount(),
		Rules: relay.HouseRules{
			PvP:      false,
			Trading:  true,
			Building: false,
		},
	}, nil
}
