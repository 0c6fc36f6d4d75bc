package linking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/wandermesh/waystation/internal/logger"
)

// Bot is the optional Discord surface for account linking. Travelers run
// /link with their agent ID to upgrade their guest account in place. The
// protocol core never depends on this; when no token is configured the bot
// simply is not started.
type Bot struct {
	session *discordgo.Session
	appID   string
	service Service
}

// NewBot creates a linking bot
func NewBot(token, appID string, service Service) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	return &Bot{session: s, appID: appID, service: service}, nil
}

// Start opens the gateway connection and registers the /link command
func (b *Bot) Start() error {
	b.session.AddHandler(b.ready)
	b.session.AddHandler(b.interactionCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	cmd := &discordgo.ApplicationCommand{
		Name:        "link",
		Description: "Link your Discord account to your traveler identity",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "agent_id",
				Description: "Your traveler agent ID",
				Required:    true,
			},
		},
	}
	if _, err := b.session.ApplicationCommandCreate(b.appID, "", cmd); err != nil {
		// The bot can still serve the command if a prior registration exists.
		slog.Warn(LogMsgCommandRegisterFailed, "error", err)
	}
	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() {
	_ = b.session.Close()
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info(LogMsgBotReady, "user", s.State.User.Username)
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != "link" {
		return
	}

	var agentID string
	for _, opt := range data.Options {
		if opt.Name == "agent_id" {
			agentID = opt.StringValue()
		}
	}

	discordUser := i.User
	if discordUser == nil && i.Member != nil {
		discordUser = i.Member.User
	}
	if discordUser == nil || agentID == "" {
		b.respond(s, i, "Could not read your identity from the interaction.")
		return
	}

	ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
	user, err := b.service.Link(ctx, agentID, discordUser.ID, discordUser.Username)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgLinkFailed, "agent_id", agentID, "error", err)
		b.respond(s, i, fmt.Sprintf("Link failed: %v", err))
		return
	}

	b.respond(s, i, fmt.Sprintf("Linked! Welcome, %s. Slots raised to %d and trading enabled.", user.Username, user.MaxSlots))
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Warn(LogMsgRespondFailed, "error", err)
	}
}
