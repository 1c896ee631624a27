package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/auekha/al/internal/logging"
	"github.com/auekha/al/internal/scheduler"
	"github.com/auekha/al/internal/shortid"
	"github.com/auekha/al/internal/types"
)

// Bot is what the gateway needs from the reply scheduler.
type Bot interface {
	Activate(ch scheduler.Channel) error
	HandleMessage(msg types.Incoming)
	Profiles(channelID string) (map[string]string, bool)
}

// Config holds the gateway's settings. Lifespan is only echoed in the
// /alive confirmation; the scheduler owns the actual counter.
type Config struct {
	Token    string
	GuildID  string
	Lifespan int
}

// Gateway wraps the Discord session: it feeds message events and slash
// commands to the scheduler and exposes per-channel send/fetch/typing
// operations back to it.
type Gateway struct {
	session  *discordgo.Session
	guildID  string
	lifespan int
	registry *shortid.Registry

	botID  string
	botTag string
	bot    Bot
}

// New creates a gateway. The session is not opened yet.
func New(cfg Config, registry *shortid.Registry) (*Gateway, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	return &Gateway{
		session:  session,
		guildID:  cfg.GuildID,
		lifespan: cfg.Lifespan,
		registry: registry,
	}, nil
}

// Open connects to Discord and records the bot's own identity.
func (g *Gateway) Open() error {
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	g.botID = g.session.State.User.ID
	g.botTag = g.session.State.User.String()
	logging.Info("discord", "connected as %s", g.botTag)
	return nil
}

// Close disconnects from Discord.
func (g *Gateway) Close() error {
	return g.session.Close()
}

// BotID returns the bot's own user id. Valid after Open.
func (g *Gateway) BotID() string { return g.botID }

// BotTag returns the bot's own display tag. Valid after Open.
func (g *Gateway) BotTag() string { return g.botTag }

// Bind attaches the scheduler and registers the event handlers.
func (g *Gateway) Bind(bot Bot) {
	g.bot = bot
	g.session.AddHandler(g.handleMessageCreate)
	g.session.AddHandler(g.handleInteraction)
}

// RegisterCommands creates the guild-scoped alive and brain commands.
func (g *Gateway) RegisterCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{Name: "alive", Description: "Make the bot come alive in the channel"},
		{Name: "brain", Description: "List the profiles in the bot's memory"},
	}
	for _, cmd := range commands {
		if _, err := g.session.ApplicationCommandCreate(g.botID, g.guildID, cmd); err != nil {
			return fmt.Errorf("register /%s: %w", cmd.Name, err)
		}
	}
	return nil
}

// Channel returns the scheduler-facing handle for a channel id.
func (g *Gateway) Channel(id string) scheduler.Channel {
	return &channel{g: g, id: id}
}

func (g *Gateway) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// A single configured guild is home; anywhere else the bot removes
	// itself rather than process the message.
	if m.GuildID != "" && m.GuildID != g.guildID {
		if err := s.GuildLeave(m.GuildID); err != nil {
			logging.Warn("discord", "failed to leave guild %s: %v", m.GuildID, err)
		}
		return
	}
	if m.Author == nil {
		return
	}

	g.bot.HandleMessage(types.Incoming{
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
	})
}

// messageDetails reduces a raw message to prompt material, registering its
// short id on the way.
func (g *Gateway) messageDetails(m *discordgo.Message) types.MessageDetails {
	d := types.MessageDetails{
		ShortID: g.registry.Shorten(m.ID),
		At:      m.Timestamp,
		Tag:     "Unknown",
		Content: m.Content,
	}
	if m.Author != nil {
		d.Tag = m.Author.String()
	}
	if d.Content == "" {
		d.Content = "[no content]"
	}
	// Annotate replies only when the target is tracked, so the model never
	// sees a short id it cannot use.
	if ref := m.MessageReference; ref != nil && ref.MessageID != "" {
		short := shortid.Suffix(ref.MessageID)
		if _, ok := g.registry.Resolve(short); ok {
			d.ReplyTo = short
		}
	}
	return d
}

// channel adapts one Discord text channel to the scheduler's Channel
// surface.
type channel struct {
	g  *Gateway
	id string
}

func (c *channel) ID() string { return c.id }

func (c *channel) Typing() error {
	return c.g.session.ChannelTyping(c.id)
}

func (c *channel) Send(content, replyToID string) error {
	msg := &discordgo.MessageSend{Content: content}
	if replyToID != "" {
		msg.Reference = &discordgo.MessageReference{
			MessageID: replyToID,
			ChannelID: c.id,
		}
	}
	_, err := c.g.session.ChannelMessageSendComplex(c.id, msg)
	return err
}

func (c *channel) History(limit int) ([]types.MessageDetails, error) {
	raw, err := c.g.session.ChannelMessages(c.id, limit, "", "", "")
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	details := make([]types.MessageDetails, 0, len(raw))
	for _, m := range raw {
		details = append(details, c.g.messageDetails(m))
	}
	return details, nil
}
