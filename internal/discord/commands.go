package discord

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/auekha/al/internal/logging"
	"github.com/auekha/al/internal/scheduler"
)

func (g *Gateway) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	var reply string
	switch i.ApplicationCommandData().Name {
	case "alive":
		reply = g.handleAlive(i.ChannelID)
	case "brain":
		reply = g.handleBrain(i.ChannelID)
	default:
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: reply},
	})
	if err != nil {
		logging.Warn("discord", "interaction reply failed: %v", err)
	}
}

func (g *Gateway) handleAlive(channelID string) string {
	err := g.bot.Activate(g.Channel(channelID))
	if errors.Is(err, scheduler.ErrAlreadyActive) {
		return "I am already alive in this channel."
	}
	if err != nil {
		logging.Warn("discord", "activation failed in %s: %v", channelID, err)
		return "Something went wrong."
	}
	return fmt.Sprintf("I am alive. I will respond %d times before dying.", g.lifespan)
}

func (g *Gateway) handleBrain(channelID string) string {
	profiles, ok := g.bot.Profiles(channelID)
	if !ok {
		return "I am not alive in this channel."
	}
	if len(profiles) == 0 {
		return "No profiles yet."
	}

	tags := make([]string, 0, len(profiles))
	for tag := range profiles {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	lines := make([]string, 0, len(tags))
	for _, tag := range tags {
		lines = append(lines, tag+": "+profiles[tag])
	}
	return strings.Join(lines, "\n")
}
