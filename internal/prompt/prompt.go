package prompt

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/auekha/al/internal/types"
)

// Composer renders the two-part completion request: the channel transcript
// plus remembered profiles as the user message, and the persona directives
// as the system message.
type Composer struct {
	personaName string
	botTag      string
	creatorTag  string
}

// New creates a composer for one bot identity.
func New(personaName, botTag, creatorTag string) *Composer {
	return &Composer{
		personaName: personaName,
		botTag:      botTag,
		creatorTag:  creatorTag,
	}
}

// Compose builds the request from a fetched message window and the channel's
// accumulated profiles. The window may arrive in any order (the platform
// fetches newest-first); it is rendered oldest-first.
func (c *Composer) Compose(msgs []types.MessageDetails, profiles map[string]string, now time.Time) (userMsg, systemMsg string) {
	sorted := make([]types.MessageDetails, len(msgs))
	copy(sorted, msgs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	return c.userMessage(sorted, profiles, now), c.systemMessage(sorted)
}

func (c *Composer) userMessage(sorted []types.MessageDetails, profiles map[string]string, now time.Time) string {
	var b strings.Builder

	b.WriteString("What you remember of everybody so far:\n")
	b.WriteString(c.creatorTag + ": my creator")
	included := map[string]bool{c.creatorTag: true}
	for _, m := range sorted {
		if included[m.Tag] {
			continue
		}
		if profile, ok := profiles[m.Tag]; ok {
			included[m.Tag] = true
			b.WriteString("\n" + m.Tag + ": " + profile)
		}
	}

	b.WriteString("\n-----\n")
	b.WriteString("Latest messages in the channel:")
	for _, m := range sorted {
		ago := int(now.Sub(m.At).Seconds())
		fmt.Fprintf(&b, "\n(ID %s) %s %d seconds ago: %s", m.ShortID, m.Tag, ago, m.Content)
		if m.ReplyTo != "" {
			fmt.Fprintf(&b, " (replying to %s)", m.ReplyTo)
		}
	}

	return b.String()
}

func (c *Composer) systemMessage(sorted []types.MessageDetails) string {
	// Everyone in the window gets an opinion line except the bot itself and
	// the creator, in order of first appearance.
	seen := map[string]bool{c.botTag: true, c.creatorTag: true}
	var opinionTags []string
	for _, m := range sorted {
		if !seen[m.Tag] {
			seen[m.Tag] = true
			opinionTags = append(opinionTags, m.Tag)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You're a Discord user called %s (%s).\n", c.personaName, c.botTag)
	b.WriteString("You're just an average person, blending in with other Discord users.\n")
	b.WriteString("Don't repeat yourself or others, and don't respond with long messages, and don't respond to yourself.\n")
	b.WriteString("Respond exactly as so:\n\n")
	b.WriteString("what you'd like to say\n")
	b.WriteString("-----\n")
	b.WriteString("null or the message ID you'd like to reply to\n")
	b.WriteString("-----")
	for _, tag := range opinionTags {
		b.WriteString("\n" + tag + ": [what you think of them]")
	}

	return b.String()
}
