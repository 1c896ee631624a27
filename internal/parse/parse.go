package parse

import (
	"regexp"
	"strings"

	"github.com/auekha/al/internal/types"
)

var (
	segmentSep = regexp.MustCompile(`-{4,5}`)
	digitRun   = regexp.MustCompile(`\d+`)
)

// Resolver maps a short message id back to a full platform id.
type Resolver interface {
	Resolve(shortID string) (string, bool)
}

// Parse decodes the model's delimited response: reply content, then an
// optional reply target, then an optional memory block, separated by runs of
// 4-5 dashes. The format is a convention, not a schema, so each segment
// degrades independently; a malformed target or memory block never loses the
// reply content.
func Parse(text string, reg Resolver) types.Reply {
	segments := segmentSep.Split(text, -1)
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	reply := types.Reply{
		Content:  segments[0],
		Profiles: map[string]string{},
	}
	if len(segments) > 1 {
		reply.ReplyTo = resolveTarget(segments[1], reg)
	}
	if len(segments) > 2 {
		reply.Profiles = parseProfiles(segments[2])
	}
	return reply
}

// resolveTarget extracts the first run of digits from the target directive
// and resolves it as a short id. "null", no digits, and an unknown short id
// all mean no target.
func resolveTarget(segment string, reg Resolver) string {
	if segment == "" || segment == "null" {
		return ""
	}
	short := digitRun.FindString(segment)
	if short == "" {
		return ""
	}
	full, ok := reg.Resolve(short)
	if !ok {
		return ""
	}
	return full
}

// parseProfiles splits the memory block into tag -> profile pairs, one per
// line on the first colon. Lines without a colon carry no tag and are
// dropped.
func parseProfiles(segment string) map[string]string {
	profiles := make(map[string]string)
	for _, line := range strings.Split(segment, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tag, profile, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		profiles[strings.TrimSpace(tag)] = strings.TrimSpace(profile)
	}
	return profiles
}
