package parse

import "testing"

// fakeRegistry resolves short ids from a fixed map.
type fakeRegistry map[string]string

func (f fakeRegistry) Resolve(shortID string) (string, bool) {
	full, ok := f[shortID]
	return full, ok
}

func TestParseFullResponse(t *testing.T) {
	reg := fakeRegistry{}

	reply := Parse("hello\n-----\nnull\n-----\nalice: friendly", reg)

	if reply.Content != "hello" {
		t.Errorf("expected content %q, got %q", "hello", reply.Content)
	}
	if reply.ReplyTo != "" {
		t.Errorf("expected no reply target for null, got %q", reply.ReplyTo)
	}
	if len(reply.Profiles) != 1 || reply.Profiles["alice"] != "friendly" {
		t.Errorf("expected profiles {alice: friendly}, got %v", reply.Profiles)
	}
}

func TestParseResolvesReplyTarget(t *testing.T) {
	reg := fakeRegistry{"12345": "998877665544332212345"}

	reply := Parse("sounds fun\n-----\n12345\n-----\n", reg)

	if reply.ReplyTo != "998877665544332212345" {
		t.Errorf("expected resolved full id, got %q", reply.ReplyTo)
	}
}

func TestParseTargetWithSurroundingText(t *testing.T) {
	reg := fakeRegistry{"12345": "full-id"}

	// Models sometimes dress the directive up; the first digit run wins.
	reply := Parse("ok\n-----\nI'd reply to message ID 12345 please\n-----\n", reg)

	if reply.ReplyTo != "full-id" {
		t.Errorf("expected digit extraction to find the target, got %q", reply.ReplyTo)
	}
}

func TestParseUnresolvableTargetIsSilent(t *testing.T) {
	reg := fakeRegistry{}

	reply := Parse("ok\n-----\n54321\n-----\n", reg)

	if reply.ReplyTo != "" {
		t.Errorf("expected unknown short id to mean no target, got %q", reply.ReplyTo)
	}
}

func TestParseTargetWithoutDigits(t *testing.T) {
	reg := fakeRegistry{}

	reply := Parse("ok\n-----\nthe funny one\n-----\n", reg)

	if reply.ReplyTo != "" {
		t.Errorf("expected no target without digits, got %q", reply.ReplyTo)
	}
}

func TestParseSingleSegment(t *testing.T) {
	reply := Parse("just a plain reply", fakeRegistry{})

	if reply.Content != "just a plain reply" {
		t.Errorf("unexpected content %q", reply.Content)
	}
	if reply.ReplyTo != "" {
		t.Errorf("expected no reply target, got %q", reply.ReplyTo)
	}
	if len(reply.Profiles) != 0 {
		t.Errorf("expected no profile updates, got %v", reply.Profiles)
	}
}

func TestParseFourDashSeparator(t *testing.T) {
	reg := fakeRegistry{}

	reply := Parse("hey\n----\nnull\n----\nbob: quiet", reg)

	if reply.Content != "hey" {
		t.Errorf("expected content %q, got %q", "hey", reply.Content)
	}
	if reply.Profiles["bob"] != "quiet" {
		t.Errorf("expected profiles {bob: quiet}, got %v", reply.Profiles)
	}
}

func TestParseMemoryBlock(t *testing.T) {
	reply := Parse("hi\n-----\nnull\n-----\n  alice: warms up quickly  \n\nnot a profile line\nbob: lurks: a lot", fakeRegistry{})

	if got := reply.Profiles["alice"]; got != "warms up quickly" {
		t.Errorf("expected trimmed profile, got %q", got)
	}
	// Only the first colon splits; the rest is profile text.
	if got := reply.Profiles["bob"]; got != "lurks: a lot" {
		t.Errorf("expected split on first colon, got %q", got)
	}
	// Colonless lines are dropped, not turned into broken pairs.
	if len(reply.Profiles) != 2 {
		t.Errorf("expected 2 profiles, got %v", reply.Profiles)
	}
}

func TestParseEmptyInput(t *testing.T) {
	reply := Parse("", fakeRegistry{})

	if reply.Content != "" || reply.ReplyTo != "" || len(reply.Profiles) != 0 {
		t.Errorf("expected empty reply, got %+v", reply)
	}
}

func TestParseExtraSegmentsIgnored(t *testing.T) {
	reply := Parse("hi\n-----\nnull\n-----\nalice: ok\n-----\ntrailing junk", fakeRegistry{})

	if reply.Content != "hi" {
		t.Errorf("unexpected content %q", reply.Content)
	}
	if reply.Profiles["alice"] != "ok" {
		t.Errorf("expected profiles {alice: ok}, got %v", reply.Profiles)
	}
	if len(reply.Profiles) != 1 {
		t.Errorf("expected trailing segment to be dropped, got %v", reply.Profiles)
	}
}
