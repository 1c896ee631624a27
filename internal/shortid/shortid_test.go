package shortid

import "testing"

func TestShortenRoundTrip(t *testing.T) {
	r := New()

	fullID := "998877665544332211009"
	short := r.Shorten(fullID)

	if short != "11009" {
		t.Errorf("expected short id to be the last 5 characters, got %q", short)
	}

	resolved, ok := r.Resolve(short)
	if !ok {
		t.Fatal("expected short id to resolve")
	}
	if resolved != fullID {
		t.Errorf("expected round trip to return %q, got %q", fullID, resolved)
	}
}

func TestShortenShortInput(t *testing.T) {
	r := New()

	// Ids at or below the suffix length come back unchanged.
	if got := r.Shorten("123"); got != "123" {
		t.Errorf("expected %q, got %q", "123", got)
	}
	if got := r.Shorten("12345"); got != "12345" {
		t.Errorf("expected %q, got %q", "12345", got)
	}
}

func TestCollisionOverwrites(t *testing.T) {
	r := New()

	first := "111110000012345"
	second := "222220000012345"

	short1 := r.Shorten(first)
	short2 := r.Shorten(second)
	if short1 != short2 {
		t.Fatalf("expected suffix collision, got %q and %q", short1, short2)
	}

	resolved, ok := r.Resolve(short2)
	if !ok {
		t.Fatal("expected collision id to resolve")
	}
	if resolved != second {
		t.Errorf("expected newer mapping %q to win, got %q", second, resolved)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 mapping after collision, got %d", r.Len())
	}
}

func TestResolveUnknown(t *testing.T) {
	r := New()

	if _, ok := r.Resolve("99999"); ok {
		t.Error("expected unknown short id not to resolve")
	}
}

func TestSuffixDoesNotRegister(t *testing.T) {
	r := New()

	short := Suffix("998877665544332211009")
	if short != "11009" {
		t.Errorf("expected %q, got %q", "11009", short)
	}
	if _, ok := r.Resolve(short); ok {
		t.Error("Suffix must not record a mapping")
	}
}
