package types

import "time"

// MessageDetails is a fetched channel message reduced to what the prompt
// needs: a compact id, who said what, and when.
type MessageDetails struct {
	ShortID string    // last-5 suffix of the platform message id
	At      time.Time // when the message was created
	Tag     string    // author tag, "Unknown" when the author is missing
	Content string    // "[no content]" when empty
	ReplyTo string    // short id of the replied-to message, "" if none or untracked
}

// Incoming is a live message event as the scheduler sees it. Content is not
// carried; the fire cycle fetches the channel history fresh.
type Incoming struct {
	ChannelID string
	AuthorID  string
}

// Reply is the decoded model response.
type Reply struct {
	Content  string
	ReplyTo  string            // full platform message id to thread under, "" for a plain send
	Profiles map[string]string // tag -> profile text updates, merged overwrite-by-tag
}
