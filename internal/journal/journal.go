package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Entry records one completed reply cycle for prompt debugging. Nothing is
// ever read back into bot state; the journal is observability only.
type Entry struct {
	Timestamp   time.Time `json:"ts"`
	ChannelID   string    `json:"channel_id"`
	PromptChars int       `json:"prompt_chars"`
	SystemChars int       `json:"system_chars"`
	Response    string    `json:"response"`
	ReplyTo     string    `json:"reply_to,omitempty"`
	Profiles    int       `json:"profiles,omitempty"`
	Lifespan    int       `json:"lifespan"`
}

// Journal appends reply-cycle entries to a jsonl file.
type Journal struct {
	path string
	mu   sync.Mutex
}

// New creates a journal writer for the given file path.
func New(path string) *Journal {
	return &Journal{path: path}
}

// Log appends one entry.
func (j *Journal) Log(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// Recent returns the last n entries. Malformed lines are skipped.
func (j *Journal) Recent(n int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if n < len(entries) {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}
