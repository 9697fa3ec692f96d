package ai

import (
	"context"
	"iter"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// StreamOptions carries per-request sampling settings.
type StreamOptions struct {
	Model       string
	Temperature float64
}

// StreamProvider is the remote language-model source.
//
// ChatStream returns an error when the request cannot be started. Once it
// returns a sequence, each element is a decoded text fragment; a transport
// failure is yielded once as ("", err) and ends the sequence. The sequence is
// finite and can be ranged over only once.
type StreamProvider interface {
	ChatStream(ctx context.Context, messages []Message, opts StreamOptions) (iter.Seq2[string, error], error)
}

// FromChunks returns a sequence yielding the given fragments in order,
// followed by err if it is non-nil.
func FromChunks(chunks []string, err error) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
		if err != nil {
			yield("", err)
		}
	}
}
