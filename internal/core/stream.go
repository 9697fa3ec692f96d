package core

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Forward returns a sequence that writes every non-empty fragment of stream
// to sink as it is pulled, then passes it on. Empty fragments are dropped.
// Errors pass through unchanged and end the sequence.
func Forward(stream iter.Seq2[string, error], sink io.Writer) iter.Seq2[string, error] {
	if sink == nil {
		sink = io.Discard
	}

	return func(yield func(string, error) bool) {
		for chunk, err := range stream {
			if err != nil {
				yield("", err)
				return
			}
			if chunk == "" {
				continue
			}
			// Display errors do not affect aggregation.
			_, _ = io.WriteString(sink, chunk)
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// Aggregate consumes the stream in order and returns the concatenated text,
// forwarding each fragment to sink as it arrives.
//
// A stream error or a cancelled ctx discards everything gathered so far and
// returns an error matching ErrTransport, since truncated text would yield
// truncated commands.
func Aggregate(ctx context.Context, stream iter.Seq2[string, error], sink io.Writer) (string, error) {
	var b strings.Builder

	for chunk, err := range Forward(stream, sink) {
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrTransport, err)
		}
		b.WriteString(chunk)

		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}

	return b.String(), nil
}
