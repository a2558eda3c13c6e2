// Package stream turns a raw provider fragment stream into the
// normalized event sequence consumed by transports and renderers.
//
// The output contract is a single JSON envelope, and partial JSON
// cannot be re-parsed mid-stream, so the aggregator buffers the whole
// provider turn before emitting structured events. The output is still
// stream-shaped: one text event, then one agui event per element, then
// exactly one terminal done (or error) event.
package stream

import (
	"context"
	"unicode/utf8"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/envelope"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
)

// Aggregate consumes fragments until the provider signals end-of-turn
// (or closes the channel), re-parses the accumulated text through the
// envelope parser and re-emits normalized events on the returned
// channel. The channel is closed after the terminal event.
//
// Guarantees, in receipt order within one session:
//   - at most one text event, before any agui events
//   - agui events preserve the element order of the parsed envelope
//   - exactly one terminal event (done or error), always last
//   - cancelling ctx stops upstream consumption promptly
func Aggregate(ctx context.Context, fragments <-chan model.Fragment) <-chan model.StreamEvent {
	out := make(chan model.StreamEvent)

	go func() {
		defer close(out)

		var buf []byte
		totalTokens := 0

	buffering:
		for {
			select {
			case <-ctx.Done():
				emit(ctx, out, model.ErrorEvent(ctx.Err().Error()))
				return
			case frag, ok := <-fragments:
				if !ok {
					// Upstream closed without an explicit end-of-turn;
					// treat it as the provider's end of stream.
					break buffering
				}
				if frag.Err != nil {
					emit(ctx, out, model.ErrorEvent(frag.Err.Error()))
					return
				}
				buf = append(buf, frag.Delta...)
				if frag.TotalTokens > 0 {
					// Providers repeat usage across fragments; the last
					// value wins.
					totalTokens = frag.TotalTokens
				}
				if frag.Done {
					break buffering
				}
			}
		}

		// Draining: entered exactly once.
		text := string(buf)
		env := envelope.Parse(text)

		if env.Content != "" {
			if !emit(ctx, out, model.TextEvent(env.Content)) {
				return
			}
		}
		for _, el := range env.Elements {
			if !emit(ctx, out, model.AGUIEvent(el)) {
				return
			}
		}

		if totalTokens == 0 {
			// No provider-reported usage; fall back to a rough
			// character-count proxy so the done event is never empty.
			totalTokens = utf8.RuneCountInString(text)
		}
		emit(ctx, out, model.DoneEvent(totalTokens))
	}()

	return out
}

// emit sends one event unless the consumer has gone away.
func emit(ctx context.Context, out chan<- model.StreamEvent, ev model.StreamEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
