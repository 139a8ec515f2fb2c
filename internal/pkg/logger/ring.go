package logger

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultRingSize = 500

// Entry is one captured log record, kept lightweight for the /logs endpoint.
type Entry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Ring is a bounded buffer of recent log entries. Once full, the oldest entry
// is overwritten.
type Ring struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{entries: make([]Entry, size)}
}

func (r *Ring) Append(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[r.next] = e
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
}

// Recent returns up to n entries, oldest first.
func (r *Ring) Recent(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := r.next
	if r.full {
		size = len(r.entries)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]Entry, 0, n)
	start := r.next - n
	if start < 0 {
		start += len(r.entries)
	}
	for i := 0; i < n; i++ {
		out = append(out, r.entries[(start+i)%len(r.entries)])
	}
	return out
}

func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.entries)
	}
	return r.next
}

// teeHandler forwards records to the primary handler and mirrors them into the
// ring buffer.
type teeHandler struct {
	primary slog.Handler
	ring    *Ring
	attrs   []slog.Attr
}

func newTeeHandler(primary slog.Handler, ring *Ring) slog.Handler {
	return &teeHandler{primary: primary, ring: ring}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, rec slog.Record) error {
	entry := Entry{
		Time:    rec.Time,
		Level:   rec.Level.String(),
		Message: rec.Message,
	}
	if rec.NumAttrs() > 0 || len(h.attrs) > 0 {
		entry.Attrs = make(map[string]any, rec.NumAttrs()+len(h.attrs))
		for _, a := range h.attrs {
			entry.Attrs[a.Key] = a.Value.Any()
		}
		rec.Attrs(func(a slog.Attr) bool {
			entry.Attrs[a.Key] = a.Value.Any()
			return true
		})
	}
	h.ring.Append(entry)
	return h.primary.Handle(ctx, rec)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &teeHandler{primary: h.primary.WithAttrs(attrs), ring: h.ring, attrs: merged}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{primary: h.primary.WithGroup(name), ring: h.ring, attrs: h.attrs}
}
