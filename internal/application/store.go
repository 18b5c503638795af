package application

import (
	"encoding/json"
	"log/slog"
	"math/rand"

	"diagrammer/internal/domain"
)

// Persister receives the snapshot JSON after every change.
// Failures are logged and never reach the caller.
type Persister func(data []byte) error

// Observer is notified after a store's collections changed
type Observer func(kind domain.DiagramKind)

// ColorPicker chooses a color for a new node from a palette
type ColorPicker func(palette []string) string

// Selection is the currently selected node, connection, or sub-element.
// NodeID and ConnectionID are never both set.
type Selection struct {
	NodeID       string
	ConnectionID string
	SubElementID string
}

// Empty reports whether nothing is selected
func (s Selection) Empty() bool {
	return s.NodeID == "" && s.ConnectionID == "" && s.SubElementID == ""
}

// IntegrityViolation describes a connection endpoint that does not resolve.
// Only imported snapshots can produce one.
type IntegrityViolation struct {
	ConnectionID string `json:"connectionId"`
	Reason       string `json:"reason"`
}

type storeOptions struct {
	ids       IDGenerator
	persist   Persister
	logger    *slog.Logger
	pickColor ColorPicker
	observers []Observer
}

// Option configures a store
type Option func(*storeOptions)

// WithIDGenerator overrides the ULID generator
func WithIDGenerator(g IDGenerator) Option {
	return func(o *storeOptions) { o.ids = g }
}

// WithPersister sets the function called with the snapshot after every change
func WithPersister(p Persister) Option {
	return func(o *storeOptions) { o.persist = p }
}

// WithLogger sets the logger; defaults to slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(o *storeOptions) { o.logger = l }
}

// WithColorPicker overrides the random palette pick
func WithColorPicker(p ColorPicker) Option {
	return func(o *storeOptions) { o.pickColor = p }
}

// WithObserver registers a change callback. Observers run after the
// store's lock is released, so they may read the store.
func WithObserver(fn Observer) Option {
	return func(o *storeOptions) { o.observers = append(o.observers, fn) }
}

// FirstColor always picks the first palette entry
func FirstColor(palette []string) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[0]
}

func randomColor(palette []string) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[rand.Intn(len(palette))]
}

func newStoreOptions(opts []Option) storeOptions {
	o := storeOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ids == nil {
		o.ids = NewULIDGenerator()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.pickColor == nil {
		o.pickColor = randomColor
	}
	return o
}

// base holds what every store shares: options plus the post-mutation hook
type base struct {
	kind domain.DiagramKind
	storeOptions
}

// persistLocked writes the snapshot. Must be called with the store lock held
// so saves land in mutation order.
func (b *base) persistLocked(snapshot any) {
	if b.persist == nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		b.logger.Warn("snapshot encode failed", "kind", b.kind.String(), "error", err)
		return
	}
	if err := b.persist(data); err != nil {
		b.logger.Warn("snapshot persist failed", "kind", b.kind.String(), "error", err)
	}
}

func (b *base) notify() {
	for _, fn := range b.observers {
		fn(b.kind)
	}
}

// encodeSnapshot pretty prints with a two-space indent
func encodeSnapshot(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

func ptr[T any](v T) *T { return &v }
