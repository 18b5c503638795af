package application

import (
	"fmt"
	"log/slog"
	"strings"

	"diagrammer/internal/domain"
	"diagrammer/internal/ports"
)

// Diagram is the part of the store surface shared by all three kinds
type Diagram interface {
	ExportJSON() (string, error)
	ImportJSON(text string) error
	ClearAll()
	CheckIntegrity() []IntegrityViolation
}

var (
	_ Diagram = (*ERDStore)(nil)
	_ Diagram = (*FlowchartStore)(nil)
	_ Diagram = (*UseCaseStore)(nil)
)

// ExportFormat selects the text representation returned by Session.Export
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatSQL  ExportFormat = "sql"
)

// ParseExportFormat accepts "json" and "sql", case-insensitively
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatSQL:
		return f, nil
	case "":
		return FormatJSON, nil
	}
	return "", &ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q (expected json or sql)", s)}
}

// Session holds one store per diagram kind, restored from and persisted to
// a snapshot store.
type Session struct {
	ERD       *ERDStore
	Flowchart *FlowchartStore
	UseCase   *UseCaseStore

	logger *slog.Logger
}

// OpenSession creates the three stores and restores any saved snapshots.
// A snapshot that cannot be restored is logged and that store starts
// empty. snapshots may be nil for an in-memory session.
func OpenSession(snapshots ports.SnapshotStore, opts ...Option) *Session {
	o := newStoreOptions(opts)
	s := &Session{
		ERD:       NewERDStore(opts...),
		Flowchart: NewFlowchartStore(opts...),
		UseCase:   NewUseCaseStore(opts...),
		logger:    o.logger,
	}
	if snapshots == nil {
		return s
	}

	for _, kind := range domain.AllKinds {
		b := s.baseOf(kind)
		// restore without writing the snapshot straight back
		b.persist = nil
		s.restore(snapshots, kind)
		b.persist = persisterFor(snapshots, kind)
	}
	return s
}

func persisterFor(snapshots ports.SnapshotStore, kind domain.DiagramKind) Persister {
	return func(data []byte) error {
		return snapshots.Save(kind, data)
	}
}

func (s *Session) baseOf(kind domain.DiagramKind) *base {
	switch kind {
	case domain.KindERD:
		return &s.ERD.base
	case domain.KindFlowchart:
		return &s.Flowchart.base
	default:
		return &s.UseCase.base
	}
}

func (s *Session) restore(snapshots ports.SnapshotStore, kind domain.DiagramKind) {
	data, ok, err := snapshots.Load(kind)
	if err != nil {
		s.logger.Warn("snapshot load failed", "kind", kind.String(), "error", err)
		return
	}
	if !ok {
		return
	}
	store, _ := s.Store(kind)
	if err := store.ImportJSON(string(data)); err != nil {
		s.logger.Warn("snapshot restore failed", "kind", kind.String(), "error", err)
		return
	}
	s.logger.Debug("snapshot restored", "kind", kind.String(), "bytes", len(data))
}

// Store returns the store for kind
func (s *Session) Store(kind domain.DiagramKind) (Diagram, error) {
	switch kind {
	case domain.KindERD:
		return s.ERD, nil
	case domain.KindFlowchart:
		return s.Flowchart, nil
	case domain.KindUseCase:
		return s.UseCase, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// Export renders the diagram of the given kind. SQL is only available for ERD.
func (s *Session) Export(kind domain.DiagramKind, format ExportFormat) (string, error) {
	store, err := s.Store(kind)
	if err != nil {
		return "", err
	}
	switch format {
	case FormatSQL:
		if kind != domain.KindERD {
			return "", fmt.Errorf("%w: sql export is only available for erd diagrams", ErrInvalidOperation)
		}
		return s.ERD.ExportSQL(), nil
	case FormatJSON, "":
		return store.ExportJSON()
	}
	return "", &ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q", format)}
}

// Import replaces the diagram of the given kind with a JSON snapshot
func (s *Session) Import(kind domain.DiagramKind, text string) error {
	store, err := s.Store(kind)
	if err != nil {
		return err
	}
	return store.ImportJSON(text)
}

// Clear empties the diagram of the given kind
func (s *Session) Clear(kind domain.DiagramKind) error {
	store, err := s.Store(kind)
	if err != nil {
		return err
	}
	store.ClearAll()
	return nil
}
