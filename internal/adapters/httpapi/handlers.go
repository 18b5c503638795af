package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

const maxBodyBytes = 8 << 20

// DiagramHandler serves the snapshots of a session to canvas clients
type DiagramHandler struct {
	session *application.Session
	logger  *slog.Logger
}

// NewDiagramHandler creates a new DiagramHandler
func NewDiagramHandler(session *application.Session, logger *slog.Logger) *DiagramHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiagramHandler{session: session, logger: logger}
}

// kind resolves the :kind path parameter, writing a 404 when it is unknown
func (h *DiagramHandler) kind(c *gin.Context) (domain.DiagramKind, bool) {
	kind := domain.ParseKind(c.Param("kind"))
	if kind == domain.KindUnknown {
		fail(c, http.StatusNotFound, application.ErrUnknownKind, "Unknown diagram kind: "+c.Param("kind"))
		return kind, false
	}
	return kind, true
}

// GetSnapshot handles GET /api/:kind
func (h *DiagramHandler) GetSnapshot(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	text, err := h.session.Export(kind, application.FormatJSON)
	if err != nil {
		h.logger.Error("export failed", "kind", kind, "error", err)
		fail(c, http.StatusInternalServerError, err, "Failed to export diagram")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(text))
}

// PutSnapshot handles PUT /api/:kind, replacing the diagram with the body
func (h *DiagramHandler) PutSnapshot(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		fail(c, http.StatusRequestEntityTooLarge, err, "Request body too large")
		return
	}

	if err := h.session.Import(kind, string(body)); err != nil {
		if errors.Is(err, application.ErrMalformedInput) {
			fail(c, http.StatusBadRequest, err, "Malformed snapshot")
			return
		}
		h.logger.Error("import failed", "kind", kind, "error", err)
		fail(c, http.StatusInternalServerError, err, "Failed to import diagram")
		return
	}

	success(c, http.StatusOK, nil, "Imported "+kind.String())
}

// ClearDiagram handles DELETE /api/:kind
func (h *DiagramHandler) ClearDiagram(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	if err := h.session.Clear(kind); err != nil {
		fail(c, http.StatusInternalServerError, err, "Failed to clear diagram")
		return
	}
	success(c, http.StatusOK, nil, "Cleared "+kind.String())
}

// GetSQL handles GET /api/:kind/sql; only the ERD has a DDL rendering
func (h *DiagramHandler) GetSQL(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	text, err := h.session.Export(kind, application.FormatSQL)
	if err != nil {
		if errors.Is(err, application.ErrInvalidOperation) {
			fail(c, http.StatusBadRequest, err, "SQL export is only available for erd")
			return
		}
		fail(c, http.StatusInternalServerError, err, "Failed to generate SQL")
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// GetIntegrity handles GET /api/:kind/integrity
func (h *DiagramHandler) GetIntegrity(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	store, err := h.session.Store(kind)
	if err != nil {
		fail(c, http.StatusInternalServerError, err, "Failed to check diagram")
		return
	}

	violations := store.CheckIntegrity()
	if violations == nil {
		violations = []application.IntegrityViolation{}
	}
	success(c, http.StatusOK, gin.H{"violations": violations}, "")
}

// Health handles GET /healthz
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
