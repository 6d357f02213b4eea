package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hwcatalog/internal/core/apperror"
	"hwcatalog/internal/domain/hardware"
	"hwcatalog/internal/infrastructure/http/v1/dto"
)

const (
	queryPage = "page"
	querySize = "size"
)

// HardwareReader is the read side used by HardwareHandler.
type HardwareReader interface {
	FindByID(ctx context.Context, id int64, withImages bool) (*hardware.Record, error)
	Find(ctx context.Context, criteria hardware.SearchCriteria, pageable hardware.Pageable) (hardware.Slice[hardware.Record], error)
}

// HardwareWriter is the write side used by HardwareHandler.
type HardwareWriter interface {
	Create(ctx context.Context, rec *hardware.Record) (int64, error)
	Update(ctx context.Context, id int64, rec *hardware.Record, token string) (int, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// HardwareHandler serves /hardware.
type HardwareHandler struct {
	*BaseHandler
	reader   HardwareReader
	writer   HardwareWriter
	basePath string
}

// NewHardwareHandler creates a handler; basePath prefixes Location headers.
func NewHardwareHandler(reader HardwareReader, writer HardwareWriter, basePath string) *HardwareHandler {
	return &HardwareHandler{
		BaseHandler: NewBaseHandler(),
		reader:      reader,
		writer:      writer,
		basePath:    basePath,
	}
}

// Get returns one record with its images.
// GET /hardware/:id
func (h *HardwareHandler) Get(c *gin.Context) {
	id, err := hardware.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	rec, err := h.reader.FindByID(c.Request.Context(), id, true)
	if err != nil {
		h.Error(c, err)
		return
	}

	etag := hardware.FormatVersion(rec.Version)
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	h.OK(c, rec)
}

// List searches records. Every query parameter except page and size is a
// search criterion.
// GET /hardware?name=rtx&page=0&size=5
func (h *HardwareHandler) List(c *gin.Context) {
	query := c.Request.URL.Query()
	pageable := hardware.NewPageable(query.Get(queryPage), query.Get(querySize))

	criteria := make(hardware.SearchCriteria, len(query))
	for key, values := range query {
		if key == queryPage || key == querySize || len(values) == 0 {
			continue
		}
		criteria[key] = values[0]
	}

	slice, err := h.reader.Find(c.Request.Context(), criteria, pageable)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, hardware.NewPage(slice, pageable))
}

// Create stores a new record.
// POST /hardware
func (h *HardwareHandler) Create(c *gin.Context) {
	var req dto.HardwareRequest
	if !h.BindJSON(c, &req) {
		return
	}

	id, err := h.writer.Create(c.Request.Context(), req.ToRecord())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, h.basePath+"/"+strconv.FormatInt(id, 10), id)
}

// Update replaces the mutable fields of a record. If-Match carries the
// version the client last saw.
// PUT /hardware/:id
func (h *HardwareHandler) Update(c *gin.Context) {
	token := c.GetHeader("If-Match")
	if token == "" {
		h.Error(c, apperror.NewVersionRequired())
		return
	}

	id, err := hardware.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.HardwareRequest
	if !h.BindJSON(c, &req) {
		return
	}

	version, err := h.writer.Update(c.Request.Context(), id, req.ToRecord(), token)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("ETag", hardware.FormatVersion(version))
	h.NoContent(c)
}

// Delete removes a record with its images. Unknown identities succeed too.
// DELETE /hardware/:id
func (h *HardwareHandler) Delete(c *gin.Context) {
	id, err := hardware.ParseID(c.Param("id"))
	if err != nil {
		h.NoContent(c)
		return
	}

	if _, err := h.writer.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
