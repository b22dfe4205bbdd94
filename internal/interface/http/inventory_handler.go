package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/internal/application"
	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
	"github.com/oksasatya/go-live-inventory/internal/domain/repository"
	"github.com/oksasatya/go-live-inventory/pkg/response"
	"github.com/oksasatya/go-live-inventory/pkg/validation"
)

const streamKeepAlive = 25 * time.Second

type InventoryHandler struct {
	App    *application.App
	View   *LiveView
	Logger *logrus.Logger
	Title  string
}

func NewInventoryHandler(app *application.App, view *LiveView, logger *logrus.Logger, title string) *InventoryHandler {
	return &InventoryHandler{App: app, View: view, Logger: logger, Title: title}
}

type viewRequest struct {
	View string `json:"view" binding:"required,viewtoken"`
}

type itemURI struct {
	ID string `json:"id" uri:"id" binding:"required,docid"`
}

// itemID binds and checks the :id path parameter, answering 400 itself.
func itemID(c *gin.Context) (string, bool) {
	var uri itemURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid item id", validation.ToDetails(err))
		return "", false
	}
	return uri.ID, true
}

// Page renders the whole screen for the current view.
func (h *InventoryHandler) Page(c *gin.Context) {
	data := PageData{
		Title:    h.Title,
		View:     h.App.Router().Current(),
		Items:    h.View.Frame().Items,
		Messages: h.View.Messages(),
	}
	if sess, ok := h.App.State().Session(); ok {
		data.Session = &sess
	}
	if it, ok := h.App.Router().EditTarget(); ok {
		data.Editing = &it
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.View.Page(c.Writer, data); err != nil {
		h.Logger.WithError(err).Error("failed to render page")
	}
}

func (h *InventoryHandler) Session(c *gin.Context) {
	sess, ok := h.App.State().Session()
	if !ok {
		response.Success(c, http.StatusOK, gin.H{"status": "loading"}, "session loading", nil)
		return
	}
	data := sessionPayload(sess)
	data["status"] = "ready"
	response.Success[any](c, http.StatusOK, data, "session ready", nil)
}

// List returns the displayed list, which may lag behind recent writes.
func (h *InventoryHandler) List(c *gin.Context) {
	frame := h.View.Frame()
	response.Success(c, http.StatusOK, frame.Items, "inventory", gin.H{
		"version":     frame.Version,
		"rendered_at": frame.RenderedAt,
		"count":       len(frame.Items),
	})
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var in entity.ItemInput
	if err := c.ShouldBind(&in); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	id, err := h.App.Gateway().Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "Failed to add item.")
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"id": id}, "Item added successfully.", nil)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	var patch entity.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if patch.Empty() {
		response.Error[any](c, http.StatusBadRequest, "no fields to update", nil)
		return
	}
	if err := h.App.Gateway().Update(c.Request.Context(), id, patch); err != nil {
		h.writeError(c, err, "Failed to update item.")
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"id": id}, "Item updated successfully.", nil)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	if err := h.App.Gateway().Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete item.")
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"id": id}, "Item deleted successfully.", nil)
}

func (h *InventoryHandler) CurrentView(c *gin.Context) {
	response.Success(c, http.StatusOK, h.viewPayload(), "view", nil)
}

func (h *InventoryHandler) Navigate(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, _ := entity.ParseView(req.View)
	if v == entity.ViewEdit {
		response.Error[any](c, http.StatusBadRequest, "edit needs an item, use /view/edit/:id", nil)
		return
	}
	h.App.Router().Navigate(v)
	response.Success(c, http.StatusOK, h.viewPayload(), "view changed", nil)
}

func (h *InventoryHandler) Edit(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	it, err := h.App.Router().Edit(id)
	if err != nil {
		h.writeError(c, err, "item not found")
		return
	}
	data := h.viewPayload()
	data["item"] = it
	response.Success(c, http.StatusOK, data, "view changed", nil)
}

func (h *InventoryHandler) Messages(c *gin.Context) {
	response.Success(c, http.StatusOK, h.View.Messages(), "messages", nil)
}

// Stream pushes the current frame, then every render, message and view
// change as Server-Sent Events.
func (h *InventoryHandler) Stream(c *gin.Context) {
	events, cancel := h.View.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent(EventInventory, h.View.Frame())
	if sess, ok := h.App.State().Session(); ok {
		c.SSEvent(EventSession, sessionPayload(sess))
	}
	c.Writer.Flush()

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()
	ctx := c.Request.Context()
	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		}
	})
}

func (h *InventoryHandler) viewPayload() gin.H {
	return gin.H{
		"view":    h.App.Router().Current(),
		"edit_id": h.App.State().EditID(),
	}
}

func (h *InventoryHandler) writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, application.ErrNoSession):
		response.Error[any](c, http.StatusServiceUnavailable, "session not ready", nil)
	case errors.Is(err, application.ErrMissingID):
		response.Error[any](c, http.StatusBadRequest, "item id is required", nil)
	case errors.Is(err, application.ErrItemNotFound), errors.Is(err, repository.ErrDocumentNotFound):
		response.Error[any](c, http.StatusNotFound, msg, nil)
	default:
		response.Error[any](c, http.StatusBadGateway, msg, err.Error())
	}
}
