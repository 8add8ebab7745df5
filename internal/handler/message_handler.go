package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uzlearn/center-admin-api/internal/dto"
	"github.com/uzlearn/center-admin-api/internal/service"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
	"github.com/uzlearn/center-admin-api/pkg/response"
)

// MessageHandler exposes the visitor-message inbox and its export flow.
type MessageHandler struct {
	service *service.MessageService
}

// NewMessageHandler creates a new handler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// List godoc
// @Summary List visitor messages
// @Tags Messages
// @Produce json
// @Param unchecked query bool false "Only unchecked messages"
// @Success 200 {object} response.Envelope
// @Router /messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	onlyUnchecked := c.Query("unchecked") == "true" || c.Query("unchecked") == "1"
	items, err := h.service.List(c.Request.Context(), onlyUnchecked)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get a visitor message
// @Tags Messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /messages/{id} [get]
func (h *MessageHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// SetChecked godoc
// @Summary Mark a message checked or unchecked
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} response.Envelope
// @Router /messages/{id}/checked [patch]
func (h *MessageHandler) SetChecked(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var payload struct {
		Checked *bool `json:"checked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid checked payload"))
		return
	}
	item, err := h.service.SetChecked(c.Request.Context(), id, *payload.Checked)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete a visitor message
// @Tags Messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 204 {object} response.Envelope
// @Router /messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// StartExport godoc
// @Summary Start an asynchronous message export
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export format, csv or pdf"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /messages/exports [post]
func (h *MessageHandler) StartExport(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	job, err := h.service.StartExport(req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// GetExport godoc
// @Summary Get export job status
// @Tags Messages
// @Produce json
// @Param id path string true "Export job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /messages/exports/{id} [get]
func (h *MessageHandler) GetExport(c *gin.Context) {
	job, err := h.service.Export(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// DownloadExport godoc
// @Summary Download a finished export
// @Tags Messages
// @Produce application/octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /messages/exports/download/{token} [get]
func (h *MessageHandler) DownloadExport(c *gin.Context) {
	file, relPath, err := h.service.ResolveDownload(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}

	filename := filepath.Base(relPath)
	mimeType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		mimeType = "text/csv"
	case ".pdf":
		mimeType = "application/pdf"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), mimeType, file, nil)
}
