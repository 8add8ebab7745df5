package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uzlearn/center-admin-api/internal/dto"
	"github.com/uzlearn/center-admin-api/internal/service"
	"github.com/uzlearn/center-admin-api/internal/upstream"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
	"github.com/uzlearn/center-admin-api/pkg/response"
)

// EditorHandler exposes the version-composition session endpoints.
type EditorHandler struct {
	service *service.EditorService
	metrics *service.MetricsService
}

// NewEditorHandler creates a new handler. Metrics may be nil.
func NewEditorHandler(svc *service.EditorService, metrics *service.MetricsService) *EditorHandler {
	return &EditorHandler{service: svc, metrics: metrics}
}

// Open godoc
// @Summary Open an editor session
// @Description Load a version and its reference lists into a new editing session
// @Tags Editor
// @Accept json
// @Produce json
// @Param payload body dto.OpenSessionRequest true "Version to edit, zero for a new version"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /editor/sessions [post]
func (h *EditorHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}

	res, err := h.service.Open(c.Request.Context(), req.VersionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	state := dto.NewSessionState(res.Session, res.Warnings)
	payload := gin.H{
		"state":    state,
		"teachers": res.Teachers,
		"students": res.Students,
		"media":    res.Media,
		"phones":   res.Phones,
		"socials":  res.Socials,
	}
	response.JSON(c, http.StatusCreated, payload, nil)
}

// State godoc
// @Summary Get session state
// @Tags Editor
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /editor/sessions/{id} [get]
func (h *EditorHandler) State(c *gin.Context) {
	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSessionState(sess, nil), nil)
}

// DragStart godoc
// @Summary Begin dragging an entity
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.DragStartRequest true "Dragged entity"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /editor/sessions/{id}/drag/start [post]
func (h *EditorHandler) DragStart(c *gin.Context) {
	var req dto.DragStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drag payload"))
		return
	}
	ref, err := dto.ParseEntityRef(req.Domain, req.ID)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drag reference"))
		return
	}

	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	sess.DragStart(ref, req.Width, req.Height)
	response.JSON(c, http.StatusOK, dto.NewSessionState(sess, nil), nil)
}

// DragEnd godoc
// @Summary Finish a drag against a drop target
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.DragEndRequest true "Drop target"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /editor/sessions/{id}/drag/end [post]
func (h *EditorHandler) DragEnd(c *gin.Context) {
	var req dto.DragEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drop payload"))
		return
	}
	drop, err := req.DropRef()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drop target"))
		return
	}

	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	domain := ""
	if active := sess.ActiveDrag(); active != nil {
		domain = active.Ref.Domain.String()
	}
	moved := sess.DragEnd(drop)
	if h.metrics != nil && domain != "" {
		h.metrics.RecordDrag(domain, moved)
	}
	response.JSON(c, http.StatusOK, dto.NewSessionState(sess, nil), nil)
}

// DragCancel godoc
// @Summary Cancel the active drag
// @Tags Editor
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /editor/sessions/{id}/drag/cancel [post]
func (h *EditorHandler) DragCancel(c *gin.Context) {
	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sess.DragCancel()
	response.JSON(c, http.StatusOK, dto.NewSessionState(sess, nil), nil)
}

// DuplicateMedia godoc
// @Summary Duplicate a gallery item into the library
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.MediaDuplicateRequest true "Media to duplicate"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /editor/sessions/{id}/media/duplicate [post]
func (h *EditorHandler) DuplicateMedia(c *gin.Context) {
	var req dto.MediaDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid media payload"))
		return
	}
	mediaID, err := parseMediaParam(req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := sess.DuplicateMedia(mediaID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSessionState(sess, nil), nil)
}

// RemoveMedia godoc
// @Summary Remove a media item from the session
// @Description Originals require the confirm flag; duplicates are removed immediately
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.MediaRemoveRequest true "Media to remove"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /editor/sessions/{id}/media/remove [post]
func (h *EditorHandler) RemoveMedia(c *gin.Context) {
	var req dto.MediaRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid media payload"))
		return
	}
	mediaID, err := parseMediaParam(req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := sess.RemoveMedia(mediaID, req.Confirm); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSessionState(sess, nil), nil)
}

// UploadMedia godoc
// @Summary Upload media files into the session library
// @Tags Editor
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param files formData file true "Media files"
// @Param is_video formData string false "Per-file video flags, 0 or 1"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /editor/sessions/{id}/media [post]
func (h *EditorHandler) UploadMedia(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid multipart payload"))
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "at least one file is required"))
		return
	}
	flags := form.Value["is_video"]

	files := make([]upstream.FileInput, 0, len(headers))
	isVideo := make([]bool, 0, len(headers))
	for i, header := range headers {
		src, openErr := header.Open()
		if openErr != nil {
			response.Error(c, appErrors.Wrap(openErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file"))
			return
		}
		defer src.Close() //nolint:errcheck
		files = append(files, upstream.FileInput{Filename: header.Filename, Content: src})
		isVideo = append(isVideo, i < len(flags) && flags[i] == "1")
	}

	res, err := h.service.UploadMedia(c.Request.Context(), c.Param("id"), files, isVideo)
	if err != nil {
		response.Error(c, err)
		return
	}

	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	added := make([]dto.MediaView, 0, len(res.Added))
	for _, item := range res.Added {
		added = append(added, dto.NewMediaView(item))
	}
	state := dto.NewSessionState(sess, res.Warnings)
	response.JSON(c, http.StatusOK, gin.H{"state": state, "added": added}, nil)
}

// SetFields godoc
// @Summary Replace the session's text fields
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body models.VersionFields true "Text fields"
// @Success 200 {object} response.Envelope
// @Router /editor/sessions/{id}/fields [patch]
func (h *EditorHandler) SetFields(c *gin.Context) {
	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	fields := sess.Fields()
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fields payload"))
		return
	}
	sess.SetFields(fields)
	response.JSON(c, http.StatusOK, dto.NewSessionState(sess, nil), nil)
}

// SelectPhone godoc
// @Summary Select or deselect a phone number
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.PhoneSelectRequest true "Phone selection"
// @Success 200 {object} response.Envelope
// @Router /editor/sessions/{id}/phones/select [post]
func (h *EditorHandler) SelectPhone(c *gin.Context) {
	var req dto.PhoneSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid phone payload"))
		return
	}
	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sess.SelectPhone(req.PhoneID, *req.Selected)
	response.JSON(c, http.StatusOK, dto.NewSessionState(sess, nil), nil)
}

// SetMainPhone godoc
// @Summary Designate the main phone number
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.MainPhoneRequest true "Main phone"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /editor/sessions/{id}/phones/main [post]
func (h *EditorHandler) SetMainPhone(c *gin.Context) {
	var req dto.MainPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid phone payload"))
		return
	}
	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := sess.SetMainPhone(req.PhoneID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSessionState(sess, nil), nil)
}

// SelectSocial godoc
// @Summary Select or deselect a social link
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.SocialSelectRequest true "Social selection"
// @Success 200 {object} response.Envelope
// @Router /editor/sessions/{id}/socials/select [post]
func (h *EditorHandler) SelectSocial(c *gin.Context) {
	var req dto.SocialSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid social payload"))
		return
	}
	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sess.SelectSocial(req.SocialID, *req.Selected)
	response.JSON(c, http.StatusOK, dto.NewSessionState(sess, nil), nil)
}

// Submit godoc
// @Summary Persist the session's arrangement upstream
// @Description Creates a new version when the session has no version, updates otherwise
// @Tags Editor
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param header_img formData file false "Header image"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /editor/sessions/{id}/submit [post]
func (h *EditorHandler) Submit(c *gin.Context) {
	operator := ""
	if claims := claimsFromContext(c); claims != nil {
		operator = claims.Operator
	}

	var headerImg *upstream.FileInput
	if fileHeader, err := c.FormFile("header_img"); err == nil {
		src, openErr := fileHeader.Open()
		if openErr != nil {
			response.Error(c, appErrors.Wrap(openErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open header image"))
			return
		}
		defer src.Close() //nolint:errcheck
		headerImg = &upstream.FileInput{Filename: fileHeader.Filename, Content: src}
	}

	res, err := h.service.Submit(c.Request.Context(), c.Param("id"), operator, headerImg)
	if h.metrics != nil {
		outcome := "succeeded"
		if err != nil {
			outcome = "failed"
		}
		h.metrics.RecordSubmit(outcome)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	response.JSON(c, status, res, nil)
}

// Close godoc
// @Summary Discard an editor session
// @Tags Editor
// @Produce json
// @Param id path string true "Session ID"
// @Success 204 {object} response.Envelope
// @Router /editor/sessions/{id} [delete]
func (h *EditorHandler) Close(c *gin.Context) {
	h.service.Close(c.Param("id"))
	response.NoContent(c)
}

// Activate godoc
// @Summary Make a version live
// @Tags Versions
// @Produce json
// @Param id path int true "Version ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /versions/{id}/activate [post]
func (h *EditorHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Activate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Submissions godoc
// @Summary List submission audit rows
// @Tags Versions
// @Produce json
// @Param version_id query int false "Filter by version"
// @Param limit query int false "Row limit"
// @Success 200 {object} response.Envelope
// @Router /versions/submissions [get]
func (h *EditorHandler) Submissions(c *gin.Context) {
	versionID, _ := strconv.ParseUint(c.Query("version_id"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, err := h.service.Submissions(c.Request.Context(), versionID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
