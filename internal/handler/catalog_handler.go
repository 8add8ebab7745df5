package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uzlearn/center-admin-api/internal/service"
	"github.com/uzlearn/center-admin-api/internal/upstream"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
	"github.com/uzlearn/center-admin-api/pkg/response"
)

// CatalogHandler proxies the catalog resources of the content API: teachers,
// students, phones, socials, icons, media, admins and versions.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

func formFileInput(c *gin.Context, field string) (*upstream.FileInput, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	src, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file")
	}
	return &upstream.FileInput{Filename: fileHeader.Filename, Content: src}, nil
}

// ListTeachers godoc
// @Summary List teachers
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *CatalogHandler) ListTeachers(c *gin.Context) {
	items, err := h.service.Teachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// GetTeacher godoc
// @Summary Get a teacher
// @Tags Catalog
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *CatalogHandler) GetTeacher(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.Teacher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

func teacherInputFromForm(c *gin.Context) (upstream.TeacherInput, error) {
	in := upstream.TeacherInput{
		Name:    c.PostForm("name"),
		Surname: c.PostForm("surname"),
		Role:    c.PostForm("role"),
	}
	image, err := formFileInput(c, "image")
	if err != nil {
		return in, err
	}
	in.Image = image
	return in, nil
}

// CreateTeacher godoc
// @Summary Create a teacher
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param surname formData string true "Surname"
// @Param role formData string true "Role"
// @Param image formData file false "Portrait"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *CatalogHandler) CreateTeacher(c *gin.Context) {
	in, err := teacherInputFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.CreateTeacher(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, item, nil)
}

// UpdateTeacher godoc
// @Summary Update a teacher
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [patch]
func (h *CatalogHandler) UpdateTeacher(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	in, err := teacherInputFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.UpdateTeacher(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteTeacher godoc
// @Summary Delete a teacher
// @Tags Catalog
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 204 {object} response.Envelope
// @Router /teachers/{id} [delete]
func (h *CatalogHandler) DeleteTeacher(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteTeacher(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListStudents godoc
// @Summary List students
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *CatalogHandler) ListStudents(c *gin.Context) {
	items, err := h.service.Students(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// GetStudent godoc
// @Summary Get a student
// @Tags Catalog
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *CatalogHandler) GetStudent(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.Student(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

func studentInputFromForm(c *gin.Context) (upstream.StudentInput, error) {
	in := upstream.StudentInput{
		Name:    c.PostForm("name"),
		Surname: c.PostForm("surname"),
		Course:  c.PostForm("course"),
		CEFR:    c.PostForm("cefr"),
	}
	image, err := formFileInput(c, "image")
	if err != nil {
		return in, err
	}
	in.Image = image
	return in, nil
}

// CreateStudent godoc
// @Summary Create a student
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param surname formData string true "Surname"
// @Param course formData string false "Course"
// @Param cefr formData string false "CEFR level"
// @Param image formData file false "Portrait"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *CatalogHandler) CreateStudent(c *gin.Context) {
	in, err := studentInputFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.CreateStudent(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, item, nil)
}

// UpdateStudent godoc
// @Summary Update a student
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [patch]
func (h *CatalogHandler) UpdateStudent(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	in, err := studentInputFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.UpdateStudent(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteStudent godoc
// @Summary Delete a student
// @Tags Catalog
// @Produce json
// @Param id path int true "Student ID"
// @Success 204 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *CatalogHandler) DeleteStudent(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteStudent(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListPhones godoc
// @Summary List phone numbers
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /phones [get]
func (h *CatalogHandler) ListPhones(c *gin.Context) {
	items, err := h.service.Phones(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

type phonePayload struct {
	Phone string `json:"phone" binding:"required"`
}

// CreatePhone godoc
// @Summary Create a phone number
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body handler.phonePayload true "Phone"
// @Success 201 {object} response.Envelope
// @Router /phones [post]
func (h *CatalogHandler) CreatePhone(c *gin.Context) {
	var req phonePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid phone payload"))
		return
	}
	item, err := h.service.CreatePhone(c.Request.Context(), req.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, item, nil)
}

// UpdatePhone godoc
// @Summary Update a phone number
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Phone ID"
// @Success 200 {object} response.Envelope
// @Router /phones/{id} [patch]
func (h *CatalogHandler) UpdatePhone(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req phonePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid phone payload"))
		return
	}
	item, err := h.service.UpdatePhone(c.Request.Context(), id, req.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeletePhone godoc
// @Summary Delete a phone number
// @Tags Catalog
// @Produce json
// @Param id path int true "Phone ID"
// @Success 204 {object} response.Envelope
// @Router /phones/{id} [delete]
func (h *CatalogHandler) DeletePhone(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeletePhone(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListSocials godoc
// @Summary List social links
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /socials [get]
func (h *CatalogHandler) ListSocials(c *gin.Context) {
	items, err := h.service.Socials(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// CreateSocial godoc
// @Summary Create a social link
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body upstream.SocialInput true "Social link"
// @Success 201 {object} response.Envelope
// @Router /socials [post]
func (h *CatalogHandler) CreateSocial(c *gin.Context) {
	var req upstream.SocialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid social payload"))
		return
	}
	item, err := h.service.CreateSocial(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, item, nil)
}

// UpdateSocial godoc
// @Summary Update a social link
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Social ID"
// @Success 200 {object} response.Envelope
// @Router /socials/{id} [patch]
func (h *CatalogHandler) UpdateSocial(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req upstream.SocialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid social payload"))
		return
	}
	item, err := h.service.UpdateSocial(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteSocial godoc
// @Summary Delete a social link
// @Tags Catalog
// @Produce json
// @Param id path int true "Social ID"
// @Success 204 {object} response.Envelope
// @Router /socials/{id} [delete]
func (h *CatalogHandler) DeleteSocial(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteSocial(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListIcons godoc
// @Summary List social icons
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /icons [get]
func (h *CatalogHandler) ListIcons(c *gin.Context) {
	items, err := h.service.Icons(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// CreateIcon godoc
// @Summary Upload a social icon
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Icon name"
// @Param icon formData file true "Icon file"
// @Success 201 {object} response.Envelope
// @Router /icons [post]
func (h *CatalogHandler) CreateIcon(c *gin.Context) {
	file, err := formFileInput(c, "icon")
	if err != nil {
		response.Error(c, err)
		return
	}
	if file == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "icon file is required"))
		return
	}
	item, err := h.service.CreateIcon(c.Request.Context(), c.PostForm("name"), *file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, item, nil)
}

// GetIcon godoc
// @Summary Get a social icon
// @Tags Catalog
// @Produce json
// @Param id path int true "Icon ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /icons/{id} [get]
func (h *CatalogHandler) GetIcon(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.Icon(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// UpdateIcon godoc
// @Summary Update a social icon
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Icon ID"
// @Param name formData string true "Icon name"
// @Param icon formData file false "Replacement icon file"
// @Success 200 {object} response.Envelope
// @Router /icons/{id} [patch]
func (h *CatalogHandler) UpdateIcon(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := formFileInput(c, "icon")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.UpdateIcon(c.Request.Context(), id, c.PostForm("name"), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteIcon godoc
// @Summary Delete a social icon
// @Tags Catalog
// @Produce json
// @Param id path int true "Icon ID"
// @Success 204 {object} response.Envelope
// @Router /icons/{id} [delete]
func (h *CatalogHandler) DeleteIcon(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteIcon(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListMedia godoc
// @Summary List media assets
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /media [get]
func (h *CatalogHandler) ListMedia(c *gin.Context) {
	items, err := h.service.Media(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// UploadMedia godoc
// @Summary Upload a media asset
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Media file"
// @Param is_video formData string false "1 when the file is a video"
// @Success 201 {object} response.Envelope
// @Router /media [post]
func (h *CatalogHandler) UploadMedia(c *gin.Context) {
	file, err := formFileInput(c, "file")
	if err != nil {
		response.Error(c, err)
		return
	}
	if file == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "media file is required"))
		return
	}
	item, err := h.service.UploadMedia(c.Request.Context(), *file, c.PostForm("is_video") == "1")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, item, nil)
}

// GetMedia godoc
// @Summary Get a media asset
// @Tags Catalog
// @Produce json
// @Param id path int true "Media ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /media/{id} [get]
func (h *CatalogHandler) GetMedia(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.MediaByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// UpdateMedia godoc
// @Summary Update a media asset
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Media ID"
// @Param name formData string true "Display name"
// @Param is_video formData string false "1 when the file is a video"
// @Param file formData file false "Replacement media file"
// @Success 200 {object} response.Envelope
// @Router /media/{id} [patch]
func (h *CatalogHandler) UpdateMedia(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := formFileInput(c, "file")
	if err != nil {
		response.Error(c, err)
		return
	}
	in := upstream.MediaUpdate{
		Name:    c.PostForm("name"),
		IsVideo: c.PostForm("is_video") == "1",
		File:    file,
	}
	item, err := h.service.UpdateMedia(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteMedia godoc
// @Summary Delete a media asset
// @Tags Catalog
// @Produce json
// @Param id path int true "Media ID"
// @Success 204 {object} response.Envelope
// @Router /media/{id} [delete]
func (h *CatalogHandler) DeleteMedia(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteMedia(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAdmins godoc
// @Summary List admin accounts
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admins [get]
func (h *CatalogHandler) ListAdmins(c *gin.Context) {
	items, err := h.service.Admins(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

func adminInputFromForm(c *gin.Context) (upstream.AdminInput, error) {
	in := upstream.AdminInput{
		Name:     c.PostForm("name"),
		Surname:  c.PostForm("surname"),
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}
	avatar, err := formFileInput(c, "avatar")
	if err != nil {
		return in, err
	}
	in.Avatar = avatar
	return in, nil
}

// GetAdmin godoc
// @Summary Get an admin account
// @Tags Catalog
// @Produce json
// @Param id path int true "Admin ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admins/{id} [get]
func (h *CatalogHandler) GetAdmin(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.Admin(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// CreateAdmin godoc
// @Summary Create an admin account
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param surname formData string true "Surname"
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param avatar formData file false "Avatar"
// @Success 201 {object} response.Envelope
// @Router /admins [post]
func (h *CatalogHandler) CreateAdmin(c *gin.Context) {
	in, err := adminInputFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.CreateAdmin(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, item, nil)
}

// UpdateAdmin godoc
// @Summary Update an admin account
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Admin ID"
// @Success 200 {object} response.Envelope
// @Router /admins/{id} [patch]
func (h *CatalogHandler) UpdateAdmin(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	in, err := adminInputFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.UpdateAdmin(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// ChangeAdminPassword godoc
// @Summary Change an admin's password
// @Tags Catalog
// @Accept json
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /admins/change-password [patch]
func (h *CatalogHandler) ChangeAdminPassword(c *gin.Context) {
	var req struct {
		AdminID     uint64 `json:"admin_id" binding:"required"`
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid password payload"))
		return
	}
	if err := h.service.ChangeAdminPassword(c.Request.Context(), req.AdminID, req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteAdmin godoc
// @Summary Delete an admin account
// @Tags Catalog
// @Produce json
// @Param id path int true "Admin ID"
// @Success 204 {object} response.Envelope
// @Router /admins/{id} [delete]
func (h *CatalogHandler) DeleteAdmin(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteAdmin(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListVersions godoc
// @Summary List website versions
// @Tags Versions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /versions [get]
func (h *CatalogHandler) ListVersions(c *gin.Context) {
	items, err := h.service.Versions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
