package upstream

import (
	"context"
	"fmt"
	"io"

	"github.com/uzlearn/center-admin-api/internal/models"
)

// The content API returns bare JSON arrays and objects, no envelope.

// ListTeachers fetches all teachers.
func (c *Client) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	var out []models.Teacher
	if err := c.getJSON(ctx, "/teacher", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTeacher fetches one teacher by id.
func (c *Client) GetTeacher(ctx context.Context, id uint64) (*models.Teacher, error) {
	var out models.Teacher
	if err := c.getJSON(ctx, fmt.Sprintf("/teacher/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TeacherInput carries the mutable teacher fields; the photo rides along as
// a multipart file part when set.
type TeacherInput struct {
	Name    string
	Surname string
	Role    string
	Image   *FileInput
}

// FileInput is an uploadable file attached to a create or update call.
type FileInput struct {
	Field    string
	Filename string
	Content  io.Reader
}

func (in TeacherInput) form() *Form {
	f := NewForm().
		Set("name", in.Name).
		Set("surname", in.Surname).
		Set("role", in.Role)
	if in.Image != nil {
		f.AddFile("image", in.Image.Filename, in.Image.Content)
	}
	return f
}

// CreateTeacher creates a teacher record.
func (c *Client) CreateTeacher(ctx context.Context, in TeacherInput) (*models.Teacher, error) {
	var out models.Teacher
	if err := c.doMultipart(ctx, "POST", "/teacher", in.form(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTeacher patches a teacher record.
func (c *Client) UpdateTeacher(ctx context.Context, id uint64, in TeacherInput) (*models.Teacher, error) {
	var out models.Teacher
	if err := c.doMultipart(ctx, "PATCH", fmt.Sprintf("/teacher/%d", id), in.form(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTeacher removes a teacher record.
func (c *Client) DeleteTeacher(ctx context.Context, id uint64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/teacher/%d", id), nil, nil)
}

// ListStudents fetches all students.
func (c *Client) ListStudents(ctx context.Context) ([]models.Student, error) {
	var out []models.Student
	if err := c.getJSON(ctx, "/student", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStudent fetches one student by id.
func (c *Client) GetStudent(ctx context.Context, id uint64) (*models.Student, error) {
	var out models.Student
	if err := c.getJSON(ctx, fmt.Sprintf("/student/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentInput carries the mutable student fields.
type StudentInput struct {
	Name    string
	Surname string
	Course  string
	CEFR    string
	Image   *FileInput
}

func (in StudentInput) form() *Form {
	f := NewForm().
		Set("name", in.Name).
		Set("surname", in.Surname).
		Set("course", in.Course).
		Set("cefr", in.CEFR)
	if in.Image != nil {
		f.AddFile("image", in.Image.Filename, in.Image.Content)
	}
	return f
}

// CreateStudent creates a student record.
func (c *Client) CreateStudent(ctx context.Context, in StudentInput) (*models.Student, error) {
	var out models.Student
	if err := c.doMultipart(ctx, "POST", "/student", in.form(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStudent patches a student record.
func (c *Client) UpdateStudent(ctx context.Context, id uint64, in StudentInput) (*models.Student, error) {
	var out models.Student
	if err := c.doMultipart(ctx, "PATCH", fmt.Sprintf("/student/%d", id), in.form(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStudent removes a student record.
func (c *Client) DeleteStudent(ctx context.Context, id uint64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/student/%d", id), nil, nil)
}

// ListPhones fetches all contact phones.
func (c *Client) ListPhones(ctx context.Context) ([]models.Phone, error) {
	var out []models.Phone
	if err := c.getJSON(ctx, "/phone", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePhone creates a phone record.
func (c *Client) CreatePhone(ctx context.Context, phone string) (*models.Phone, error) {
	var out models.Phone
	body := map[string]string{"phone": phone}
	if err := c.doJSON(ctx, "POST", "/phone", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePhone patches a phone record.
func (c *Client) UpdatePhone(ctx context.Context, id uint64, phone string) (*models.Phone, error) {
	var out models.Phone
	body := map[string]string{"phone": phone}
	if err := c.doJSON(ctx, "PATCH", fmt.Sprintf("/phone/%d", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePhone removes a phone record.
func (c *Client) DeletePhone(ctx context.Context, id uint64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/phone/%d", id), nil, nil)
}

// ListSocials fetches all social links.
func (c *Client) ListSocials(ctx context.Context) ([]models.Social, error) {
	var out []models.Social
	if err := c.getJSON(ctx, "/social", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SocialInput carries the mutable social link fields.
type SocialInput struct {
	Name   string `json:"name,omitempty"`
	URL    string `json:"url,omitempty"`
	IconID uint64 `json:"icon_id,omitempty"`
}

// CreateSocial creates a social link.
func (c *Client) CreateSocial(ctx context.Context, in SocialInput) (*models.Social, error) {
	var out models.Social
	if err := c.doJSON(ctx, "POST", "/social", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSocial patches a social link.
func (c *Client) UpdateSocial(ctx context.Context, id uint64, in SocialInput) (*models.Social, error) {
	var out models.Social
	if err := c.doJSON(ctx, "PATCH", fmt.Sprintf("/social/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSocial removes a social link.
func (c *Client) DeleteSocial(ctx context.Context, id uint64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/social/%d", id), nil, nil)
}

// ListIcons fetches all social icons.
func (c *Client) ListIcons(ctx context.Context) ([]models.Icon, error) {
	var out []models.Icon
	if err := c.getJSON(ctx, "/icon", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetIcon fetches one icon by id.
func (c *Client) GetIcon(ctx context.Context, id uint64) (*models.Icon, error) {
	var out models.Icon
	if err := c.getJSON(ctx, fmt.Sprintf("/icon/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateIcon uploads a new icon asset.
func (c *Client) CreateIcon(ctx context.Context, name string, file FileInput) (*models.Icon, error) {
	var out models.Icon
	f := NewForm().Set("name", name)
	f.AddFile("file", file.Filename, file.Content)
	if err := c.doMultipart(ctx, "POST", "/icon", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateIcon patches an icon, optionally replacing its asset.
func (c *Client) UpdateIcon(ctx context.Context, id uint64, name string, file *FileInput) (*models.Icon, error) {
	var out models.Icon
	f := NewForm().Set("name", name)
	if file != nil {
		f.AddFile("file", file.Filename, file.Content)
	}
	if err := c.doMultipart(ctx, "PATCH", fmt.Sprintf("/icon/%d", id), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteIcon removes an icon asset.
func (c *Client) DeleteIcon(ctx context.Context, id uint64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/icon/%d", id), nil, nil)
}

// ListAdmins fetches all admin accounts.
func (c *Client) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	var out []models.Admin
	if err := c.getJSON(ctx, "/admin", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAdmin fetches one admin account by id.
func (c *Client) GetAdmin(ctx context.Context, id uint64) (*models.Admin, error) {
	var out models.Admin
	if err := c.getJSON(ctx, fmt.Sprintf("/admin/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminInput carries the mutable admin account fields. Password is only
// sent when set; updates change it through ChangeAdminPassword instead.
type AdminInput struct {
	Name     string
	Surname  string
	Username string
	Password string
	Avatar   *FileInput
}

func (in AdminInput) form() *Form {
	f := NewForm().
		Set("name", in.Name).
		Set("surname", in.Surname).
		Set("username", in.Username)
	if in.Password != "" {
		f.Set("password", in.Password)
	}
	if in.Avatar != nil {
		f.AddFile("avatar", in.Avatar.Filename, in.Avatar.Content)
	}
	return f
}

// CreateAdmin creates an admin account.
func (c *Client) CreateAdmin(ctx context.Context, in AdminInput) (*models.Admin, error) {
	var out models.Admin
	if err := c.doMultipart(ctx, "POST", "/admin", in.form(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAdmin patches an admin account.
func (c *Client) UpdateAdmin(ctx context.Context, id uint64, in AdminInput) (*models.Admin, error) {
	var out models.Admin
	if err := c.doMultipart(ctx, "PATCH", fmt.Sprintf("/admin/%d", id), in.form(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeAdminPassword rotates an admin's password.
func (c *Client) ChangeAdminPassword(ctx context.Context, adminID uint64, oldPassword, newPassword string) error {
	body := map[string]interface{}{
		"admin_id":     adminID,
		"old_password": oldPassword,
		"new_password": newPassword,
	}
	return c.doJSON(ctx, "PATCH", "/admin/change-password", body, nil)
}

// DeleteAdmin removes an admin account.
func (c *Client) DeleteAdmin(ctx context.Context, id uint64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/admin/%d", id), nil, nil)
}
