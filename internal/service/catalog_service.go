package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/uzlearn/center-admin-api/internal/models"
	"github.com/uzlearn/center-admin-api/internal/upstream"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
)

// catalogUpstream is the slice of the content API the catalog screens use.
type catalogUpstream interface {
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	GetTeacher(ctx context.Context, id uint64) (*models.Teacher, error)
	CreateTeacher(ctx context.Context, in upstream.TeacherInput) (*models.Teacher, error)
	UpdateTeacher(ctx context.Context, id uint64, in upstream.TeacherInput) (*models.Teacher, error)
	DeleteTeacher(ctx context.Context, id uint64) error

	ListStudents(ctx context.Context) ([]models.Student, error)
	GetStudent(ctx context.Context, id uint64) (*models.Student, error)
	CreateStudent(ctx context.Context, in upstream.StudentInput) (*models.Student, error)
	UpdateStudent(ctx context.Context, id uint64, in upstream.StudentInput) (*models.Student, error)
	DeleteStudent(ctx context.Context, id uint64) error

	ListPhones(ctx context.Context) ([]models.Phone, error)
	CreatePhone(ctx context.Context, phone string) (*models.Phone, error)
	UpdatePhone(ctx context.Context, id uint64, phone string) (*models.Phone, error)
	DeletePhone(ctx context.Context, id uint64) error

	ListSocials(ctx context.Context) ([]models.Social, error)
	CreateSocial(ctx context.Context, in upstream.SocialInput) (*models.Social, error)
	UpdateSocial(ctx context.Context, id uint64, in upstream.SocialInput) (*models.Social, error)
	DeleteSocial(ctx context.Context, id uint64) error

	ListIcons(ctx context.Context) ([]models.Icon, error)
	GetIcon(ctx context.Context, id uint64) (*models.Icon, error)
	CreateIcon(ctx context.Context, name string, file upstream.FileInput) (*models.Icon, error)
	UpdateIcon(ctx context.Context, id uint64, name string, file *upstream.FileInput) (*models.Icon, error)
	DeleteIcon(ctx context.Context, id uint64) error

	ListMedia(ctx context.Context) ([]models.MediaRecord, error)
	GetMedia(ctx context.Context, id uint64) (*models.MediaRecord, error)
	UploadMedia(ctx context.Context, file upstream.FileInput, isVideo bool) (*models.MediaRecord, error)
	UpdateMedia(ctx context.Context, id uint64, in upstream.MediaUpdate) (*models.MediaRecord, error)
	DeleteMedia(ctx context.Context, id uint64) error

	ListAdmins(ctx context.Context) ([]models.Admin, error)
	GetAdmin(ctx context.Context, id uint64) (*models.Admin, error)
	CreateAdmin(ctx context.Context, in upstream.AdminInput) (*models.Admin, error)
	UpdateAdmin(ctx context.Context, id uint64, in upstream.AdminInput) (*models.Admin, error)
	ChangeAdminPassword(ctx context.Context, adminID uint64, oldPassword, newPassword string) error
	DeleteAdmin(ctx context.Context, id uint64) error

	ListVersions(ctx context.Context) ([]models.WebVersion, error)
}

// listCache is the slice of the cache repository the catalog uses.
type listCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CatalogService proxies the reference-data CRUD screens. List reads are
// cached in Redis and invalidated whenever the matching resource is written.
type CatalogService struct {
	client  catalogUpstream
	cache   listCache
	ttl     time.Duration
	logger  *zap.Logger
	metrics *MetricsService
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(client catalogUpstream, cache listCache, ttl time.Duration, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogService{client: client, cache: cache, ttl: ttl, logger: logger}
}

// SetMetrics attaches cache hit/miss instrumentation.
func (s *CatalogService) SetMetrics(m *MetricsService) {
	s.metrics = m
}

func catalogKey(resource string) string {
	return "catalog:" + resource
}

// cachedList serves a list from cache when possible, falling back to the
// fetch and storing the result. Cache failures only log.
func cachedList[T any](ctx context.Context, s *CatalogService, resource string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	key := catalogKey(resource)
	if s.cache != nil {
		var cached []T
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			s.metrics.RecordCacheOperation(true)
			return cached, nil
		}
		s.metrics.RecordCacheOperation(false)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.String("resource", resource), zap.Error(err))
		}
	}

	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
			s.logger.Warn("catalog cache write failed", zap.String("resource", resource), zap.Error(err))
		}
	}
	return items, nil
}

func (s *CatalogService) invalidate(ctx context.Context, resource string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, catalogKey(resource)+"*"); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.String("resource", resource), zap.Error(err))
	}
}

// Teachers lists the teacher catalog.
func (s *CatalogService) Teachers(ctx context.Context) ([]models.Teacher, error) {
	return cachedList(ctx, s, "teachers", s.client.ListTeachers)
}

// Teacher fetches one teacher.
func (s *CatalogService) Teacher(ctx context.Context, id uint64) (*models.Teacher, error) {
	return s.client.GetTeacher(ctx, id)
}

// CreateTeacher creates a teacher and drops the cached list.
func (s *CatalogService) CreateTeacher(ctx context.Context, in upstream.TeacherInput) (*models.Teacher, error) {
	t, err := s.client.CreateTeacher(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "teachers")
	return t, nil
}

// UpdateTeacher patches a teacher and drops the cached list.
func (s *CatalogService) UpdateTeacher(ctx context.Context, id uint64, in upstream.TeacherInput) (*models.Teacher, error) {
	t, err := s.client.UpdateTeacher(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "teachers")
	return t, nil
}

// DeleteTeacher removes a teacher and drops the cached list.
func (s *CatalogService) DeleteTeacher(ctx context.Context, id uint64) error {
	if err := s.client.DeleteTeacher(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "teachers")
	return nil
}

// Students lists the student catalog.
func (s *CatalogService) Students(ctx context.Context) ([]models.Student, error) {
	return cachedList(ctx, s, "students", s.client.ListStudents)
}

// Student fetches one student.
func (s *CatalogService) Student(ctx context.Context, id uint64) (*models.Student, error) {
	return s.client.GetStudent(ctx, id)
}

// CreateStudent creates a student and drops the cached list.
func (s *CatalogService) CreateStudent(ctx context.Context, in upstream.StudentInput) (*models.Student, error) {
	st, err := s.client.CreateStudent(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "students")
	return st, nil
}

// UpdateStudent patches a student and drops the cached list.
func (s *CatalogService) UpdateStudent(ctx context.Context, id uint64, in upstream.StudentInput) (*models.Student, error) {
	st, err := s.client.UpdateStudent(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "students")
	return st, nil
}

// DeleteStudent removes a student and drops the cached list.
func (s *CatalogService) DeleteStudent(ctx context.Context, id uint64) error {
	if err := s.client.DeleteStudent(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "students")
	return nil
}

// Phones lists contact phones.
func (s *CatalogService) Phones(ctx context.Context) ([]models.Phone, error) {
	return cachedList(ctx, s, "phones", s.client.ListPhones)
}

// CreatePhone creates a phone and drops the cached list.
func (s *CatalogService) CreatePhone(ctx context.Context, phone string) (*models.Phone, error) {
	p, err := s.client.CreatePhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "phones")
	return p, nil
}

// UpdatePhone patches a phone and drops the cached list.
func (s *CatalogService) UpdatePhone(ctx context.Context, id uint64, phone string) (*models.Phone, error) {
	p, err := s.client.UpdatePhone(ctx, id, phone)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "phones")
	return p, nil
}

// DeletePhone removes a phone and drops the cached list.
func (s *CatalogService) DeletePhone(ctx context.Context, id uint64) error {
	if err := s.client.DeletePhone(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "phones")
	return nil
}

// Socials lists social links.
func (s *CatalogService) Socials(ctx context.Context) ([]models.Social, error) {
	return cachedList(ctx, s, "socials", s.client.ListSocials)
}

// CreateSocial creates a social link and drops the cached list.
func (s *CatalogService) CreateSocial(ctx context.Context, in upstream.SocialInput) (*models.Social, error) {
	so, err := s.client.CreateSocial(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "socials")
	return so, nil
}

// UpdateSocial patches a social link and drops the cached list.
func (s *CatalogService) UpdateSocial(ctx context.Context, id uint64, in upstream.SocialInput) (*models.Social, error) {
	so, err := s.client.UpdateSocial(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "socials")
	return so, nil
}

// DeleteSocial removes a social link and drops the cached list.
func (s *CatalogService) DeleteSocial(ctx context.Context, id uint64) error {
	if err := s.client.DeleteSocial(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "socials")
	return nil
}

// Icons lists social icons.
func (s *CatalogService) Icons(ctx context.Context) ([]models.Icon, error) {
	return cachedList(ctx, s, "icons", s.client.ListIcons)
}

// Icon fetches one icon.
func (s *CatalogService) Icon(ctx context.Context, id uint64) (*models.Icon, error) {
	return s.client.GetIcon(ctx, id)
}

// CreateIcon uploads an icon and drops the cached list.
func (s *CatalogService) CreateIcon(ctx context.Context, name string, file upstream.FileInput) (*models.Icon, error) {
	ic, err := s.client.CreateIcon(ctx, name, file)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "icons")
	return ic, nil
}

// UpdateIcon patches an icon and drops the cached list.
func (s *CatalogService) UpdateIcon(ctx context.Context, id uint64, name string, file *upstream.FileInput) (*models.Icon, error) {
	ic, err := s.client.UpdateIcon(ctx, id, name, file)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "icons")
	return ic, nil
}

// DeleteIcon removes an icon and drops the cached list.
func (s *CatalogService) DeleteIcon(ctx context.Context, id uint64) error {
	if err := s.client.DeleteIcon(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "icons")
	return nil
}

// Media lists the media library.
func (s *CatalogService) Media(ctx context.Context) ([]models.MediaRecord, error) {
	return cachedList(ctx, s, "media", s.client.ListMedia)
}

// MediaByID fetches one media record.
func (s *CatalogService) MediaByID(ctx context.Context, id uint64) (*models.MediaRecord, error) {
	return s.client.GetMedia(ctx, id)
}

// UploadMedia stores a media asset and drops the cached list.
func (s *CatalogService) UploadMedia(ctx context.Context, file upstream.FileInput, isVideo bool) (*models.MediaRecord, error) {
	m, err := s.client.UploadMedia(ctx, file, isVideo)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "media")
	return m, nil
}

// UpdateMedia patches a media record and drops the cached list.
func (s *CatalogService) UpdateMedia(ctx context.Context, id uint64, in upstream.MediaUpdate) (*models.MediaRecord, error) {
	m, err := s.client.UpdateMedia(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "media")
	return m, nil
}

// DeleteMedia removes a media asset and drops the cached list.
func (s *CatalogService) DeleteMedia(ctx context.Context, id uint64) error {
	if err := s.client.DeleteMedia(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "media")
	return nil
}

// Admins lists admin accounts without caching.
func (s *CatalogService) Admins(ctx context.Context) ([]models.Admin, error) {
	return s.client.ListAdmins(ctx)
}

// Admin fetches one admin account.
func (s *CatalogService) Admin(ctx context.Context, id uint64) (*models.Admin, error) {
	return s.client.GetAdmin(ctx, id)
}

// CreateAdmin creates an admin account.
func (s *CatalogService) CreateAdmin(ctx context.Context, in upstream.AdminInput) (*models.Admin, error) {
	return s.client.CreateAdmin(ctx, in)
}

// UpdateAdmin patches an admin account.
func (s *CatalogService) UpdateAdmin(ctx context.Context, id uint64, in upstream.AdminInput) (*models.Admin, error) {
	return s.client.UpdateAdmin(ctx, id, in)
}

// ChangeAdminPassword rotates an admin's password.
func (s *CatalogService) ChangeAdminPassword(ctx context.Context, adminID uint64, oldPassword, newPassword string) error {
	return s.client.ChangeAdminPassword(ctx, adminID, oldPassword, newPassword)
}

// DeleteAdmin removes an admin account.
func (s *CatalogService) DeleteAdmin(ctx context.Context, id uint64) error {
	return s.client.DeleteAdmin(ctx, id)
}

// Versions lists web versions without caching so the active flag is fresh.
func (s *CatalogService) Versions(ctx context.Context) ([]models.WebVersion, error) {
	return s.client.ListVersions(ctx)
}
