package models

// WebTeacherLink ties a teacher into a version at a 1-based order.
type WebTeacherLink struct {
	Order     int      `json:"order"`
	TeacherID uint64   `json:"teacher_id"`
	Teacher   *Teacher `json:"teacher,omitempty"`
}

// WebStudentLink ties a student into a version at a 1-based order.
type WebStudentLink struct {
	Order     int      `json:"order"`
	StudentID uint64   `json:"student_id"`
	Student   *Student `json:"student,omitempty"`
}

// WebMediaLink ties a media asset into a gallery slot.
type WebMediaLink struct {
	Order   int          `json:"order"`
	Size    string       `json:"size,omitempty"`
	MediaID uint64       `json:"media_id"`
	Media   *MediaRecord `json:"media,omitempty"`
}

// WebPhoneLink selects a phone for a version.
type WebPhoneLink struct {
	PhoneID uint64 `json:"phone_id"`
}

// WebSocialLink selects a social link for a version.
type WebSocialLink struct {
	SocialID uint64 `json:"social_id"`
}

// VersionFields carries the scalar site copy of a web version.
// Text fields come in Uzbek/English pairs.
type VersionFields struct {
	HeaderImg      string `json:"header_img,omitempty"`
	HeaderH1Uz     string `json:"header_h1_uz,omitempty"`
	HeaderH1En     string `json:"header_h1_en,omitempty"`
	AboutP1Uz      string `json:"about_p1_uz,omitempty"`
	AboutP1En      string `json:"about_p1_en,omitempty"`
	AboutP2Uz      string `json:"about_p2_uz,omitempty"`
	AboutP2En      string `json:"about_p2_en,omitempty"`
	GalleryPUz     string `json:"gallery_p_uz,omitempty"`
	GalleryPEn     string `json:"gallery_p_en,omitempty"`
	TeachersPUz    string `json:"teachers_p_uz,omitempty"`
	TeachersPEn    string `json:"teachers_p_en,omitempty"`
	StudentsPUz    string `json:"students_p_uz,omitempty"`
	StudentsPEn    string `json:"students_p_en,omitempty"`
	AddressUz      string `json:"address_uz,omitempty"`
	AddressEn      string `json:"address_en,omitempty"`
	OrientationUz  string `json:"orientation_uz,omitempty"`
	OrientationEn  string `json:"orientation_en,omitempty"`
	WorkTime       string `json:"work_time,omitempty"`
	WorkTimeSunday string `json:"work_time_sunday,omitempty"`
	Email          string `json:"email,omitempty"`
	TotalStudents  int    `json:"total_students,omitempty"`
	BestStudents   int    `json:"best_students,omitempty"`
	TotalTeachers  int    `json:"total_teachers,omitempty"`
}

// WebVersion is one publishable configuration of the public site.
type WebVersion struct {
	ID       uint64   `json:"id"`
	IsActive FlexBool `json:"is_active"`
	VersionFields

	MainPhoneID uint64           `json:"main_phone_id,omitempty"`
	MainPhone   *Phone           `json:"main_phone,omitempty"`
	WebPhones   []WebPhoneLink   `json:"web_phones,omitempty"`
	WebSocials  []WebSocialLink  `json:"web_socials,omitempty"`
	WebTeachers []WebTeacherLink `json:"web_teachers,omitempty"`
	WebStudents []WebStudentLink `json:"web_students,omitempty"`
	WebMedia    []WebMediaLink   `json:"web_media,omitempty"`
}
