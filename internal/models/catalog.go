package models

// Teacher is a staff record from the content API.
type Teacher struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Role    string `json:"role,omitempty"`
	Image   string `json:"image,omitempty"`
}

// DisplayName joins name and surname the way the public site renders it.
func (t Teacher) DisplayName() string {
	if t.Surname == "" {
		return t.Name
	}
	return t.Name + " " + t.Surname
}

// Student is a showcased-student record from the content API.
type Student struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Course  string `json:"course,omitempty"`
	CEFR    string `json:"cefr,omitempty"`
	Image   string `json:"image,omitempty"`
}

// DisplayName joins name and surname.
func (s Student) DisplayName() string {
	if s.Surname == "" {
		return s.Name
	}
	return s.Name + " " + s.Surname
}

// CourseLabel prefers the course name and falls back to the CEFR level.
func (s Student) CourseLabel() string {
	if s.Course != "" {
		return s.Course
	}
	return s.CEFR
}

// MediaRecord is a library asset row from the content API.
type MediaRecord struct {
	ID      uint64   `json:"id"`
	Name    string   `json:"name,omitempty"`
	IsVideo FlexBool `json:"is_video"`
	URL     string   `json:"url"`
}

// Phone is a contact phone number.
type Phone struct {
	ID    uint64 `json:"id"`
	Phone string `json:"phone"`
}

// SocialIcon is the nested icon object some social rows carry.
type SocialIcon struct {
	ID  uint64 `json:"id,omitempty"`
	URL string `json:"url,omitempty"`
}

// Social is a social-network link.
type Social struct {
	ID      uint64      `json:"id"`
	Name    string      `json:"name"`
	URL     string      `json:"url"`
	Icon    *SocialIcon `json:"icon,omitempty"`
	IconURL string      `json:"icon_url,omitempty"`
}

// IconRef returns the usable icon URL regardless of which field upstream set.
func (s Social) IconRef() string {
	if s.Icon != nil && s.Icon.URL != "" {
		return s.Icon.URL
	}
	return s.IconURL
}

// Icon is a reusable icon asset.
type Icon struct {
	ID   uint64 `json:"id"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url"`
}

// Admin is a staff account managed through the dashboard.
type Admin struct {
	ID       uint64 `json:"id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Surname  string `json:"surname,omitempty"`
	Image    string `json:"image,omitempty"`
}
