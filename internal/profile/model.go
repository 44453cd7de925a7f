package profile

import "time"

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
)

func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleEmployer
}

type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Role        Role      `json:"role"`
	CompanyName string    `json:"company_name,omitempty"`
	Location    string    `json:"location,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	ResumeURL   string    `json:"resume_url,omitempty"`
	Website     string    `json:"website,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p Profile) IsEmployer() bool {
	return p.Role == RoleEmployer
}

func (p Profile) IsCandidate() bool {
	return p.Role == RoleCandidate
}

// DisplayName falls back to a generic greeting when the profile has no name.
func (p Profile) DisplayName() string {
	if p.FullName == "" {
		return "Candidate"
	}
	return p.FullName
}

// UpdateRq holds the editable profile fields. Email and role are fixed at
// sign up.
type UpdateRq struct {
	FullName    string `json:"full_name" validate:"required,max=255"`
	CompanyName string `json:"company_name" validate:"max=255"`
	Location    string `json:"location" validate:"max=255"`
	Bio         string `json:"bio" validate:"max=5000"`
	Website     string `json:"website" validate:"omitempty,url,max=1024"`
	ResumeURL   string `json:"resume_url" validate:"omitempty,url,max=1024"`
}
