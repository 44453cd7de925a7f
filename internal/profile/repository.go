package profile

import (
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("profile not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

var columnList = []string{
	"id",
	"email",
	"full_name",
	"role",
	"company_name",
	"location",
	"bio",
	"avatar_url",
	"logo_url",
	"resume_url",
	"website",
	"created_at",
	"updated_at",
}

var profileColumns = Columns("")

// Columns lists the profile columns in scan order, qualified with alias
// when one is given.
func Columns(alias string) string {
	if alias == "" {
		return strings.Join(columnList, ", ")
	}
	qualified := make([]string, len(columnList))
	for i, c := range columnList {
		qualified[i] = alias + "." + c
	}
	return strings.Join(qualified, ", ")
}

// ScanTargets returns scan destinations matching Columns for p. Call the
// returned func after a successful Scan.
func ScanTargets(p *Profile) ([]interface{}, func()) {
	var role string
	var companyName, location, bio, avatarURL, logoURL, resumeURL, website sql.NullString
	dest := []interface{}{
		&p.ID,
		&p.Email,
		&p.FullName,
		&role,
		&companyName,
		&location,
		&bio,
		&avatarURL,
		&logoURL,
		&resumeURL,
		&website,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	return dest, func() {
		p.Role = Role(role)
		p.CompanyName = companyName.String
		p.Location = location.String
		p.Bio = bio.String
		p.AvatarURL = avatarURL.String
		p.LogoURL = logoURL.String
		p.ResumeURL = resumeURL.String
		p.Website = website.String
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row scanner) (Profile, error) {
	var p Profile
	dest, finish := ScanTargets(&p)
	if err := row.Scan(dest...); err != nil {
		return p, err
	}
	finish()
	return p, nil
}

func (r *Repository) ProfileByID(id string) (Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	if err != nil {
		return p, errors.Wrapf(err, "select profile %s", id)
	}
	return p, nil
}

func (r *Repository) UpdateProfile(id string, rq UpdateRq) (Profile, error) {
	row := r.db.QueryRow(
		`UPDATE profiles SET
			full_name = $1,
			company_name = NULLIF($2, ''),
			location = NULLIF($3, ''),
			bio = NULLIF($4, ''),
			website = NULLIF($5, ''),
			resume_url = NULLIF($6, ''),
			updated_at = $7
		WHERE id = $8
		RETURNING `+profileColumns,
		rq.FullName,
		rq.CompanyName,
		rq.Location,
		rq.Bio,
		rq.Website,
		rq.ResumeURL,
		time.Now().UTC(),
		id,
	)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	if err != nil {
		return p, errors.Wrapf(err, "update profile %s", id)
	}
	return p, nil
}

func (r *Repository) UpdateAvatarURL(id, url string) error {
	return r.updateURL("avatar_url", id, url)
}

func (r *Repository) UpdateLogoURL(id, url string) error {
	return r.updateURL("logo_url", id, url)
}

func (r *Repository) UpdateResumeURL(id, url string) error {
	return r.updateURL("resume_url", id, url)
}

// updateURL is only called with the column names above, never with
// user input.
func (r *Repository) updateURL(column, id, url string) error {
	res, err := r.db.Exec(`UPDATE profiles SET `+column+` = $1, updated_at = $2 WHERE id = $3`, url, time.Now().UTC(), id)
	if err != nil {
		return errors.Wrapf(err, "update profile %s %s", id, column)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
