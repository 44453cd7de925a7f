package user

import (
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/nextgig/job-board/internal/profile"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

// SignUp creates the credentials row and the matching profile in one
// transaction. Both rows share the same id.
func (r *Repository) SignUp(rq SignUpRq) (profile.Profile, error) {
	hash, err := HashPassword(rq.Password)
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "hash password")
	}
	userID, err := ksuid.NewRandom()
	if err != nil {
		return profile.Profile{}, err
	}
	now := time.Now().UTC()
	p := profile.Profile{
		ID:          userID.String(),
		Email:       strings.ToLower(strings.TrimSpace(rq.Email)),
		FullName:    strings.TrimSpace(rq.FullName),
		Role:        rq.Role,
		CompanyName: strings.TrimSpace(rq.CompanyName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tx, err := r.db.Begin()
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "begin sign up")
	}
	if _, err := tx.Exec(
		`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		p.ID,
		p.Email,
		hash,
		now,
	); err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return profile.Profile{}, ErrEmailTaken
		}
		return profile.Profile{}, errors.Wrap(err, "insert user")
	}
	if _, err := tx.Exec(
		`INSERT INTO profiles (id, email, full_name, role, company_name, created_at, updated_at) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)`,
		p.ID,
		p.Email,
		p.FullName,
		string(p.Role),
		p.CompanyName,
		now,
		now,
	); err != nil {
		tx.Rollback()
		return profile.Profile{}, errors.Wrap(err, "insert profile")
	}
	if err := tx.Commit(); err != nil {
		return profile.Profile{}, errors.Wrap(err, "commit sign up")
	}
	return p, nil
}

// Authenticate returns ErrInvalidCredentials both for unknown emails and
// for wrong passwords.
func (r *Repository) Authenticate(email, password string) (User, error) {
	u, err := r.UserByEmail(email)
	if err == sql.ErrNoRows {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if !CheckPasswordHash(password, u.PasswordHash) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (r *Repository) UserByEmail(email string) (User, error) {
	u := User{}
	row := r.db.QueryRow(`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return u, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}
