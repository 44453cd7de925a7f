package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gorilla/sessions"
	"github.com/nextgig/job-board/internal/profile"
)

const (
	SessionName = "__ng"
	TokenTTL    = 30 * 24 * time.Hour
	LoginPath   = "/auth/login"
)

type UserJWT struct {
	UserID string       `json:"user_id"`
	Email  string       `json:"email"`
	Role   profile.Role `json:"role"`
	jwt.StandardClaims
}

func (u UserJWT) IsEmployer() bool  { return u.Role == profile.RoleEmployer }
func (u UserJWT) IsCandidate() bool { return u.Role == profile.RoleCandidate }

// SignUserJWT issues an HS256 token for the profile.
func SignUserJWT(p profile.Profile, jwtKey []byte, now time.Time) (string, error) {
	claims := UserJWT{
		UserID: p.ID,
		Email:  p.Email,
		Role:   p.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(TokenTTL).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtKey)
}

// SetUserSession signs the profile in on this browser.
func SetUserSession(w http.ResponseWriter, r *http.Request, store sessions.Store, jwtKey []byte, p profile.Profile) error {
	tk, err := SignUserJWT(p, jwtKey, time.Now())
	if err != nil {
		return err
	}
	sess, err := store.Get(r, SessionName)
	if err != nil {
		// a stale cookie signed with an old key still yields a usable new session
		sess, err = store.New(r, SessionName)
		if sess == nil {
			return err
		}
	}
	sess.Values["jwt"] = tk
	sess.Options.HttpOnly = true
	sess.Options.SameSite = http.SameSiteLaxMode
	sess.Options.MaxAge = int(TokenTTL.Seconds())
	return sess.Save(r, w)
}

func ClearUserSession(w http.ResponseWriter, r *http.Request, store sessions.Store) error {
	sess, err := store.Get(r, SessionName)
	if err != nil && sess == nil {
		return err
	}
	delete(sess.Values, "jwt")
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

func GetUserFromJWT(r *http.Request, store sessions.Store, jwtKey []byte) (*UserJWT, error) {
	sess, err := store.Get(r, SessionName)
	if err != nil {
		return nil, errors.New("could not find cookie")
	}
	tk, ok := sess.Values["jwt"].(string)
	if !ok {
		return nil, errors.New("could not find jwt in session")
	}
	token, err := jwt.ParseWithClaims(tk, &UserJWT{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("token is invalid or expired")
	}
	claims, ok := token.Claims.(*UserJWT)
	if !ok || claims.UserID == "" {
		return nil, errors.New("could not convert jwt claims to UserJWT")
	}
	return claims, nil
}

func IsSignedOn(r *http.Request, store sessions.Store, jwtKey []byte) bool {
	_, err := GetUserFromJWT(r, store, jwtKey)
	return err == nil
}

// RoleAuthenticatedMiddleware gates a page on a signed-in user with the
// given role, or any signed-in user when role is empty. Everyone else is
// sent to the login page.
func RoleAuthenticatedMiddleware(store sessions.Store, jwtKey []byte, role profile.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := GetUserFromJWT(r, store, jwtKey)
		if err != nil || (role != "" && claims.Role != role) {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next(w, r)
	}
}

// JSONAuthenticatedMiddleware is RoleAuthenticatedMiddleware for actions:
// 401 when signed out, 403 on the wrong role.
func JSONAuthenticatedMiddleware(store sessions.Store, jwtKey []byte, role profile.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := GetUserFromJWT(r, store, jwtKey)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		if role != "" && claims.Role != role {
			writeJSONError(w, http.StatusForbidden, "only "+string(role)+"s can do this")
			return
		}
		next(w, r)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
