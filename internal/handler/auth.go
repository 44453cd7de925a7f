package handler

import (
	"net/http"

	"github.com/nextgig/job-board/internal/middleware"
	"github.com/nextgig/job-board/internal/profile"
	"github.com/nextgig/job-board/internal/server"
	"github.com/nextgig/job-board/internal/user"
)

func LoginPageHandler(svr server.Server) http.HandlerFunc {
	return authPageHandler(svr, "login.html")
}

func RegisterPageHandler(svr server.Server) http.HandlerFunc {
	return authPageHandler(svr, "register.html")
}

// authPageHandler sends signed in users to their dashboard instead of
// showing the form again.
func authPageHandler(svr server.Server, view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err == nil {
			svr.Redirect(w, r, http.StatusFound, dashboardPath(claims.Role))
			return
		}
		svr.Render(w, http.StatusOK, view, map[string]interface{}{
			"Roles": []profile.Role{profile.RoleCandidate, profile.RoleEmployer},
			"Role":  r.URL.Query().Get("role"),
		})
	}
}

func RegisterHandler(svr server.Server, userRepo userRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rq user.SignUpRq
		if !decodeAndValidate(svr, w, r, &rq) {
			return
		}
		p, err := userRepo.SignUp(rq)
		if err == user.ErrEmailTaken {
			svr.JSONError(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		if err != nil {
			svr.Log(err, "unable to sign up user")
			svr.JSONError(w, http.StatusInternalServerError, "unable to create account")
			return
		}
		if err := middleware.SetUserSession(w, r, svr.SessionStore, svr.GetJWTSigningKey(), p); err != nil {
			svr.Log(err, "unable to save session after sign up")
			svr.JSONError(w, http.StatusInternalServerError, "account created, please sign in")
			return
		}
		svr.JSON(w, http.StatusCreated, map[string]interface{}{
			"profile":  p,
			"redirect": dashboardPath(p.Role),
		})
	}
}

func LoginHandler(svr server.Server, userRepo userRepository, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rq user.SignInRq
		if !decodeAndValidate(svr, w, r, &rq) {
			return
		}
		u, err := userRepo.Authenticate(rq.Email, rq.Password)
		if err == user.ErrInvalidCredentials {
			svr.JSONError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		if err != nil {
			svr.Log(err, "unable to authenticate user")
			svr.JSONError(w, http.StatusInternalServerError, "unable to sign in")
			return
		}
		p, err := profileRepo.ProfileByID(u.ID)
		if err != nil {
			svr.Log(err, "unable to load profile on sign in")
			svr.JSONError(w, http.StatusInternalServerError, "unable to sign in")
			return
		}
		if err := middleware.SetUserSession(w, r, svr.SessionStore, svr.GetJWTSigningKey(), p); err != nil {
			svr.Log(err, "unable to save session")
			svr.JSONError(w, http.StatusInternalServerError, "unable to sign in")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"profile":  p,
			"redirect": dashboardPath(p.Role),
		})
	}
}

func LogoutHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := middleware.ClearUserSession(w, r, svr.SessionStore); err != nil {
			svr.Log(err, "unable to clear session")
		}
		svr.JSON(w, http.StatusOK, map[string]string{"redirect": "/"})
	}
}
