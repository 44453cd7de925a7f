package handler

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/nextgig/job-board/internal/media"
	"github.com/nextgig/job-board/internal/middleware"
	"github.com/nextgig/job-board/internal/profile"
	"github.com/nextgig/job-board/internal/server"
	"github.com/nextgig/job-board/internal/storage"
	"github.com/pkg/errors"
)

func ProfilePageHandler(svr server.Server, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := currentProfile(svr, profileRepo, r)
		if p == nil {
			svr.Redirect(w, r, http.StatusFound, middleware.LoginPath)
			return
		}
		svr.Render(w, http.StatusOK, "profile.html", map[string]interface{}{
			"Profile": p,
		})
	}
}

func UpdateProfileHandler(svr server.Server, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		var rq profile.UpdateRq
		if !decodeAndValidate(svr, w, r, &rq) {
			return
		}
		rq.Bio = strings.TrimSpace(plainText.Sanitize(rq.Bio))
		p, err := profileRepo.UpdateProfile(claims.UserID, rq)
		if err == profile.ErrNotFound {
			svr.JSONError(w, http.StatusNotFound, "profile not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to update profile")
			svr.JSONError(w, http.StatusInternalServerError, "unable to update profile")
			return
		}
		svr.JSON(w, http.StatusOK, p)
	}
}

// readUpload reads the multipart "file" field, capped at media.MaxUploadBytes.
func readUpload(svr server.Server, w http.ResponseWriter, r *http.Request) ([]byte, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		svr.Log(err, "unable to read upload")
		svr.JSONError(w, http.StatusRequestEntityTooLarge, "file is missing or larger than 5MB")
		return nil, nil, false
	}
	defer file.Close()
	fileBytes, err := ioutil.ReadAll(file)
	if err != nil {
		svr.Log(err, "unable to read upload content")
		svr.JSONError(w, http.StatusRequestEntityTooLarge, "file is missing or larger than 5MB")
		return nil, nil, false
	}
	if header.Size > media.MaxUploadBytes {
		svr.JSONError(w, http.StatusRequestEntityTooLarge, "file is larger than 5MB")
		return nil, nil, false
	}
	return fileBytes, header, true
}

type imageUpload struct {
	path      func(profileID, ext string, t time.Time) string
	saveURL   func(profileRepo profileRepository, id, url string) error
	onlyRoles []profile.Role
}

var (
	avatarUpload = imageUpload{
		path: storage.AvatarPath,
		saveURL: func(profileRepo profileRepository, id, url string) error {
			return profileRepo.UpdateAvatarURL(id, url)
		},
	}
	logoUpload = imageUpload{
		path: storage.LogoPath,
		saveURL: func(profileRepo profileRepository, id, url string) error {
			return profileRepo.UpdateLogoURL(id, url)
		},
		onlyRoles: []profile.Role{profile.RoleEmployer},
	}
)

func UploadAvatarHandler(svr server.Server, profileRepo profileRepository) http.HandlerFunc {
	return imageUploadHandler(svr, profileRepo, avatarUpload)
}

func UploadLogoHandler(svr server.Server, profileRepo profileRepository) http.HandlerFunc {
	return imageUploadHandler(svr, profileRepo, logoUpload)
}

func imageUploadHandler(svr server.Server, profileRepo profileRepository, u imageUpload) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		if len(u.onlyRoles) > 0 && !hasRole(claims.Role, u.onlyRoles) {
			svr.JSONError(w, http.StatusForbidden, "only employers can upload a company logo")
			return
		}
		fileBytes, _, ok := readUpload(svr, w, r)
		if !ok {
			return
		}
		img, err := media.NormaliseImage(fileBytes)
		if errors.Cause(err) == media.ErrUnsupportedType {
			svr.JSONError(w, http.StatusUnsupportedMediaType, "only PNG and JPEG images are supported")
			return
		}
		if err != nil {
			svr.Log(err, "unable to process image upload")
			svr.JSONError(w, http.StatusBadRequest, "unable to read image")
			return
		}
		path := u.path(claims.UserID, img.Ext, time.Now())
		if err := svr.Storage().Save(r.Context(), path, bytes.NewReader(img.Bytes), img.ContentType); err != nil {
			svr.Log(err, fmt.Sprintf("unable to store image %s", path))
			svr.JSONError(w, http.StatusInternalServerError, "unable to store image")
			return
		}
		url := svr.Storage().URL(path)
		if err := u.saveURL(profileRepo, claims.UserID, url); err != nil {
			svr.Log(err, "unable to save image url on profile")
			svr.JSONError(w, http.StatusInternalServerError, "unable to update profile")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"url": url})
	}
}

func UploadResumeHandler(svr server.Server, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		if !claims.IsCandidate() {
			svr.JSONError(w, http.StatusForbidden, "only candidates can upload a resume")
			return
		}
		fileBytes, header, ok := readUpload(svr, w, r)
		if !ok {
			return
		}
		ext := storage.ExtFromFilename(header.Filename)
		contentType, err := media.DocumentContentType(fileBytes, ext)
		if err != nil {
			svr.JSONError(w, http.StatusUnsupportedMediaType, "resume must be a PDF, DOC or DOCX file")
			return
		}
		path := storage.ResumePath(claims.UserID, ext, time.Now())
		if err := svr.Storage().Save(r.Context(), path, bytes.NewReader(fileBytes), contentType); err != nil {
			svr.Log(err, fmt.Sprintf("unable to store resume %s", path))
			svr.JSONError(w, http.StatusInternalServerError, "unable to store resume")
			return
		}
		url := svr.Storage().URL(path)
		if err := profileRepo.UpdateResumeURL(claims.UserID, url); err != nil {
			svr.Log(err, "unable to save resume url on profile")
		}
		svr.JSON(w, http.StatusOK, map[string]string{"url": url})
	}
}

func hasRole(role profile.Role, roles []profile.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
