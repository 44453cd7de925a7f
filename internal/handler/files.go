package handler

import (
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/gorilla/mux"
	"github.com/nextgig/job-board/internal/server"
)

// FilesHandler serves uploads kept by the local storage backend.
func FilesHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := mux.Vars(r)["path"]
		exists, err := svr.Storage().Exists(r.Context(), filePath)
		if err != nil {
			svr.Log(err, "unable to stat stored file")
			svr.TEXT(w, http.StatusInternalServerError, "unable to read file")
			return
		}
		if !exists {
			svr.TEXT(w, http.StatusNotFound, "file not found")
			return
		}
		rc, err := svr.Storage().Get(r.Context(), filePath)
		if err != nil {
			svr.Log(err, "unable to open stored file")
			svr.TEXT(w, http.StatusInternalServerError, "unable to read file")
			return
		}
		defer rc.Close()
		contentType := mime.TypeByExtension(path.Ext(filePath))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "max-age=3600")
		w.WriteHeader(http.StatusOK)
		io.Copy(w, rc)
	}
}
