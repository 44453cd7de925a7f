package handler

import (
	"net/http"

	"github.com/nextgig/job-board/internal/realtime"
	"github.com/nextgig/job-board/internal/server"
)

func RealtimeHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(svr.Hub(), w, r, svr.Logger())
	}
}
