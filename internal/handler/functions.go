package handler

import (
	"net/http"

	"github.com/nextgig/job-board/internal/email"
	"github.com/nextgig/job-board/internal/server"
)

// SendEmailFunctionHandler relays {to, subject, html} over SMTP. It is
// the endpoint email.Client talks to.
func SendEmailFunctionHandler(svr server.Server, sender email.Sender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg email.Message
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		if err := decodeJSON(r, &msg); err != nil {
			svr.JSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg.To == "" {
			svr.JSONError(w, http.StatusBadRequest, "to is required")
			return
		}
		logger := svr.Logger()
		logger.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("sending email")
		if err := sender.Send(r.Context(), msg); err != nil {
			svr.Log(err, "unable to send email")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
