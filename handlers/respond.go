package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"partyinvite/models"
	"partyinvite/response"
	"partyinvite/sl"
)

func statusFor(kind models.Kind) int {
	switch kind {
	case models.KindValidation, models.KindAlreadyConfirmed, models.KindClosed, models.KindConflict:
		return http.StatusBadRequest
	case models.KindUnauthorized, models.KindInvalidCredentials:
		return http.StatusUnauthorized
	case models.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status := statusFor(models.KindOf(err))
	if status == http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Debug("request rejected", sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, response.Fail(err))
}

func ok(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, response.Ok(message, data))
}
