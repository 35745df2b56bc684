package handlers

import (
	"net/http"

	"github.com/go-chi/render"

	"partyinvite/models"
	"partyinvite/response"
)

func NotFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, response.Fail(&models.Error{Kind: models.KindNotFound, Message: "requested resource not found"}))
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Fail(&models.Error{Kind: models.KindValidation, Message: "method not allowed"}))
}
