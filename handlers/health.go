package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"partyinvite/models"
	"partyinvite/sl"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Status struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Health reports whether the service and its store are reachable.
func Health(store Pinger, log *slog.Logger) http.HandlerFunc {
	log = log.With(sl.Module("handlers.health"))
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			fail(w, r, log, &models.Error{Kind: models.KindInternal, Message: "store unreachable", Err: err})
			return
		}
		ok(w, r, http.StatusOK, "service is running", Status{Status: "OK", Store: "OK"})
	}
}
