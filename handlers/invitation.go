package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"partyinvite/config"
	"partyinvite/database"
	"partyinvite/middleware"
	"partyinvite/models"
	"partyinvite/sl"
	"partyinvite/validate"
)

type CreateInvitationRequest struct {
	FamilyName string `json:"family_name" validate:"required"`
	PartySize  int    `json:"party_size" validate:"gte=1"`
}

func (req *CreateInvitationRequest) Bind(_ *http.Request) error {
	req.FamilyName = strings.TrimSpace(req.FamilyName)
	return validate.Struct(req)
}

type InvitationList struct {
	Total       int                 `json:"total"`
	Invitations []models.Invitation `json:"invitations"`
}

type InvitationHandler struct {
	store    database.InvitationStore
	linkBase string
	log      *slog.Logger
	now      func() time.Time
}

func NewInvitationHandler(cfg *config.Config, store database.InvitationStore, log *slog.Logger) *InvitationHandler {
	return &InvitationHandler{
		store:    store,
		linkBase: strings.TrimRight(cfg.Invitations.PublicLinkBase, "/"),
		log:      log.With(sl.Module("handlers.invitation")),
		now:      time.Now,
	}
}

func (h *InvitationHandler) withLink(inv *models.Invitation) *models.Invitation {
	if h.linkBase != "" {
		inv.Link = h.linkBase + "/" + inv.ID
	}
	return inv
}

func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInvitationRequest
	if err := render.Bind(r, &req); err != nil {
		fail(w, r, h.log, models.AsValidation(err))
		return
	}

	inv, err := models.NewInvitation(req.FamilyName, req.PartySize)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	if err := h.store.CreateInvitation(r.Context(), inv); err != nil {
		fail(w, r, h.log, err)
		return
	}

	attrs := []any{slog.String("invitation_id", inv.ID)}
	if admin := middleware.GetIdentityFromContext(r.Context()); admin != nil {
		attrs = append(attrs, slog.String("admin_id", admin.ID))
	}
	h.log.Info("invitation created", attrs...)

	ok(w, r, http.StatusCreated, "invitation created", h.withLink(inv))
}

func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.store.ListInvitations(r.Context())
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	for i := range invitations {
		h.withLink(&invitations[i])
	}

	message := "invitations"
	if len(invitations) == 0 {
		message = "no invitations yet"
	}
	ok(w, r, http.StatusOK, message, InvitationList{Total: len(invitations), Invitations: invitations})
}

func (h *InvitationHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.store.GetInvitation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	ok(w, r, http.StatusOK, "invitation", h.withLink(inv))
}

func (h *InvitationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	inv, err := h.store.DeleteInvitation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	attrs := []any{slog.String("invitation_id", inv.ID), slog.Bool("confirmed", inv.Confirmed)}
	if admin := middleware.GetIdentityFromContext(r.Context()); admin != nil {
		attrs = append(attrs, slog.String("admin_id", admin.ID))
	}
	h.log.Info("invitation deleted", attrs...)

	ok(w, r, http.StatusOK, "invitation deleted", h.withLink(inv))
}

// PublicGet serves the guest view. Holding the id is the only credential.
func (h *InvitationHandler) PublicGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.store.GetInvitation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	ok(w, r, http.StatusOK, "invitation found", inv)
}

// Confirm runs the single-fire confirmation for the guest holding the id.
func (h *InvitationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	inv, err := h.store.ConfirmInvitation(r.Context(), chi.URLParam(r, "id"), h.now())
	if err != nil {
		fail(w, r, h.log, err)
		return
	}

	h.log.Info("invitation confirmed",
		slog.String("invitation_id", inv.ID),
		slog.Int("party_size", inv.PartySize),
	)
	ok(w, r, http.StatusOK, "attendance confirmed", inv)
}
