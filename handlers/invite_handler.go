package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/galera-volei/galera-system/domain"
	"github.com/galera-volei/galera-system/middleware"
	"github.com/galera-volei/galera-system/services"
)

type InviteHandler struct {
	inviteService services.InviteService
}

func NewInviteHandler(inviteService services.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// ListReceived returns the caller's inbox, newest first.
func (h *InviteHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	invites, err := h.inviteService.ListReceived(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"invites": invites}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var input services.CreateInviteInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	invite, err := h.inviteService.Create(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, invite, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	inviteID, ok := h.inviteIDParam(w, r)
	if !ok {
		return
	}

	invite, err := h.inviteService.Accept(r.Context(), inviteID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, invite, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InviteHandler) Decline(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	inviteID, ok := h.inviteIDParam(w, r)
	if !ok {
		return
	}

	invite, err := h.inviteService.Decline(r.Context(), inviteID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, invite, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Candidates lists users the match organizer can still invite.
func (h *InviteHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	matchID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || matchID <= 0 {
		notFoundResponse(w, r)
		return
	}

	users, err := h.inviteService.Candidates(r.Context(), matchID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"candidates": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InviteHandler) inviteIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	inviteID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || inviteID <= 0 {
		notFoundResponse(w, r)
		return 0, false
	}
	return inviteID, true
}

func (h *InviteHandler) currentUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, domain.CodeUnauthenticated, err.Error())
		return 0, false
	}
	return userID, true
}
