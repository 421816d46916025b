package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/dombot/internal/api/apierr"
	"github.com/mcoot/dombot/internal/api/request"
	"github.com/mcoot/dombot/internal/api/response"
	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/services/registration"
)

// RegistrationHandler handles nation claims
type RegistrationHandler struct {
	registration *registration.Service
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registration *registration.Service) *RegistrationHandler {
	return &RegistrationHandler{registration: registration}
}

// Register handles POST /api/v1/servers/{alias}/registrations
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	alias := model.ServerAlias(mux.Vars(r)["alias"])

	var req request.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	userID, err := parseUserID("user_id", req.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	query := strings.TrimSpace(req.Nation)
	if query == "" {
		WriteError(w, apierr.NewInvalidRequestError("nation is required"))
		return
	}

	reg, err := h.registration.Register(r.Context(), userID, query, alias)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RegistrationFromModel(reg))
}
