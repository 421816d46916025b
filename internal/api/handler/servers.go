package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/dombot/internal/api/request"
	"github.com/mcoot/dombot/internal/api/response"
	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/nations"
	"github.com/mcoot/dombot/internal/services/servers"
)

// ServerHandler handles game server endpoints
type ServerHandler struct {
	servers *servers.Service
	catalog *nations.Catalog
}

// NewServerHandler creates a new server handler
func NewServerHandler(servers *servers.Service, catalog *nations.Catalog) *ServerHandler {
	return &ServerHandler{
		servers: servers,
		catalog: catalog,
	}
}

// List handles GET /api/v1/servers
func (h *ServerHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.servers.ListServers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ServerListFromModel(list))
}

// Get handles GET /api/v1/servers/{alias}
func (h *ServerHandler) Get(w http.ResponseWriter, r *http.Request) {
	alias := model.ServerAlias(mux.Vars(r)["alias"])

	details, err := h.servers.Details(r.Context(), alias)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ServerDetailsFromModel(details, h.catalog))
}

// Add handles POST /api/v1/servers
func (h *ServerHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req request.AddServerRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	server, err := h.servers.AddServer(r.Context(), model.ServerAlias(req.Alias), req.Address)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ServerFromModel(server))
}

// CreateLobby handles POST /api/v1/lobbies
func (h *ServerHandler) CreateLobby(w http.ResponseWriter, r *http.Request) {
	var req request.CreateLobbyRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	owner, err := parseUserID("owner_id", req.OwnerID)
	if err != nil {
		WriteError(w, err)
		return
	}
	era, err := model.ParseEra(req.Era)
	if err != nil {
		WriteError(w, err)
		return
	}

	server, err := h.servers.CreateLobby(r.Context(), model.ServerAlias(req.Alias), owner, era, req.PlayerCount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ServerFromModel(server))
}

// Start handles POST /api/v1/servers/{alias}/start
func (h *ServerHandler) Start(w http.ResponseWriter, r *http.Request) {
	alias := model.ServerAlias(mux.Vars(r)["alias"])

	var req request.StartServerRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	server, err := h.servers.StartLobby(r.Context(), alias, req.Address)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ServerFromModel(server))
}
