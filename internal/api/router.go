package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/dombot/internal/api/handler"
	apimiddleware "github.com/mcoot/dombot/internal/api/middleware"
	"github.com/mcoot/dombot/internal/api/response"
	"github.com/mcoot/dombot/internal/command"
	"github.com/mcoot/dombot/internal/middleware"
	"github.com/mcoot/dombot/internal/nations"
	"github.com/mcoot/dombot/internal/services/registration"
	"github.com/mcoot/dombot/internal/services/servers"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger              *slog.Logger
	ServersService      *servers.Service
	RegistrationService *registration.Service
	CommandAdapter      *command.Adapter
	Catalog             *nations.Catalog
	// APIToken protects every route except health when non-empty
	APIToken string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	serverHandler := handler.NewServerHandler(cfg.ServersService, cfg.Catalog)
	registrationHandler := handler.NewRegistrationHandler(cfg.RegistrationService)
	commandHandler := handler.NewCommandHandler(cfg.CommandAdapter)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID())
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(apimiddleware.Recovery(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	if cfg.APIToken != "" {
		protected.Use(apimiddleware.BearerToken(cfg.APIToken))
	}

	protected.HandleFunc("/servers", serverHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/servers", serverHandler.Add).Methods(http.MethodPost)
	protected.HandleFunc("/lobbies", serverHandler.CreateLobby).Methods(http.MethodPost)
	protected.HandleFunc("/servers/{alias}", serverHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/servers/{alias}/start", serverHandler.Start).Methods(http.MethodPost)
	protected.HandleFunc("/servers/{alias}/registrations", registrationHandler.Register).Methods(http.MethodPost)
	protected.HandleFunc("/commands", commandHandler.Handle).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
