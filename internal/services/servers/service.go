// Package servers manages the lifecycle of registered game servers
package servers

import (
	"context"
	"log/slog"
	"net"
	"strings"

	"github.com/mcoot/dombot/internal/dependencies/clock"
	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/storage"
)

// Service creates lobbies, adds running servers and starts lobbies
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewService creates a new servers Service
func NewService(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// CreateLobby opens a lobby for the given era with room for playerCount players
func (s *Service) CreateLobby(ctx context.Context, alias model.ServerAlias, owner model.DiscordUserID, era model.Era, playerCount int) (*model.GameServer, error) {
	if err := validateAlias(alias); err != nil {
		return nil, err
	}
	if !era.Valid() {
		return nil, model.ErrInvalidEra
	}
	if playerCount <= 0 {
		return nil, model.ErrInvalidPlayerCount
	}

	server := &model.GameServer{
		Alias:     alias,
		State:     &model.LobbyState{Owner: owner, PlayerCount: playerCount, Era: era},
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.InsertServer(ctx, server); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "lobby created",
		"alias", alias,
		"owner", owner,
		"era", era.String(),
		"player_count", playerCount,
	)
	return server, nil
}

// AddServer registers a game that is already running at address
func (s *Service) AddServer(ctx context.Context, alias model.ServerAlias, address string) (*model.GameServer, error) {
	if err := validateAlias(alias); err != nil {
		return nil, err
	}
	if err := validateAddress(address); err != nil {
		return nil, err
	}

	server := &model.GameServer{
		Alias:     alias,
		State:     &model.StartedState{Address: address, LastSeenTurn: -1},
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.InsertServer(ctx, server); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "server added",
		"alias", alias,
		"address", address,
	)
	return server, nil
}

// StartLobby moves a lobby to the started state. Players keep their nations.
func (s *Service) StartLobby(ctx context.Context, alias model.ServerAlias, address string) (*model.GameServer, error) {
	if err := validateAddress(address); err != nil {
		return nil, err
	}

	state := &model.StartedState{Address: address, LastSeenTurn: -1}
	if err := s.storage.StartServer(ctx, alias, state); err != nil {
		return nil, err
	}
	server, err := s.storage.GetServer(ctx, alias)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "lobby started",
		"alias", alias,
		"address", address,
	)
	return server, nil
}

// GetServer returns the server named alias
func (s *Service) GetServer(ctx context.Context, alias model.ServerAlias) (*model.GameServer, error) {
	return s.storage.GetServer(ctx, alias)
}

// ListServers returns every server ordered by alias
func (s *Service) ListServers(ctx context.Context) ([]*model.GameServer, error) {
	return s.storage.ListServers(ctx)
}

// Details returns the server together with its nation assignments
func (s *Service) Details(ctx context.Context, alias model.ServerAlias) (*model.ServerDetails, error) {
	server, err := s.storage.GetServer(ctx, alias)
	if err != nil {
		return nil, err
	}
	players, err := s.storage.ListServerPlayers(ctx, alias)
	if err != nil {
		return nil, err
	}
	return &model.ServerDetails{Server: server, Players: players}, nil
}

func validateAlias(alias model.ServerAlias) error {
	if strings.TrimSpace(string(alias)) == "" || strings.ContainsAny(string(alias), " \t\n") {
		return model.ErrInvalidAlias
	}
	return nil
}

func validateAddress(address string) error {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" || port == "" {
		return model.ErrInvalidAddress
	}
	return nil
}
