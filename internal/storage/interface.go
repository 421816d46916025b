package storage

import (
	"context"

	"github.com/mcoot/dombot/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations enforce the uniqueness invariants themselves: server
// aliases, player user ids and (server, nation) pairs. Violations are
// reported as model.ErrServerAlreadyExists, model.ErrPlayerAlreadyRegistered
// and model.ErrNationAlreadyTaken respectively.
type Storage interface {
	// Server operations
	InsertServer(ctx context.Context, server *model.GameServer) error
	GetServer(ctx context.Context, alias model.ServerAlias) (*model.GameServer, error)
	// StartServer replaces a lobby's state with state. It fails with
	// model.ErrServerNotLobby when the server has already started, checked
	// in the same write as the update.
	StartServer(ctx context.Context, alias model.ServerAlias, state *model.StartedState) error
	ListServers(ctx context.Context) ([]*model.GameServer, error)

	// Player operations
	InsertPlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.DiscordUserID) (*model.Player, error)

	// Server player operations
	InsertServerPlayer(ctx context.Context, sp model.ServerPlayer) error
	ListServerPlayers(ctx context.Context, alias model.ServerAlias) ([]model.ServerPlayer, error)

	// InsertRegistration inserts the player and the server player in one
	// atomic step: either both rows are written or neither is
	InsertRegistration(ctx context.Context, player *model.Player, sp model.ServerPlayer) error
}
