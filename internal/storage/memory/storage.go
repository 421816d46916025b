package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	servers       map[model.ServerAlias]*model.GameServer
	players       map[model.DiscordUserID]*model.Player
	serverPlayers map[model.ServerAlias][]model.ServerPlayer
	nationIndex   map[nationKey]model.DiscordUserID
}

type nationKey struct {
	alias    model.ServerAlias
	nationID model.NationID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		servers:       make(map[model.ServerAlias]*model.GameServer),
		players:       make(map[model.DiscordUserID]*model.Player),
		serverPlayers: make(map[model.ServerAlias][]model.ServerPlayer),
		nationIndex:   make(map[nationKey]model.DiscordUserID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Server operations

func (s *Storage) InsertServer(ctx context.Context, server *model.GameServer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.servers[server.Alias]; ok {
		return model.ErrServerAlreadyExists
	}
	s.servers[server.Alias] = copyServer(server)
	return nil
}

func (s *Storage) GetServer(ctx context.Context, alias model.ServerAlias) (*model.GameServer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	server, ok := s.servers[alias]
	if !ok {
		return nil, model.ErrServerNotFound
	}
	return copyServer(server), nil
}

func (s *Storage) StartServer(ctx context.Context, alias model.ServerAlias, state *model.StartedState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	server, ok := s.servers[alias]
	if !ok {
		return model.ErrServerNotFound
	}
	if server.Lobby() == nil {
		return model.ErrServerNotLobby
	}
	server.State = copyState(state)
	return nil
}

func (s *Storage) ListServers(ctx context.Context) ([]*model.GameServer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	servers := make([]*model.GameServer, 0, len(s.servers))
	for _, server := range s.servers {
		servers = append(servers, copyServer(server))
	}
	slices.SortFunc(servers, func(a, b *model.GameServer) int {
		return strings.Compare(string(a.Alias), string(b.Alias))
	})
	return servers, nil
}

// Player operations

func (s *Storage) InsertPlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertPlayerLocked(player)
}

func (s *Storage) GetPlayer(ctx context.Context, id model.DiscordUserID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

// Server player operations

func (s *Storage) InsertServerPlayer(ctx context.Context, sp model.ServerPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[sp.DiscordUserID]; !ok {
		return model.ErrPlayerNotFound
	}
	if err := s.checkServerPlayerLocked(sp); err != nil {
		return err
	}
	s.insertServerPlayerLocked(sp)
	return nil
}

func (s *Storage) ListServerPlayers(ctx context.Context, alias model.ServerAlias) ([]model.ServerPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.serverPlayers[alias]), nil
}

func (s *Storage) InsertRegistration(ctx context.Context, player *model.Player, sp model.ServerPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Validate both rows before writing either
	if _, ok := s.players[player.DiscordUserID]; ok {
		return model.ErrPlayerAlreadyRegistered
	}
	if err := s.checkServerPlayerLocked(sp); err != nil {
		return err
	}
	if err := s.insertPlayerLocked(player); err != nil {
		return err
	}
	s.insertServerPlayerLocked(sp)
	return nil
}

func (s *Storage) insertPlayerLocked(player *model.Player) error {
	if _, ok := s.players[player.DiscordUserID]; ok {
		return model.ErrPlayerAlreadyRegistered
	}
	p := *player
	s.players[player.DiscordUserID] = &p
	return nil
}

func (s *Storage) checkServerPlayerLocked(sp model.ServerPlayer) error {
	if _, ok := s.servers[sp.ServerAlias]; !ok {
		return model.ErrServerNotFound
	}
	if _, taken := s.nationIndex[nationKey{sp.ServerAlias, sp.NationID}]; taken {
		return model.ErrNationAlreadyTaken
	}
	return nil
}

func (s *Storage) insertServerPlayerLocked(sp model.ServerPlayer) {
	s.nationIndex[nationKey{sp.ServerAlias, sp.NationID}] = sp.DiscordUserID
	s.serverPlayers[sp.ServerAlias] = append(s.serverPlayers[sp.ServerAlias], sp)
}

func copyServer(server *model.GameServer) *model.GameServer {
	c := *server
	c.State = copyState(server.State)
	return &c
}

func copyState(state model.ServerState) model.ServerState {
	switch st := state.(type) {
	case *model.LobbyState:
		c := *st
		return &c
	case *model.StartedState:
		c := *st
		return &c
	default:
		return state
	}
}
