package model

import "time"

// ServerAlias is the human-chosen unique name of a game server (case-sensitive)
type ServerAlias string

// ServerState is the lifecycle payload of a game server.
// Exactly one of *LobbyState or *StartedState.
type ServerState interface {
	isServerState()
}

// LobbyState exists until the game process is started
type LobbyState struct {
	Owner       DiscordUserID
	PlayerCount int
	Era         Era
}

// StartedState exists once a live game server is reachable at Address
type StartedState struct {
	Address      string
	LastSeenTurn int
}

func (*LobbyState) isServerState()   {}
func (*StartedState) isServerState() {}

// GameServer is a game server known to the bot
type GameServer struct {
	Alias     ServerAlias
	State     ServerState
	CreatedAt time.Time
}

// Lobby returns the lobby payload, or nil if the server has started
func (s *GameServer) Lobby() *LobbyState {
	l, _ := s.State.(*LobbyState)
	return l
}

// Started returns the started payload, or nil if the server is still a lobby
func (s *GameServer) Started() *StartedState {
	st, _ := s.State.(*StartedState)
	return st
}

// ServerPlayer records that a player claimed a nation in a server.
// (ServerAlias, NationID) is unique.
type ServerPlayer struct {
	ServerAlias   ServerAlias
	DiscordUserID DiscordUserID
	NationID      NationID
}

// ServerDetails is a server together with its current assignments
type ServerDetails struct {
	Server  *GameServer
	Players []ServerPlayer
}
