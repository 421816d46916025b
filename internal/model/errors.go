package model

import "errors"

// Common errors used across the application
var (
	// Server errors
	ErrServerNotFound      = errors.New("server not found")
	ErrServerAlreadyExists = errors.New("server alias already in use")
	ErrServerNotLobby      = errors.New("server is not a lobby")
	ErrInvalidEra          = errors.New("invalid era")
	ErrInvalidPlayerCount  = errors.New("player count must be positive")
	ErrInvalidAlias        = errors.New("invalid server alias")
	ErrInvalidAddress      = errors.New("address must be host:port")

	// Registration errors
	ErrLobbyFull               = errors.New("lobby already full")
	ErrAmbiguousNation         = errors.New("ambiguous nation name")
	ErrNationNotFound          = errors.New("could not find nation")
	ErrNationAlreadyTaken      = errors.New("nation already taken")
	ErrPlayerAlreadyRegistered = errors.New("player already registered")
	ErrGameServerUnreachable   = errors.New("game server unreachable")
	ErrStorage                 = errors.New("storage error")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
)
