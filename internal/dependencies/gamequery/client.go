// Package gamequery fetches the live state of running Dominions game servers.
package gamequery

import (
	"context"

	"github.com/mcoot/dombot/internal/model"
)

// PretenderTurn is the turn reported while a game still accepts pretenders
const PretenderTurn = -1

// GameData is a snapshot of a running game
type GameData struct {
	Name        string
	Nations     []model.Nation
	CurrentTurn int
}

// TakingPretenders reports whether nations can still join the game
func (d *GameData) TakingPretenders() bool {
	return d.CurrentTurn == PretenderTurn
}

// Client queries a game server for its current roster
type Client interface {
	Fetch(ctx context.Context, address string) (*GameData, error)
}
