package redis

import (
	"fmt"

	"github.com/mcoot/dombot/internal/model"
)

// Key prefix for all bot data
const keyPrefix = "dombot"

// serverKey returns the Redis key for a GameServer record
func serverKey(alias model.ServerAlias) string {
	return fmt.Sprintf("%s:server:%s", keyPrefix, alias)
}

// serversIndexKey returns the Redis key for the SET of all server aliases
func serversIndexKey() string {
	return fmt.Sprintf("%s:idx:servers", keyPrefix)
}

// playerKey returns the Redis key for a Player
func playerKey(id model.DiscordUserID) string {
	return fmt.Sprintf("%s:player:%d", keyPrefix, id)
}

// serverNationsKey returns the Redis key for the HASH of nation id -> user id
// assigned in a server
func serverNationsKey(alias model.ServerAlias) string {
	return fmt.Sprintf("%s:server_nations:%s", keyPrefix, alias)
}

// serverPlayersKey returns the Redis key for the LIST of assignments in a
// server, in insertion order
func serverPlayersKey(alias model.ServerAlias) string {
	return fmt.Sprintf("%s:server_players:%s", keyPrefix, alias)
}
