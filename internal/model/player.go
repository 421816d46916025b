package model

import (
	"strconv"
	"time"
)

// DiscordUserID identifies a chat-platform user across the whole system
type DiscordUserID uint64

// ParseDiscordUserID parses the decimal snowflake form of a user id
func ParseDiscordUserID(s string) (DiscordUserID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return DiscordUserID(id), nil
}

func (id DiscordUserID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Player is a chat user who has claimed at least one nation
type Player struct {
	DiscordUserID     DiscordUserID
	TurnNotifications bool
	CreatedAt         time.Time
}

// NewPlayer returns a player with the default preferences
func NewPlayer(id DiscordUserID, now time.Time) *Player {
	return &Player{
		DiscordUserID:     id,
		TurnNotifications: true,
		CreatedAt:         now,
	}
}
