package response

import (
	"time"

	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/nations"
)

// Server state names
const (
	StateLobby   = "lobby"
	StateStarted = "started"
)

// Lobby is the lobby payload of a server
type Lobby struct {
	OwnerID     string `json:"owner_id"`
	Era         string `json:"era"`
	PlayerCount int    `json:"player_count"`
}

// Started is the started payload of a server
type Started struct {
	Address      string `json:"address"`
	LastSeenTurn int    `json:"last_seen_turn"`
}

// Server represents a game server in API responses
type Server struct {
	Alias     string    `json:"alias"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	Lobby     *Lobby    `json:"lobby,omitempty"`
	Started   *Started  `json:"started,omitempty"`
}

// ServerFromModel converts a model.GameServer to a response Server
func ServerFromModel(s *model.GameServer) Server {
	resp := Server{
		Alias:     string(s.Alias),
		CreatedAt: s.CreatedAt,
	}
	switch st := s.State.(type) {
	case *model.LobbyState:
		resp.State = StateLobby
		resp.Lobby = &Lobby{
			OwnerID:     st.Owner.String(),
			Era:         st.Era.String(),
			PlayerCount: st.PlayerCount,
		}
	case *model.StartedState:
		resp.State = StateStarted
		resp.Started = &Started{
			Address:      st.Address,
			LastSeenTurn: st.LastSeenTurn,
		}
	}
	return resp
}

// ServerList is the response for listing servers
type ServerList struct {
	Servers []Server `json:"servers"`
}

// ServerListFromModel converts a slice of servers
func ServerListFromModel(servers []*model.GameServer) ServerList {
	list := ServerList{Servers: make([]Server, 0, len(servers))}
	for _, s := range servers {
		list.Servers = append(list.Servers, ServerFromModel(s))
	}
	return list
}

// ServerPlayer is a nation assignment
type ServerPlayer struct {
	UserID     string `json:"user_id"`
	NationID   uint32 `json:"nation_id"`
	NationName string `json:"nation_name"`
}

// ServerDetails is a server together with its assignments
type ServerDetails struct {
	Server
	Players []ServerPlayer `json:"players"`
}

// ServerDetailsFromModel converts model.ServerDetails, naming nations from catalog
func ServerDetailsFromModel(d *model.ServerDetails, catalog *nations.Catalog) ServerDetails {
	players := make([]ServerPlayer, 0, len(d.Players))
	for _, p := range d.Players {
		players = append(players, ServerPlayer{
			UserID:     p.DiscordUserID.String(),
			NationID:   uint32(p.NationID),
			NationName: catalog.Name(p.NationID),
		})
	}
	return ServerDetails{
		Server:  ServerFromModel(d.Server),
		Players: players,
	}
}

// Registration is the response for a successful nation claim
type Registration struct {
	ServerAlias string `json:"server_alias"`
	UserID      string `json:"user_id"`
	NationID    uint32 `json:"nation_id"`
	NationName  string `json:"nation_name"`
	Era         string `json:"era,omitempty"`
}

// RegistrationFromModel converts a model.Registration
func RegistrationFromModel(r *model.Registration) Registration {
	return Registration{
		ServerAlias: string(r.ServerAlias),
		UserID:      r.DiscordUserID.String(),
		NationID:    uint32(r.Nation.ID),
		NationName:  r.Nation.Name,
		Era:         r.Nation.Era.String(),
	}
}

// CommandReply is the bot's reply to a chat command
type CommandReply struct {
	Reply string `json:"reply"`
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}
