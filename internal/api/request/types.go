package request

// CreateLobbyRequest is the request body for opening a lobby
type CreateLobbyRequest struct {
	Alias       string `json:"alias"`
	OwnerID     string `json:"owner_id"`
	Era         string `json:"era"`
	PlayerCount int    `json:"player_count"`
}

// AddServerRequest is the request body for adding a running server
type AddServerRequest struct {
	Alias   string `json:"alias"`
	Address string `json:"address"`
}

// StartServerRequest is the request body for starting a lobby
type StartServerRequest struct {
	Address string `json:"address"`
}

// RegisterRequest is the request body for claiming a nation.
// UserID is a decimal string since snowflakes overflow JSON numbers.
type RegisterRequest struct {
	UserID string `json:"user_id"`
	Nation string `json:"nation"`
}

// CommandRequest is a chat message forwarded by the chat gateway
type CommandRequest struct {
	AuthorID string `json:"author_id"`
	Channel  string `json:"channel"`
	Content  string `json:"content"`
}
