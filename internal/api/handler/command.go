package handler

import (
	"net/http"

	"github.com/mcoot/dombot/internal/api/apierr"
	"github.com/mcoot/dombot/internal/api/request"
	"github.com/mcoot/dombot/internal/api/response"
	"github.com/mcoot/dombot/internal/command"
)

// CommandHandler runs chat commands forwarded by the chat gateway
type CommandHandler struct {
	adapter *command.Adapter
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(adapter *command.Adapter) *CommandHandler {
	return &CommandHandler{adapter: adapter}
}

// Handle handles POST /api/v1/commands.
// Command failures are part of the reply; only malformed input is an error.
func (h *CommandHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req request.CommandRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	author, err := parseUserID("author_id", req.AuthorID)
	if err != nil {
		WriteError(w, err)
		return
	}

	reply, ok := h.adapter.Handle(r.Context(), command.Message{
		AuthorID:    author,
		ChannelName: req.Channel,
		Content:     req.Content,
	})
	if !ok {
		WriteError(w, apierr.NewUnknownCommandError(req.Content))
		return
	}

	response.JSON(w, http.StatusOK, response.CommandReply{Reply: reply})
}
