// Package command turns chat messages into calls on the bot's services and
// renders the outcome as a plain text reply.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/nations"
	"github.com/mcoot/dombot/internal/services/registration"
	"github.com/mcoot/dombot/internal/services/servers"
)

// Prefix marks a chat message as a bot command
const Prefix = "!"

// Message is an incoming chat message
type Message struct {
	AuthorID    model.DiscordUserID
	ChannelName string
	Content     string
}

// Adapter dispatches chat commands
type Adapter struct {
	registration *registration.Service
	servers      *servers.Service
	catalog      *nations.Catalog
	logger       *slog.Logger
}

// NewAdapter creates a new command Adapter
func NewAdapter(
	registration *registration.Service,
	servers *servers.Service,
	catalog *nations.Catalog,
	logger *slog.Logger,
) *Adapter {
	return &Adapter{
		registration: registration,
		servers:      servers,
		catalog:      catalog,
		logger:       logger,
	}
}

type handlerFunc func(a *Adapter, ctx context.Context, msg Message, args []string) string

var handlers = map[string]handlerFunc{
	"register": (*Adapter).register,
	"lobby":    (*Adapter).lobby,
	"add":      (*Adapter).add,
	"start":    (*Adapter).start,
	"servers":  (*Adapter).listServers,
	"details":  (*Adapter).details,
}

// Handle runs the command in msg and returns the reply.
// ok is false when msg is not a recognised command.
func (a *Adapter) Handle(ctx context.Context, msg Message) (reply string, ok bool) {
	content := strings.TrimSpace(msg.Content)
	if !strings.HasPrefix(content, Prefix) {
		return "", false
	}
	body := strings.TrimPrefix(content, Prefix)
	name, rest := body, ""
	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		name, rest = body[:i], body[i:]
	}
	handler, ok := handlers[strings.ToLower(name)]
	if !ok {
		return "", false
	}

	args, err := splitArgs(rest)
	if err != nil {
		return "Could not read arguments: " + err.Error(), true
	}

	a.logger.DebugContext(ctx, "handling command",
		"command", name,
		"author", msg.AuthorID,
		"channel", msg.ChannelName,
	)
	return handler(a, ctx, msg, args), true
}

// !register <nation> [alias]
func (a *Adapter) register(ctx context.Context, msg Message, args []string) string {
	if len(args) < 1 || len(args) > 2 {
		return usage("register <nation> [alias]")
	}
	query := strings.ToLower(args[0])
	alias := aliasArg(args, 1, msg)

	reg, err := a.registration.Register(ctx, msg.AuthorID, query, alias)
	if err != nil {
		return renderRegistrationError(err, alias)
	}
	if reg.Nation.Era.Valid() {
		return fmt.Sprintf("registering %s %s for %s", reg.Nation.Era, reg.Nation.Name, mention(msg.AuthorID))
	}
	return fmt.Sprintf("registering nation %s for user %s", reg.Nation.Name, mention(msg.AuthorID))
}

// !lobby <era> <players> [alias]
func (a *Adapter) lobby(ctx context.Context, msg Message, args []string) string {
	if len(args) < 2 || len(args) > 3 {
		return usage("lobby <era> <players> [alias]")
	}
	era, err := model.ParseEra(args[0])
	if err != nil {
		return "Era must be one of EA, MA or LA"
	}
	playerCount, err := strconv.Atoi(args[1])
	if err != nil {
		return "Player count must be a number"
	}
	alias := aliasArg(args, 2, msg)

	server, err := a.servers.CreateLobby(ctx, alias, msg.AuthorID, era, playerCount)
	if err != nil {
		return renderServerError(err, alias)
	}
	return fmt.Sprintf("Created %s lobby %s for %d players", era, server.Alias, playerCount)
}

// !add <address> [alias]
func (a *Adapter) add(ctx context.Context, msg Message, args []string) string {
	if len(args) < 1 || len(args) > 2 {
		return usage("add <host:port> [alias]")
	}
	alias := aliasArg(args, 1, msg)

	server, err := a.servers.AddServer(ctx, alias, args[0])
	if err != nil {
		return renderServerError(err, alias)
	}
	return fmt.Sprintf("Added server %s at %s", server.Alias, server.Started().Address)
}

// !start <address> [alias]
func (a *Adapter) start(ctx context.Context, msg Message, args []string) string {
	if len(args) < 1 || len(args) > 2 {
		return usage("start <host:port> [alias]")
	}
	alias := aliasArg(args, 1, msg)

	server, err := a.servers.StartLobby(ctx, alias, args[0])
	if err != nil {
		return renderServerError(err, alias)
	}
	return fmt.Sprintf("Started %s at %s", server.Alias, server.Started().Address)
}

// !servers
func (a *Adapter) listServers(ctx context.Context, msg Message, args []string) string {
	list, err := a.servers.ListServers(ctx)
	if err != nil {
		return renderServerError(err, "")
	}
	if len(list) == 0 {
		return "No servers"
	}
	lines := make([]string, 0, len(list))
	for _, server := range list {
		lines = append(lines, describeServer(server))
	}
	return strings.Join(lines, "\n")
}

// !details [alias]
func (a *Adapter) details(ctx context.Context, msg Message, args []string) string {
	if len(args) > 1 {
		return usage("details [alias]")
	}
	alias := aliasArg(args, 0, msg)

	details, err := a.servers.Details(ctx, alias)
	if err != nil {
		return renderServerError(err, alias)
	}

	var b strings.Builder
	b.WriteString(describeServer(details.Server))
	if lobby := details.Server.Lobby(); lobby != nil {
		fmt.Fprintf(&b, ", %d/%d players", len(details.Players), lobby.PlayerCount)
	}
	for _, p := range details.Players {
		fmt.Fprintf(&b, "\n%s: %s", a.catalog.Name(p.NationID), mention(p.DiscordUserID))
	}
	return b.String()
}

func describeServer(server *model.GameServer) string {
	switch st := server.State.(type) {
	case *model.LobbyState:
		return fmt.Sprintf("%s: %s lobby", server.Alias, st.Era)
	case *model.StartedState:
		return fmt.Sprintf("%s: running at %s", server.Alias, st.Address)
	default:
		return string(server.Alias)
	}
}

func renderRegistrationError(err error, alias model.ServerAlias) string {
	var regErr *model.RegistrationError
	if !errors.As(err, &regErr) {
		return "Something went wrong, please try again later"
	}

	switch regErr.Reason {
	case model.ErrServerNotFound:
		return fmt.Sprintf("No server with alias %s", alias)
	case model.ErrLobbyFull:
		return "lobby already full"
	case model.ErrAmbiguousNation:
		return "ambiguous nation name: " + regErr.Query
	case model.ErrNationNotFound:
		if regErr.PretenderHint {
			return fmt.Sprintf("Could not find nation starting with %s. Make sure you've uploaded a pretender first", regErr.Query)
		}
		return "Could not find nation starting with " + regErr.Query
	case model.ErrNationAlreadyTaken:
		return "Nation already taken: " + regErr.Query
	case model.ErrPlayerAlreadyRegistered:
		return "You are already registered"
	case model.ErrGameServerUnreachable:
		return "Could not reach the game server, please try again later"
	default:
		return "Something went wrong, please try again later"
	}
}

func renderServerError(err error, alias model.ServerAlias) string {
	switch {
	case errors.Is(err, model.ErrServerNotFound):
		return fmt.Sprintf("No server with alias %s", alias)
	case errors.Is(err, model.ErrServerAlreadyExists):
		return fmt.Sprintf("Alias %s is already in use", alias)
	case errors.Is(err, model.ErrServerNotLobby):
		return fmt.Sprintf("%s has already started", alias)
	case errors.Is(err, model.ErrInvalidEra),
		errors.Is(err, model.ErrInvalidPlayerCount),
		errors.Is(err, model.ErrInvalidAlias),
		errors.Is(err, model.ErrInvalidAddress):
		return capitalise(err.Error())
	default:
		return "Something went wrong, please try again later"
	}
}

func aliasArg(args []string, i int, msg Message) model.ServerAlias {
	if i < len(args) {
		return model.ServerAlias(args[i])
	}
	return model.ServerAlias(msg.ChannelName)
}

func mention(id model.DiscordUserID) string {
	return "<@" + id.String() + ">"
}

func usage(form string) string {
	return "Usage: " + Prefix + form + `. Arguments with spaces need to be quoted "like this"`
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
