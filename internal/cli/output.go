package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mcoot/dombot/internal/api/response"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == outputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Server:
		o.printServer(v)
	case response.ServerList:
		o.printServerList(v)
	case response.ServerDetails:
		o.printServerDetails(v)
	case response.Registration:
		o.printRegistration(v)
	case response.CommandReply:
		fmt.Fprintln(o.w, v.Reply)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printServer(s response.Server) {
	fmt.Fprintf(o.w, "Server: %s\n", s.Alias)
	fmt.Fprintf(o.w, "State: %s\n", s.State)
	if s.Lobby != nil {
		fmt.Fprintf(o.w, "Era: %s\n", s.Lobby.Era)
		fmt.Fprintf(o.w, "Players: %d\n", s.Lobby.PlayerCount)
		fmt.Fprintf(o.w, "Owner: %s\n", s.Lobby.OwnerID)
	}
	if s.Started != nil {
		fmt.Fprintf(o.w, "Address: %s\n", s.Started.Address)
		if s.Started.LastSeenTurn >= 0 {
			fmt.Fprintf(o.w, "Last Seen Turn: %d\n", s.Started.LastSeenTurn)
		}
	}
}

func (o *Output) printServerList(l response.ServerList) {
	if len(l.Servers) == 0 {
		fmt.Fprintln(o.w, "No servers")
		return
	}
	for _, s := range l.Servers {
		switch {
		case s.Lobby != nil:
			fmt.Fprintf(o.w, "%s\t%s lobby (%d players)\n", s.Alias, s.Lobby.Era, s.Lobby.PlayerCount)
		case s.Started != nil:
			fmt.Fprintf(o.w, "%s\trunning at %s\n", s.Alias, s.Started.Address)
		default:
			fmt.Fprintln(o.w, s.Alias)
		}
	}
}

func (o *Output) printServerDetails(d response.ServerDetails) {
	o.printServer(d.Server)
	fmt.Fprintf(o.w, "Registered (%d):\n", len(d.Players))
	for _, p := range d.Players {
		fmt.Fprintf(o.w, "  - %s (%d): %s\n", p.NationName, p.NationID, p.UserID)
	}
}

func (o *Output) printRegistration(r response.Registration) {
	if r.Era != "" {
		fmt.Fprintf(o.w, "Registered %s %s (%d) for %s in %s\n", r.Era, r.NationName, r.NationID, r.UserID, r.ServerAlias)
		return
	}
	fmt.Fprintf(o.w, "Registered %s (%d) for %s in %s\n", r.NationName, r.NationID, r.UserID, r.ServerAlias)
}
