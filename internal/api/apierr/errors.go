package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcoot/dombot/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeInvalidAlias            = "INVALID_ALIAS"
	CodeInvalidAddress          = "INVALID_ADDRESS"
	CodeInvalidEra              = "INVALID_ERA"
	CodeInvalidPlayerCount      = "INVALID_PLAYER_COUNT"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeUnknownCommand          = "UNKNOWN_COMMAND"
	CodeServerNotFound          = "SERVER_NOT_FOUND"
	CodeServerExists            = "SERVER_EXISTS"
	CodeServerNotLobby          = "SERVER_NOT_LOBBY"
	CodeLobbyFull               = "LOBBY_FULL"
	CodeAmbiguousNation         = "AMBIGUOUS_NATION"
	CodeNationNotFound          = "NATION_NOT_FOUND"
	CodeNationTaken             = "NATION_TAKEN"
	CodePlayerAlreadyRegistered = "PLAYER_ALREADY_REGISTERED"
	CodeGameServerUnreachable   = "GAME_SERVER_UNREACHABLE"
	CodeInternalError           = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var re *model.RegistrationError
	if errors.As(err, &re) {
		return registrationHTTPError(re)
	}

	switch {
	case errors.Is(err, model.ErrServerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeServerNotFound, "Server not found"}}
	case errors.Is(err, model.ErrServerAlreadyExists):
		return &httpError{http.StatusConflict, APIError{CodeServerExists, "Server alias already in use"}}
	case errors.Is(err, model.ErrServerNotLobby):
		return &httpError{http.StatusConflict, APIError{CodeServerNotLobby, "Server has already started"}}
	case errors.Is(err, model.ErrInvalidAlias):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAlias, "Alias must be a single non-empty word"}}
	case errors.Is(err, model.ErrInvalidAddress):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAddress, "Address must be host:port"}}
	case errors.Is(err, model.ErrInvalidEra):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidEra, "Era must be one of EA, MA or LA"}}
	case errors.Is(err, model.ErrInvalidPlayerCount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPlayerCount, "Player count must be positive"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

func registrationHTTPError(re *model.RegistrationError) *httpError {
	switch re.Reason {
	case model.ErrServerNotFound:
		return &httpError{http.StatusNotFound, APIError{CodeServerNotFound, "Server not found"}}
	case model.ErrLobbyFull:
		return &httpError{http.StatusConflict, APIError{CodeLobbyFull, "Lobby is already full"}}
	case model.ErrAmbiguousNation:
		return &httpError{http.StatusBadRequest, APIError{CodeAmbiguousNation, "Ambiguous nation name: " + re.Query}}
	case model.ErrNationNotFound:
		msg := "Could not find nation starting with " + re.Query
		if re.PretenderHint {
			msg += ". Make sure you've uploaded a pretender first"
		}
		return &httpError{http.StatusNotFound, APIError{CodeNationNotFound, msg}}
	case model.ErrNationAlreadyTaken:
		return &httpError{http.StatusConflict, APIError{CodeNationTaken, "Nation already taken: " + re.Query}}
	case model.ErrPlayerAlreadyRegistered:
		return &httpError{http.StatusConflict, APIError{CodePlayerAlreadyRegistered, "Player is already registered"}}
	case model.ErrGameServerUnreachable:
		return &httpError{http.StatusBadGateway, APIError{CodeGameServerUnreachable, "Could not reach the game server"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewUnknownCommandError is returned when a chat message is not a bot command
func NewUnknownCommandError(content string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeUnknownCommand, fmt.Sprintf("Not a command: %q", content)}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
