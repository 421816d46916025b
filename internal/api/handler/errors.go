package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/dombot/internal/api/apierr"
	"github.com/mcoot/dombot/internal/model"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// decodeBody reads a JSON request body into v
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierr.NewInvalidRequestError("Invalid JSON body")
	}
	return nil
}

// parseUserID parses a decimal user id field named field
func parseUserID(field, value string) (model.DiscordUserID, error) {
	id, err := model.ParseDiscordUserID(value)
	if err != nil {
		return 0, apierr.NewInvalidRequestError(field + " must be a decimal user id")
	}
	return id, nil
}
