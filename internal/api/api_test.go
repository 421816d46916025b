package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/dombot/internal/api"
	"github.com/mcoot/dombot/internal/api/apierr"
	"github.com/mcoot/dombot/internal/api/response"
	"github.com/mcoot/dombot/internal/dependencies/gamequery"
	"github.com/mcoot/dombot/internal/factory"
	"github.com/mcoot/dombot/internal/middleware"
	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T, token string) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:              testutil.NopLogger(),
		ServersService:      app.ServersService,
		RegistrationService: app.RegistrationService,
		CommandAdapter:      app.CommandAdapter,
		Catalog:             app.Catalog,
		APIToken:            token,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

func (ts *testServer) createLobby(t *testing.T, alias string, players int) {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/lobbies", map[string]any{
		"alias":        alias,
		"owner_id":     "1",
		"era":          "EA",
		"player_count": players,
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[response.Health](t, rr).Status)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestCreateLobby(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodPost, "/api/v1/lobbies", map[string]any{
		"alias":        "early",
		"owner_id":     "18446744073709551615",
		"era":          "early",
		"player_count": 4,
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	server := decode[response.Server](t, rr)
	assert.Equal(t, "early", server.Alias)
	assert.Equal(t, response.StateLobby, server.State)
	require.NotNil(t, server.Lobby)
	assert.Equal(t, "18446744073709551615", server.Lobby.OwnerID)
	assert.Equal(t, "EA", server.Lobby.Era)
	assert.Equal(t, 4, server.Lobby.PlayerCount)
	assert.Nil(t, server.Started)
}

func TestCreateLobbyValidation(t *testing.T) {
	ts := newTestServer(t, "")

	cases := []struct {
		name string
		body map[string]any
		code string
	}{
		{"bad era", map[string]any{"alias": "a", "owner_id": "1", "era": "modern", "player_count": 2}, apierr.CodeInvalidEra},
		{"bad owner", map[string]any{"alias": "a", "owner_id": "bob", "era": "EA", "player_count": 2}, apierr.CodeInvalidRequest},
		{"bad count", map[string]any{"alias": "a", "owner_id": "1", "era": "EA", "player_count": 0}, apierr.CodeInvalidPlayerCount},
		{"bad alias", map[string]any{"alias": "two words", "owner_id": "1", "era": "EA", "player_count": 2}, apierr.CodeInvalidAlias},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/lobbies", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.code, errorCode(t, rr))
		})
	}
}

func TestInvalidJSON(t *testing.T) {
	ts := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/servers", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestAddAndListServers(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodPost, "/api/v1/servers", map[string]string{"alias": "live", "address": "dom.example.com:30001"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	added := decode[response.Server](t, rr)
	require.NotNil(t, added.Started)
	assert.Equal(t, -1, added.Started.LastSeenTurn)

	rr = ts.request(http.MethodPost, "/api/v1/servers", map[string]string{"alias": "live", "address": "dom.example.com:30002"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeServerExists, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/servers", map[string]string{"alias": "other", "address": "nope"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidAddress, errorCode(t, rr))

	ts.createLobby(t, "early", 3)

	rr = ts.request(http.MethodGet, "/api/v1/servers", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.ServerList](t, rr)
	require.Len(t, list.Servers, 2)
	assert.Equal(t, "early", list.Servers[0].Alias)
	assert.Equal(t, "live", list.Servers[1].Alias)
}

func TestRegisterInLobby(t *testing.T) {
	ts := newTestServer(t, "")
	ts.createLobby(t, "early", 1)

	rr := ts.request(http.MethodPost, "/api/v1/servers/early/registrations", map[string]string{"user_id": "100", "nation": "Arco"}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	reg := decode[response.Registration](t, rr)
	assert.Equal(t, response.Registration{
		ServerAlias: "early",
		UserID:      "100",
		NationID:    5,
		NationName:  "Arcoscephale",
		Era:         "EA",
	}, reg)

	rr = ts.request(http.MethodPost, "/api/v1/servers/early/registrations", map[string]string{"user_id": "101", "nation": "ermor"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeLobbyFull, errorCode(t, rr))
}

func TestRegisterErrors(t *testing.T) {
	ts := newTestServer(t, "")
	ts.createLobby(t, "early", 5)

	cases := []struct {
		name   string
		path   string
		body   map[string]string
		status int
		code   string
	}{
		{"unknown server", "/api/v1/servers/nowhere/registrations", map[string]string{"user_id": "100", "nation": "arco"}, http.StatusNotFound, apierr.CodeServerNotFound},
		{"ambiguous", "/api/v1/servers/early/registrations", map[string]string{"user_id": "100", "nation": "a"}, http.StatusBadRequest, apierr.CodeAmbiguousNation},
		{"not found", "/api/v1/servers/early/registrations", map[string]string{"user_id": "100", "nation": "mor"}, http.StatusNotFound, apierr.CodeNationNotFound},
		{"missing nation", "/api/v1/servers/early/registrations", map[string]string{"user_id": "100", "nation": " "}, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"bad user", "/api/v1/servers/early/registrations", map[string]string{"user_id": "-4", "nation": "arco"}, http.StatusBadRequest, apierr.CodeInvalidRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, tc.path, tc.body, "")
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.code, errorCode(t, rr))
		})
	}

	rr := ts.request(http.MethodPost, "/api/v1/servers/early/registrations", map[string]string{"user_id": "100", "nation": "arco"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/servers/early/registrations", map[string]string{"user_id": "101", "nation": "arco"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNationTaken, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/servers/early/registrations", map[string]string{"user_id": "100", "nation": "ermor"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodePlayerAlreadyRegistered, errorCode(t, rr))
}

func TestRegisterInStartedGame(t *testing.T) {
	ts := newTestServer(t, "")
	ts.createLobby(t, "early", 3)

	rr := ts.request(http.MethodPost, "/api/v1/servers/early/start", map[string]string{"address": "dom.example.com:30001"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, response.StateStarted, decode[response.Server](t, rr).State)

	rr = ts.request(http.MethodPost, "/api/v1/servers/early/start", map[string]string{"address": "dom.example.com:30001"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeServerNotLobby, errorCode(t, rr))

	// No game registered with the mock: the server is unreachable
	rr = ts.request(http.MethodPost, "/api/v1/servers/early/registrations", map[string]string{"user_id": "100", "nation": "pan"}, "")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, apierr.CodeGameServerUnreachable, errorCode(t, rr))

	ts.app.MockQuery.SetGame("dom.example.com:30001", &gamequery.GameData{CurrentTurn: -1})
	rr = ts.request(http.MethodPost, "/api/v1/servers/early/registrations", map[string]string{"user_id": "100", "nation": "pan"}, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, decode[apierr.ErrorResponse](t, rr).Error.Message, "uploaded a pretender")

	ts.app.MockQuery.SetGame("dom.example.com:30001", &gamequery.GameData{
		Nations:     []model.Nation{{ID: 16, Name: "Pangaea"}},
		CurrentTurn: 2,
	})
	rr = ts.request(http.MethodPost, "/api/v1/servers/early/registrations", map[string]string{"user_id": "100", "nation": "pan"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	reg := decode[response.Registration](t, rr)
	assert.Equal(t, uint32(16), reg.NationID)
	assert.Empty(t, reg.Era)

	rr = ts.request(http.MethodGet, "/api/v1/servers/early", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	details := decode[response.ServerDetails](t, rr)
	assert.Equal(t, "early", details.Alias)
	assert.Equal(t, []response.ServerPlayer{{UserID: "100", NationID: 16, NationName: "Pangaea"}}, details.Players)
}

func TestGetUnknownServer(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodGet, "/api/v1/servers/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeServerNotFound, errorCode(t, rr))
}

func TestCommands(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodPost, "/api/v1/commands", map[string]string{
		"author_id": "1",
		"channel":   "early",
		"content":   "!lobby ea 2",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Created EA lobby early for 2 players", decode[response.CommandReply](t, rr).Reply)

	rr = ts.request(http.MethodPost, "/api/v1/commands", map[string]string{
		"author_id": "100",
		"channel":   "early",
		"content":   "!register arco",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "registering EA Arcoscephale for <@100>", decode[response.CommandReply](t, rr).Reply)

	rr = ts.request(http.MethodPost, "/api/v1/commands", map[string]string{
		"author_id": "100",
		"channel":   "early",
		"content":   "good game everyone",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeUnknownCommand, errorCode(t, rr))
}

func TestAPIToken(t *testing.T) {
	ts := newTestServer(t, "s3cret")

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/servers", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/servers", nil, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/servers", nil, "s3cret")
	assert.Equal(t, http.StatusOK, rr.Code)
}
