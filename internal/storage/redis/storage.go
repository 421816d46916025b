package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Stored representations. The model types carry no serialisation tags, and
// the server state variant needs an explicit tag on the wire.

type serverRecord struct {
	Alias     string         `json:"alias"`
	CreatedAt time.Time      `json:"created_at"`
	Lobby     *lobbyRecord   `json:"lobby,omitempty"`
	Started   *startedRecord `json:"started,omitempty"`
}

type lobbyRecord struct {
	Owner       uint64 `json:"owner"`
	PlayerCount int    `json:"player_count"`
	Era         int    `json:"era"`
}

type startedRecord struct {
	Address      string `json:"address"`
	LastSeenTurn int    `json:"last_seen_turn"`
}

type playerRecord struct {
	DiscordUserID     uint64    `json:"discord_user_id"`
	TurnNotifications bool      `json:"turn_notifications"`
	CreatedAt         time.Time `json:"created_at"`
}

func toServerRecord(server *model.GameServer) (*serverRecord, error) {
	rec := &serverRecord{Alias: string(server.Alias), CreatedAt: server.CreatedAt}
	if err := rec.setState(server.State); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *serverRecord) setState(state model.ServerState) error {
	r.Lobby, r.Started = nil, nil
	switch st := state.(type) {
	case *model.LobbyState:
		r.Lobby = &lobbyRecord{Owner: uint64(st.Owner), PlayerCount: st.PlayerCount, Era: int(st.Era)}
	case *model.StartedState:
		r.Started = &startedRecord{Address: st.Address, LastSeenTurn: st.LastSeenTurn}
	default:
		return fmt.Errorf("unknown server state %T", state)
	}
	return nil
}

func (r *serverRecord) toModel() (*model.GameServer, error) {
	server := &model.GameServer{Alias: model.ServerAlias(r.Alias), CreatedAt: r.CreatedAt.UTC()}
	switch {
	case r.Lobby != nil:
		server.State = &model.LobbyState{
			Owner:       model.DiscordUserID(r.Lobby.Owner),
			PlayerCount: r.Lobby.PlayerCount,
			Era:         model.Era(r.Lobby.Era),
		}
	case r.Started != nil:
		server.State = &model.StartedState{Address: r.Started.Address, LastSeenTurn: r.Started.LastSeenTurn}
	default:
		return nil, fmt.Errorf("server %q has no state", r.Alias)
	}
	return server, nil
}

// Server operations

// KEYS: server record, server index. ARGV: record json, alias
var insertServerScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SADD', KEYS[2], ARGV[2])
return 1
`)

func (s *Storage) InsertServer(ctx context.Context, server *model.GameServer) error {
	rec, err := toServerRecord(server)
	if err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	inserted, err := insertServerScript.Run(ctx, s.client,
		[]string{serverKey(server.Alias), serversIndexKey()},
		string(data), string(server.Alias),
	).Int()
	if err != nil {
		return err
	}
	if inserted == 0 {
		return model.ErrServerAlreadyExists
	}
	return nil
}

func (s *Storage) GetServer(ctx context.Context, alias model.ServerAlias) (*model.GameServer, error) {
	rec, err := s.getServerRecord(ctx, alias)
	if err != nil {
		return nil, err
	}
	return rec.toModel()
}

// KEYS: server record. ARGV: expected record json, new record json.
// Returns 1 when swapped, 0 when the record is gone, -1 when it changed.
var compareAndSetServerScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
	return 0
end
if current ~= ARGV[1] then
	return -1
end
redis.call('SET', KEYS[1], ARGV[2])
return 1
`)

// maxStartAttempts bounds retries when the record changes between read and swap
const maxStartAttempts = 3

func (s *Storage) StartServer(ctx context.Context, alias model.ServerAlias, state *model.StartedState) error {
	for range maxStartAttempts {
		raw, err := s.client.Get(ctx, serverKey(alias)).Result()
		if errors.Is(err, redis.Nil) {
			return model.ErrServerNotFound
		}
		if err != nil {
			return err
		}

		var rec serverRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return err
		}
		if rec.Lobby == nil {
			return model.ErrServerNotLobby
		}
		if err := rec.setState(state); err != nil {
			return err
		}
		data, err := json.Marshal(&rec)
		if err != nil {
			return err
		}

		swapped, err := compareAndSetServerScript.Run(ctx, s.client,
			[]string{serverKey(alias)}, raw, string(data),
		).Int()
		if err != nil {
			return err
		}
		switch swapped {
		case 1:
			return nil
		case 0:
			return model.ErrServerNotFound
		}
	}
	return fmt.Errorf("start server %q: record kept changing", alias)
}

func (s *Storage) ListServers(ctx context.Context) ([]*model.GameServer, error) {
	aliases, err := s.client.SMembers(ctx, serversIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(aliases) == 0 {
		return []*model.GameServer{}, nil
	}
	slices.Sort(aliases)

	keys := make([]string, len(aliases))
	for i, alias := range aliases {
		keys[i] = serverKey(model.ServerAlias(alias))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	servers := make([]*model.GameServer, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var rec serverRecord
		if err := json.Unmarshal([]byte(val.(string)), &rec); err != nil {
			return nil, err
		}
		server, err := rec.toModel()
		if err != nil {
			return nil, err
		}
		servers = append(servers, server)
	}
	return servers, nil
}

func (s *Storage) getServerRecord(ctx context.Context, alias model.ServerAlias) (*serverRecord, error) {
	data, err := s.client.Get(ctx, serverKey(alias)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrServerNotFound
		}
		return nil, err
	}

	var rec serverRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Player operations

func (s *Storage) InsertPlayer(ctx context.Context, player *model.Player) error {
	data, err := marshalPlayer(player)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, playerKey(player.DiscordUserID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrPlayerAlreadyRegistered
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.DiscordUserID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rec playerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &model.Player{
		DiscordUserID:     model.DiscordUserID(rec.DiscordUserID),
		TurnNotifications: rec.TurnNotifications,
		CreatedAt:         rec.CreatedAt.UTC(),
	}, nil
}

func marshalPlayer(player *model.Player) ([]byte, error) {
	return json.Marshal(playerRecord{
		DiscordUserID:     uint64(player.DiscordUserID),
		TurnNotifications: player.TurnNotifications,
		CreatedAt:         player.CreatedAt,
	})
}

// Server player operations

// Script result codes
const (
	resultOK               = 1
	resultServerNotFound   = -1
	resultPlayerNotFound   = -2
	resultNationTaken      = -3
	resultPlayerRegistered = -4
)

// assignNationScript checks and writes an assignment in one step. When a
// player record is passed the player is created alongside the assignment,
// otherwise the player must already exist.
//
// KEYS: server record, player, server nations hash, server players list.
// ARGV: nation id, list entry, player json or empty.
var assignNationScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
local playerExists = redis.call('EXISTS', KEYS[2]) == 1
if ARGV[3] == '' then
	if not playerExists then
		return -2
	end
elseif playerExists then
	return -4
end
if redis.call('HEXISTS', KEYS[3], ARGV[1]) == 1 then
	return -3
end
if ARGV[3] ~= '' then
	redis.call('SET', KEYS[2], ARGV[3])
end
redis.call('HSET', KEYS[3], ARGV[1], ARGV[2])
redis.call('RPUSH', KEYS[4], ARGV[2])
return 1
`)

func (s *Storage) InsertServerPlayer(ctx context.Context, sp model.ServerPlayer) error {
	return s.assignNation(ctx, sp, "")
}

func (s *Storage) InsertRegistration(ctx context.Context, player *model.Player, sp model.ServerPlayer) error {
	data, err := marshalPlayer(player)
	if err != nil {
		return err
	}
	return s.assignNation(ctx, sp, string(data))
}

func (s *Storage) assignNation(ctx context.Context, sp model.ServerPlayer, playerData string) error {
	result, err := assignNationScript.Run(ctx, s.client,
		[]string{
			serverKey(sp.ServerAlias),
			playerKey(sp.DiscordUserID),
			serverNationsKey(sp.ServerAlias),
			serverPlayersKey(sp.ServerAlias),
		},
		strconv.FormatUint(uint64(sp.NationID), 10), encodeEntry(sp), playerData,
	).Int()
	if err != nil {
		return err
	}

	switch result {
	case resultOK:
		return nil
	case resultServerNotFound:
		return model.ErrServerNotFound
	case resultPlayerNotFound:
		return model.ErrPlayerNotFound
	case resultNationTaken:
		return model.ErrNationAlreadyTaken
	case resultPlayerRegistered:
		return model.ErrPlayerAlreadyRegistered
	default:
		return fmt.Errorf("unexpected assign result %d", result)
	}
}

func (s *Storage) ListServerPlayers(ctx context.Context, alias model.ServerAlias) ([]model.ServerPlayer, error) {
	entries, err := s.client.LRange(ctx, serverPlayersKey(alias), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	players := make([]model.ServerPlayer, 0, len(entries))
	for _, entry := range entries {
		sp, err := decodeEntry(alias, entry)
		if err != nil {
			return nil, err
		}
		players = append(players, sp)
	}
	return players, nil
}

// Assignments are stored as "<user id>:<nation id>"

func encodeEntry(sp model.ServerPlayer) string {
	return fmt.Sprintf("%d:%d", sp.DiscordUserID, sp.NationID)
}

func decodeEntry(alias model.ServerAlias, entry string) (model.ServerPlayer, error) {
	user, nation, ok := strings.Cut(entry, ":")
	if !ok {
		return model.ServerPlayer{}, fmt.Errorf("malformed server player entry %q", entry)
	}
	userID, err := strconv.ParseUint(user, 10, 64)
	if err != nil {
		return model.ServerPlayer{}, fmt.Errorf("malformed server player entry %q: %w", entry, err)
	}
	nationID, err := strconv.ParseUint(nation, 10, 32)
	if err != nil {
		return model.ServerPlayer{}, fmt.Errorf("malformed server player entry %q: %w", entry, err)
	}
	return model.ServerPlayer{
		ServerAlias:   alias,
		DiscordUserID: model.DiscordUserID(userID),
		NationID:      model.NationID(nationID),
	}, nil
}
