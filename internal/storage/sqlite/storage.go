package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/storage"
	"github.com/mcoot/dombot/internal/storage/sqlite/migrations"
)

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens the database at path, creating it if needed, and applies migrations
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := "file:" + cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serialises writers, so transactions never race for the write lock
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Storage{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	// m.Close would close db through the driver, so only the source is released
	defer src.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close releases the database handle
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Server operations

const serverSelect = `
SELECT g.alias, g.created_at, l.owner_id, l.player_count, l.era, st.address, st.last_seen_turn
FROM game_servers g
LEFT JOIN lobbies l ON l.id = g.lobby_id
LEFT JOIN started_servers st ON st.id = g.started_server_id`

func (s *Storage) InsertServer(ctx context.Context, server *model.GameServer) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		lobbyID, startedID, err := insertState(ctx, tx, server.State)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO game_servers (alias, lobby_id, started_server_id, created_at) VALUES (?, ?, ?, ?)`,
			string(server.Alias), lobbyID, startedID, server.CreatedAt.UTC().UnixMilli(),
		)
		if isUniqueConstraintError(err) {
			return model.ErrServerAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("insert server: %w", err)
		}
		return nil
	})
}

func (s *Storage) GetServer(ctx context.Context, alias model.ServerAlias) (*model.GameServer, error) {
	row := s.db.QueryRowContext(ctx, serverSelect+` WHERE g.alias = ?`, string(alias))
	server, err := scanServer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrServerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get server: %w", err)
	}
	return server, nil
}

func (s *Storage) StartServer(ctx context.Context, alias model.ServerAlias, state *model.StartedState) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		var oldLobby, oldStarted sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT id, lobby_id, started_server_id FROM game_servers WHERE alias = ?`, string(alias),
		).Scan(&id, &oldLobby, &oldStarted)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrServerNotFound
		}
		if err != nil {
			return fmt.Errorf("find server: %w", err)
		}
		if !oldLobby.Valid {
			return model.ErrServerNotLobby
		}

		lobbyID, startedID, err := insertState(ctx, tx, state)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE game_servers SET lobby_id = ?, started_server_id = ? WHERE id = ? AND lobby_id = ?`,
			lobbyID, startedID, id, oldLobby.Int64,
		)
		if err != nil {
			return fmt.Errorf("update server state: %w", err)
		}
		updated, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update server state: %w", err)
		}
		if updated == 0 {
			return model.ErrServerNotLobby
		}

		if oldLobby.Valid {
			if _, err := tx.ExecContext(ctx, `DELETE FROM lobbies WHERE id = ?`, oldLobby.Int64); err != nil {
				return fmt.Errorf("delete lobby state: %w", err)
			}
		}
		if oldStarted.Valid {
			if _, err := tx.ExecContext(ctx, `DELETE FROM started_servers WHERE id = ?`, oldStarted.Int64); err != nil {
				return fmt.Errorf("delete started state: %w", err)
			}
		}
		return nil
	})
}

func (s *Storage) ListServers(ctx context.Context) ([]*model.GameServer, error) {
	rows, err := s.db.QueryContext(ctx, serverSelect+` ORDER BY g.alias`)
	if err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	defer rows.Close()

	servers := []*model.GameServer{}
	for rows.Next() {
		server, err := scanServer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan server: %w", err)
		}
		servers = append(servers, server)
	}
	return servers, rows.Err()
}

// insertState writes the state payload row and returns its id in the matching column
func insertState(ctx context.Context, q querier, state model.ServerState) (lobbyID, startedID sql.NullInt64, err error) {
	var res sql.Result
	switch st := state.(type) {
	case *model.LobbyState:
		res, err = q.ExecContext(ctx,
			`INSERT INTO lobbies (owner_id, player_count, era) VALUES (?, ?, ?)`,
			int64(st.Owner), st.PlayerCount, int(st.Era),
		)
		if err != nil {
			return lobbyID, startedID, fmt.Errorf("insert lobby: %w", err)
		}
		id, err := res.LastInsertId()
		return sql.NullInt64{Int64: id, Valid: err == nil}, startedID, err
	case *model.StartedState:
		res, err = q.ExecContext(ctx,
			`INSERT INTO started_servers (address, last_seen_turn) VALUES (?, ?)`,
			st.Address, st.LastSeenTurn,
		)
		if err != nil {
			return lobbyID, startedID, fmt.Errorf("insert started server: %w", err)
		}
		id, err := res.LastInsertId()
		return lobbyID, sql.NullInt64{Int64: id, Valid: err == nil}, err
	default:
		return lobbyID, startedID, fmt.Errorf("unknown server state %T", state)
	}
}

func scanServer(scanner interface{ Scan(...any) error }) (*model.GameServer, error) {
	var (
		alias       string
		createdAt   int64
		owner       sql.NullInt64
		playerCount sql.NullInt64
		era         sql.NullInt64
		address     sql.NullString
		lastSeen    sql.NullInt64
	)
	if err := scanner.Scan(&alias, &createdAt, &owner, &playerCount, &era, &address, &lastSeen); err != nil {
		return nil, err
	}

	server := &model.GameServer{
		Alias:     model.ServerAlias(alias),
		CreatedAt: time.UnixMilli(createdAt).UTC(),
	}
	if playerCount.Valid {
		server.State = &model.LobbyState{
			Owner:       model.DiscordUserID(owner.Int64),
			PlayerCount: int(playerCount.Int64),
			Era:         model.Era(era.Int64),
		}
	} else {
		server.State = &model.StartedState{
			Address:      address.String,
			LastSeenTurn: int(lastSeen.Int64),
		}
	}
	return server, nil
}

// Player operations

func (s *Storage) InsertPlayer(ctx context.Context, player *model.Player) error {
	_, err := insertPlayer(ctx, s.db, player)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.DiscordUserID) (*model.Player, error) {
	var (
		notifications bool
		createdAt     int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT turn_notifications, created_at FROM players WHERE discord_user_id = ?`, int64(id),
	).Scan(&notifications, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	return &model.Player{
		DiscordUserID:     id,
		TurnNotifications: notifications,
		CreatedAt:         time.UnixMilli(createdAt).UTC(),
	}, nil
}

func insertPlayer(ctx context.Context, q querier, player *model.Player) (int64, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO players (discord_user_id, turn_notifications, created_at) VALUES (?, ?, ?)`,
		int64(player.DiscordUserID), player.TurnNotifications, player.CreatedAt.UTC().UnixMilli(),
	)
	if isUniqueConstraintError(err) {
		return 0, model.ErrPlayerAlreadyRegistered
	}
	if err != nil {
		return 0, fmt.Errorf("insert player: %w", err)
	}
	return res.LastInsertId()
}

// Server player operations

func (s *Storage) InsertServerPlayer(ctx context.Context, sp model.ServerPlayer) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		serverID, err := serverID(ctx, tx, sp.ServerAlias)
		if err != nil {
			return err
		}
		var playerID int64
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM players WHERE discord_user_id = ?`, int64(sp.DiscordUserID),
		).Scan(&playerID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrPlayerNotFound
		}
		if err != nil {
			return fmt.Errorf("find player: %w", err)
		}
		return insertServerPlayer(ctx, tx, serverID, playerID, sp.NationID)
	})
}

func (s *Storage) ListServerPlayers(ctx context.Context, alias model.ServerAlias) ([]model.ServerPlayer, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT p.discord_user_id, sp.nation_id
FROM server_players sp
JOIN game_servers g ON g.id = sp.server_id
JOIN players p ON p.id = sp.player_id
WHERE g.alias = ?
ORDER BY sp.rowid`, string(alias))
	if err != nil {
		return nil, fmt.Errorf("list server players: %w", err)
	}
	defer rows.Close()

	players := []model.ServerPlayer{}
	for rows.Next() {
		var userID, nationID int64
		if err := rows.Scan(&userID, &nationID); err != nil {
			return nil, fmt.Errorf("scan server player: %w", err)
		}
		players = append(players, model.ServerPlayer{
			ServerAlias:   alias,
			DiscordUserID: model.DiscordUserID(userID),
			NationID:      model.NationID(nationID),
		})
	}
	return players, rows.Err()
}

func (s *Storage) InsertRegistration(ctx context.Context, player *model.Player, sp model.ServerPlayer) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		serverID, err := serverID(ctx, tx, sp.ServerAlias)
		if err != nil {
			return err
		}
		playerID, err := insertPlayer(ctx, tx, player)
		if err != nil {
			return err
		}
		return insertServerPlayer(ctx, tx, serverID, playerID, sp.NationID)
	})
}

func serverID(ctx context.Context, q querier, alias model.ServerAlias) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM game_servers WHERE alias = ?`, string(alias)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, model.ErrServerNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("find server: %w", err)
	}
	return id, nil
}

func insertServerPlayer(ctx context.Context, q querier, serverID, playerID int64, nationID model.NationID) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO server_players (server_id, player_id, nation_id) VALUES (?, ?, ?)`,
		serverID, playerID, int64(nationID),
	)
	if isUniqueConstraintError(err) {
		return model.ErrNationAlreadyTaken
	}
	if err != nil {
		return fmt.Errorf("insert server player: %w", err)
	}
	return nil
}

func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
