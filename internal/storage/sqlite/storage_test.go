package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/storage"
	"github.com/mcoot/dombot/internal/storage/storagetest"
)

func openTestStorage(t *testing.T, path string) *Storage {
	t.Helper()
	st, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestStorageContract(t *testing.T) {
	suite.Run(t, &storagetest.ContractSuite{
		NewStorage: func(t *testing.T) storage.Storage {
			return openTestStorage(t, filepath.Join(t.TempDir(), "dombot.db"))
		},
	})
}

type StorageSuite struct {
	suite.Suite
	dir string
	ctx context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestOpenRequiresPath() {
	_, err := Open("  ")
	s.Require().Error(err)
}

func (s *StorageSuite) TestOpenCreatesParentDirectory() {
	st := openTestStorage(s.T(), filepath.Join(s.dir, "nested", "dir", "dombot.db"))
	servers, err := st.ListServers(s.ctx)
	s.Require().NoError(err)
	s.Empty(servers)
}

func (s *StorageSuite) TestDataSurvivesReopen() {
	path := filepath.Join(s.dir, "dombot.db")
	createdAt := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	first, err := Open(path)
	s.Require().NoError(err)
	s.Require().NoError(first.InsertServer(s.ctx, &model.GameServer{
		Alias:     "persisted",
		State:     &model.LobbyState{Owner: 7, PlayerCount: 3, Era: model.EraLate},
		CreatedAt: createdAt,
	}))
	s.Require().NoError(first.InsertRegistration(s.ctx,
		model.NewPlayer(42, createdAt),
		model.ServerPlayer{ServerAlias: "persisted", DiscordUserID: 42, NationID: 80},
	))
	s.Require().NoError(first.Close())

	// Migrations must be a no-op the second time round
	second := openTestStorage(s.T(), path)

	server, err := second.GetServer(s.ctx, "persisted")
	s.Require().NoError(err)
	s.Equal(createdAt, server.CreatedAt)
	s.Require().NotNil(server.Lobby())
	s.Equal(model.EraLate, server.Lobby().Era)

	player, err := second.GetPlayer(s.ctx, 42)
	s.Require().NoError(err)
	s.True(player.TurnNotifications)

	players, err := second.ListServerPlayers(s.ctx, "persisted")
	s.Require().NoError(err)
	s.Equal([]model.ServerPlayer{{ServerAlias: "persisted", DiscordUserID: 42, NationID: 80}}, players)
}

func (s *StorageSuite) TestStartServerRemovesOldPayload() {
	st := openTestStorage(s.T(), filepath.Join(s.dir, "dombot.db"))
	s.Require().NoError(st.InsertServer(s.ctx, &model.GameServer{
		Alias:     "game",
		State:     &model.LobbyState{Owner: 1, PlayerCount: 2, Era: model.EraEarly},
		CreatedAt: time.Now(),
	}))
	s.Require().NoError(st.StartServer(s.ctx, "game", &model.StartedState{Address: "host:1234", LastSeenTurn: -1}))

	var lobbies, started int
	s.Require().NoError(st.db.QueryRowContext(s.ctx, `SELECT COUNT(*) FROM lobbies`).Scan(&lobbies))
	s.Require().NoError(st.db.QueryRowContext(s.ctx, `SELECT COUNT(*) FROM started_servers`).Scan(&started))
	s.Equal(0, lobbies)
	s.Equal(1, started)
}

func (s *StorageSuite) TestLargeDiscordUserIDRoundTrips() {
	st := openTestStorage(s.T(), filepath.Join(s.dir, "dombot.db"))
	id := model.DiscordUserID(1<<63 + 5)
	s.Require().NoError(st.InsertPlayer(s.ctx, model.NewPlayer(id, time.Now())))

	player, err := st.GetPlayer(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(id, player.DiscordUserID)
}
