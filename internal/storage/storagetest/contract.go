// Package storagetest provides a behavioural test suite shared by every
// storage backend.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/storage"
)

// ContractSuite runs the storage contract against a fresh backend per test
type ContractSuite struct {
	suite.Suite
	// NewStorage returns an empty backend; cleanup is registered on t
	NewStorage func(t *testing.T) storage.Storage

	storage storage.Storage
	ctx     context.Context
}

func (s *ContractSuite) SetupTest() {
	s.storage = s.NewStorage(s.T())
	s.ctx = context.Background()
}

var createdAt = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *ContractSuite) lobby(alias string, playerCount int) *model.GameServer {
	server := &model.GameServer{
		Alias:     model.ServerAlias(alias),
		State:     &model.LobbyState{Owner: 1, PlayerCount: playerCount, Era: model.EraEarly},
		CreatedAt: createdAt,
	}
	s.Require().NoError(s.storage.InsertServer(s.ctx, server))
	return server
}

func (s *ContractSuite) started(alias, address string) *model.GameServer {
	server := &model.GameServer{
		Alias:     model.ServerAlias(alias),
		State:     &model.StartedState{Address: address, LastSeenTurn: -1},
		CreatedAt: createdAt,
	}
	s.Require().NoError(s.storage.InsertServer(s.ctx, server))
	return server
}

// Server tests

func (s *ContractSuite) TestInsertAndGetLobbyServer() {
	s.lobby("ea-game", 4)

	got, err := s.storage.GetServer(s.ctx, "ea-game")
	s.Require().NoError(err)
	s.Equal(model.ServerAlias("ea-game"), got.Alias)
	s.Require().NotNil(got.Lobby())
	s.Nil(got.Started())
	s.Equal(model.LobbyState{Owner: 1, PlayerCount: 4, Era: model.EraEarly}, *got.Lobby())
	s.True(createdAt.Equal(got.CreatedAt))
}

func (s *ContractSuite) TestInsertAndGetStartedServer() {
	s.started("live", "dom.example.com:3000")

	got, err := s.storage.GetServer(s.ctx, "live")
	s.Require().NoError(err)
	s.Nil(got.Lobby())
	s.Require().NotNil(got.Started())
	s.Equal("dom.example.com:3000", got.Started().Address)
	s.Equal(-1, got.Started().LastSeenTurn)
}

func (s *ContractSuite) TestGetServerNotFound() {
	_, err := s.storage.GetServer(s.ctx, "missing")
	s.ErrorIs(err, model.ErrServerNotFound)
}

func (s *ContractSuite) TestServerAliasIsCaseSensitive() {
	s.lobby("Game", 2)

	_, err := s.storage.GetServer(s.ctx, "game")
	s.ErrorIs(err, model.ErrServerNotFound)

	s.lobby("game", 2)
}

func (s *ContractSuite) TestInsertServerDuplicateAlias() {
	s.lobby("dup", 2)

	err := s.storage.InsertServer(s.ctx, &model.GameServer{
		Alias: "dup",
		State: &model.StartedState{Address: "localhost:1"},
	})
	s.ErrorIs(err, model.ErrServerAlreadyExists)

	got, err := s.storage.GetServer(s.ctx, "dup")
	s.Require().NoError(err)
	s.NotNil(got.Lobby())
}

func (s *ContractSuite) TestStartServerReplacesPayload() {
	s.lobby("game", 2)

	err := s.storage.StartServer(s.ctx, "game", &model.StartedState{Address: "host:3000", LastSeenTurn: -1})
	s.Require().NoError(err)

	got, err := s.storage.GetServer(s.ctx, "game")
	s.Require().NoError(err)
	s.Nil(got.Lobby())
	s.Require().NotNil(got.Started())
	s.Equal("host:3000", got.Started().Address)
}

func (s *ContractSuite) TestStartServerNotFound() {
	err := s.storage.StartServer(s.ctx, "missing", &model.StartedState{Address: "host:3000"})
	s.ErrorIs(err, model.ErrServerNotFound)
}

func (s *ContractSuite) TestStartServerRejectsStartedServer() {
	s.started("live", "host:1")

	err := s.storage.StartServer(s.ctx, "live", &model.StartedState{Address: "host:2"})
	s.ErrorIs(err, model.ErrServerNotLobby)

	got, err := s.storage.GetServer(s.ctx, "live")
	s.Require().NoError(err)
	s.Equal("host:1", got.Started().Address)
}

func (s *ContractSuite) TestConcurrentStartServerHasOneWinner() {
	s.lobby("race", 2)

	const starters = 8
	errs := make(chan error, starters)
	var wg sync.WaitGroup
	for i := range starters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.storage.StartServer(s.ctx, "race", &model.StartedState{
				Address:      fmt.Sprintf("host:%d", 3000+i),
				LastSeenTurn: -1,
			})
		}()
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		s.ErrorIs(err, model.ErrServerNotLobby)
	}
	s.Equal(1, wins)
}

func (s *ContractSuite) TestListServersSortedByAlias() {
	s.lobby("b", 2)
	s.started("a", "host:1")
	s.lobby("c", 3)

	servers, err := s.storage.ListServers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(servers, 3)
	s.Equal(model.ServerAlias("a"), servers[0].Alias)
	s.Equal(model.ServerAlias("b"), servers[1].Alias)
	s.Equal(model.ServerAlias("c"), servers[2].Alias)
	s.NotNil(servers[0].Started())
	s.NotNil(servers[1].Lobby())
}

func (s *ContractSuite) TestListServersEmpty() {
	servers, err := s.storage.ListServers(s.ctx)
	s.Require().NoError(err)
	s.Empty(servers)
}

// Player tests

func (s *ContractSuite) TestInsertAndGetPlayer() {
	err := s.storage.InsertPlayer(s.ctx, model.NewPlayer(42, createdAt))
	s.Require().NoError(err)

	got, err := s.storage.GetPlayer(s.ctx, 42)
	s.Require().NoError(err)
	s.Equal(model.DiscordUserID(42), got.DiscordUserID)
	s.True(got.TurnNotifications)
}

func (s *ContractSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ContractSuite) TestInsertPlayerDuplicate() {
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, model.NewPlayer(42, createdAt)))

	err := s.storage.InsertPlayer(s.ctx, model.NewPlayer(42, createdAt))
	s.ErrorIs(err, model.ErrPlayerAlreadyRegistered)
}

// Server player tests

func (s *ContractSuite) TestInsertAndListServerPlayers() {
	s.lobby("game", 4)
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, model.NewPlayer(1, createdAt)))
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, model.NewPlayer(2, createdAt)))

	s.Require().NoError(s.storage.InsertServerPlayer(s.ctx, model.ServerPlayer{ServerAlias: "game", DiscordUserID: 1, NationID: 5}))
	s.Require().NoError(s.storage.InsertServerPlayer(s.ctx, model.ServerPlayer{ServerAlias: "game", DiscordUserID: 2, NationID: 6}))

	players, err := s.storage.ListServerPlayers(s.ctx, "game")
	s.Require().NoError(err)
	s.ElementsMatch([]model.ServerPlayer{
		{ServerAlias: "game", DiscordUserID: 1, NationID: 5},
		{ServerAlias: "game", DiscordUserID: 2, NationID: 6},
	}, players)
}

func (s *ContractSuite) TestListServerPlayersEmpty() {
	s.lobby("game", 4)

	players, err := s.storage.ListServerPlayers(s.ctx, "game")
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *ContractSuite) TestServerNationIsUnique() {
	s.lobby("game", 4)
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, model.NewPlayer(1, createdAt)))
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, model.NewPlayer(2, createdAt)))
	s.Require().NoError(s.storage.InsertServerPlayer(s.ctx, model.ServerPlayer{ServerAlias: "game", DiscordUserID: 1, NationID: 5}))

	err := s.storage.InsertServerPlayer(s.ctx, model.ServerPlayer{ServerAlias: "game", DiscordUserID: 2, NationID: 5})
	s.ErrorIs(err, model.ErrNationAlreadyTaken)

	players, err := s.storage.ListServerPlayers(s.ctx, "game")
	s.Require().NoError(err)
	s.Len(players, 1)
}

func (s *ContractSuite) TestSameNationInDifferentServers() {
	s.lobby("one", 4)
	s.lobby("two", 4)
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, model.NewPlayer(1, createdAt)))
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, model.NewPlayer(2, createdAt)))

	s.Require().NoError(s.storage.InsertServerPlayer(s.ctx, model.ServerPlayer{ServerAlias: "one", DiscordUserID: 1, NationID: 5}))
	s.Require().NoError(s.storage.InsertServerPlayer(s.ctx, model.ServerPlayer{ServerAlias: "two", DiscordUserID: 2, NationID: 5}))
}

func (s *ContractSuite) TestPlayerMayHoldSeveralNations() {
	s.lobby("game", 4)
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, model.NewPlayer(1, createdAt)))

	s.Require().NoError(s.storage.InsertServerPlayer(s.ctx, model.ServerPlayer{ServerAlias: "game", DiscordUserID: 1, NationID: 5}))
	s.Require().NoError(s.storage.InsertServerPlayer(s.ctx, model.ServerPlayer{ServerAlias: "game", DiscordUserID: 1, NationID: 6}))
}

func (s *ContractSuite) TestInsertServerPlayerUnknownServer() {
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, model.NewPlayer(1, createdAt)))

	err := s.storage.InsertServerPlayer(s.ctx, model.ServerPlayer{ServerAlias: "missing", DiscordUserID: 1, NationID: 5})
	s.ErrorIs(err, model.ErrServerNotFound)
}

func (s *ContractSuite) TestInsertServerPlayerUnknownPlayer() {
	s.lobby("game", 4)

	err := s.storage.InsertServerPlayer(s.ctx, model.ServerPlayer{ServerAlias: "game", DiscordUserID: 1, NationID: 5})
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registration tests

func (s *ContractSuite) TestInsertRegistrationWritesBothRows() {
	s.lobby("game", 4)

	err := s.storage.InsertRegistration(s.ctx, model.NewPlayer(1, createdAt), model.ServerPlayer{ServerAlias: "game", DiscordUserID: 1, NationID: 5})
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, 1)
	s.NoError(err)
	players, err := s.storage.ListServerPlayers(s.ctx, "game")
	s.Require().NoError(err)
	s.Equal([]model.ServerPlayer{{ServerAlias: "game", DiscordUserID: 1, NationID: 5}}, players)
}

func (s *ContractSuite) TestInsertRegistrationExistingPlayerWritesNothing() {
	s.lobby("game", 4)
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, model.NewPlayer(1, createdAt)))

	err := s.storage.InsertRegistration(s.ctx, model.NewPlayer(1, createdAt), model.ServerPlayer{ServerAlias: "game", DiscordUserID: 1, NationID: 5})
	s.ErrorIs(err, model.ErrPlayerAlreadyRegistered)

	players, err := s.storage.ListServerPlayers(s.ctx, "game")
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *ContractSuite) TestInsertRegistrationTakenNationWritesNothing() {
	s.lobby("game", 4)
	s.Require().NoError(s.storage.InsertRegistration(s.ctx, model.NewPlayer(1, createdAt), model.ServerPlayer{ServerAlias: "game", DiscordUserID: 1, NationID: 5}))

	err := s.storage.InsertRegistration(s.ctx, model.NewPlayer(2, createdAt), model.ServerPlayer{ServerAlias: "game", DiscordUserID: 2, NationID: 5})
	s.ErrorIs(err, model.ErrNationAlreadyTaken)

	_, err = s.storage.GetPlayer(s.ctx, 2)
	s.ErrorIs(err, model.ErrPlayerNotFound, "no orphan player row")
}

func (s *ContractSuite) TestInsertRegistrationUnknownServerWritesNothing() {
	err := s.storage.InsertRegistration(s.ctx, model.NewPlayer(1, createdAt), model.ServerPlayer{ServerAlias: "missing", DiscordUserID: 1, NationID: 5})
	s.ErrorIs(err, model.ErrServerNotFound)

	_, err = s.storage.GetPlayer(s.ctx, 1)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ContractSuite) TestConcurrentRegistrationsForOneNation() {
	s.lobby("game", 32)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := model.DiscordUserID(100 + i)
			errs[i] = s.storage.InsertRegistration(s.ctx, model.NewPlayer(id, createdAt), model.ServerPlayer{ServerAlias: "game", DiscordUserID: id, NationID: 5})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrNationAlreadyTaken)
	}
	s.Equal(1, succeeded)

	players, err := s.storage.ListServerPlayers(s.ctx, "game")
	s.Require().NoError(err)
	s.Len(players, 1)
}
