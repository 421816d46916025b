package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/storage"
	"github.com/mcoot/dombot/internal/storage/storagetest"
)

func TestStorageContract(t *testing.T) {
	suite.Run(t, &storagetest.ContractSuite{
		NewStorage: func(*testing.T) storage.Storage { return New() },
	})
}

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestGetServerReturnsCopy() {
	s.Require().NoError(s.storage.InsertServer(s.ctx, &model.GameServer{
		Alias: "game",
		State: &model.LobbyState{PlayerCount: 2, Era: model.EraEarly},
	}))

	got, err := s.storage.GetServer(s.ctx, "game")
	s.Require().NoError(err)
	got.Lobby().PlayerCount = 99

	again, err := s.storage.GetServer(s.ctx, "game")
	s.Require().NoError(err)
	s.Equal(2, again.Lobby().PlayerCount)
}

func (s *StorageSuite) TestListServerPlayersReturnsCopy() {
	s.Require().NoError(s.storage.InsertServer(s.ctx, &model.GameServer{
		Alias: "game",
		State: &model.LobbyState{PlayerCount: 2, Era: model.EraEarly},
	}))
	sp := model.ServerPlayer{ServerAlias: "game", DiscordUserID: 1, NationID: 5}
	s.Require().NoError(s.storage.InsertRegistration(s.ctx, model.NewPlayer(1, time.Now()), sp))

	players, err := s.storage.ListServerPlayers(s.ctx, "game")
	s.Require().NoError(err)
	players[0].NationID = 6

	again, err := s.storage.ListServerPlayers(s.ctx, "game")
	s.Require().NoError(err)
	s.Equal([]model.ServerPlayer{sp}, again)
}

// TestRegistrationInvariants drives random registration attempts and checks
// that no user or (server, nation) pair is ever stored twice.
func TestRegistrationInvariants(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		ctx := context.Background()
		store := New()
		aliases := []model.ServerAlias{"one", "two"}
		for _, alias := range aliases {
			if err := store.InsertServer(ctx, &model.GameServer{
				Alias: alias,
				State: &model.LobbyState{PlayerCount: 10, Era: model.EraEarly},
			}); err != nil {
				r.Fatalf("insert server: %v", err)
			}
		}

		succeeded := 0
		attempts := rapid.IntRange(1, 30).Draw(r, "attempts")
		for i := 0; i < attempts; i++ {
			user := model.DiscordUserID(rapid.IntRange(1, 8).Draw(r, "user"))
			alias := rapid.SampledFrom(aliases).Draw(r, "alias")
			nation := model.NationID(rapid.IntRange(1, 5).Draw(r, "nation"))

			err := store.InsertRegistration(ctx, model.NewPlayer(user, time.Now()),
				model.ServerPlayer{ServerAlias: alias, DiscordUserID: user, NationID: nation})
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, model.ErrPlayerAlreadyRegistered), errors.Is(err, model.ErrNationAlreadyTaken):
			default:
				r.Fatalf("unexpected error: %v", err)
			}
		}

		users := make(map[model.DiscordUserID]bool)
		rows := 0
		for _, alias := range aliases {
			players, err := store.ListServerPlayers(ctx, alias)
			if err != nil {
				r.Fatalf("list: %v", err)
			}
			nations := make(map[model.NationID]bool)
			for _, sp := range players {
				if nations[sp.NationID] {
					r.Fatalf("nation %d stored twice in %s", sp.NationID, alias)
				}
				nations[sp.NationID] = true
				if users[sp.DiscordUserID] {
					r.Fatalf("user %d registered twice", sp.DiscordUserID)
				}
				users[sp.DiscordUserID] = true
				rows++
			}
		}
		if rows != succeeded {
			r.Fatalf("%d rows stored for %d successful registrations", rows, succeeded)
		}
	})
}
