package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dombot/internal/command"
	"github.com/mcoot/dombot/internal/config"
	"github.com/mcoot/dombot/internal/dependencies/gamequery"
	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/storage/memory"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) say(author model.DiscordUserID, channel, content string) string {
	reply, ok := s.app.CommandAdapter.Handle(s.ctx, command.Message{
		AuthorID:    author,
		ChannelName: channel,
		Content:     content,
	})
	s.Require().True(ok, content)
	return reply
}

// Test: a lobby fills up, starts, and keeps its assignments
func (s *IntegrationSuite) TestLobbyToStartedGameFlow() {
	// Step 1: Owner opens an early-age lobby for two players
	s.Equal("Created EA lobby ea-game for 2 players", s.say(1, "ea-game", "!lobby ea 2"))

	// Step 2: Two players claim nations
	s.Equal("registering EA Arcoscephale for <@100>", s.say(100, "ea-game", "!register arco"))
	s.Equal("registering EA Ermor for <@101>", s.say(101, "ea-game", "!register ermor"))

	// Step 3: The lobby is full
	s.Equal("lobby already full", s.say(102, "ea-game", "!register pangaea"))

	// Step 4: The owner starts the game
	s.Equal("Started ea-game at dom.example.com:30001", s.say(1, "ea-game", "!start dom.example.com:30001"))

	details, err := s.app.ServersService.Details(s.ctx, "ea-game")
	s.Require().NoError(err)
	s.NotNil(details.Server.Started())
	s.Equal([]model.ServerPlayer{
		{ServerAlias: "ea-game", DiscordUserID: 100, NationID: 5},
		{ServerAlias: "ea-game", DiscordUserID: 101, NationID: 6},
	}, details.Players)

	// Step 5: Registration now goes through the live roster
	s.app.MockQuery.SetGame("dom.example.com:30001", &gamequery.GameData{
		Name:        "ea-game",
		Nations:     []model.Nation{{ID: 5, Name: "Arcoscephale"}, {ID: 6, Name: "Ermor"}, {ID: 16, Name: "Pangaea"}},
		CurrentTurn: 1,
	})
	s.Equal("registering nation Pangaea for user <@102>", s.say(102, "ea-game", "!register pangaea"))
	s.Equal("Nation already taken: ermor", s.say(103, "ea-game", "!register ermor"))
	s.Equal([]string{"dom.example.com:30001", "dom.example.com:30001"}, s.app.MockQuery.Calls())
}

// Test: a player holds one nation across all servers
func (s *IntegrationSuite) TestPlayerRegistersOnce() {
	s.say(1, "one", "!lobby la 4")
	s.say(1, "two", "!lobby la 4")

	s.Equal("registering LA Man for <@100>", s.say(100, "one", "!register man"))
	s.Equal("You are already registered", s.say(100, "two", "!register lemuria"))

	player, err := s.app.Storage.GetPlayer(s.ctx, 100)
	s.Require().NoError(err)
	s.True(player.TurnNotifications)
	s.Equal(s.app.MockClock.Now(), player.CreatedAt)
}

// Test: an added server is usable without ever being a lobby
func (s *IntegrationSuite) TestAddedServerBeforePretenders() {
	s.say(1, "live", "!add dom.example.com:30002")
	s.app.MockQuery.SetGame("dom.example.com:30002", &gamequery.GameData{CurrentTurn: -1})

	s.Equal(
		"Could not find nation starting with ermor. Make sure you've uploaded a pretender first",
		s.say(100, "live", "!register ermor"),
	)
	s.Equal("live: running at dom.example.com:30002", s.say(100, "live", "!details"))
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	_, err := New(Config{StorageType: "postgres"})
	if err == nil {
		t.Fatal("expected error for unknown storage type")
	}
}

func TestNewAcceptsConfiguredStorageType(t *testing.T) {
	t.Setenv("STORAGE_TYPE", config.StorageMemory)
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	app, err := New(Config{StorageType: cfg.StorageType})
	if err != nil {
		t.Fatalf("New(%q): %v", cfg.StorageType, err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if _, ok := app.Storage.(*memory.Storage); !ok {
		t.Fatalf("expected memory storage, got %T", app.Storage)
	}
}

func TestNewRedisRequiresConfig(t *testing.T) {
	_, err := New(Config{StorageType: config.StorageRedis})
	if err == nil {
		t.Fatal("expected error without RedisConfig")
	}
}

func TestNewWithSQLite(t *testing.T) {
	app, err := New(Config{
		StorageType:    config.StorageSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "dombot.db"),
		RosterCacheTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if _, ok := app.QueryClient.(*gamequery.CachedClient); !ok {
		t.Fatalf("expected cached query client, got %T", app.QueryClient)
	}

	reply, ok := app.CommandAdapter.Handle(context.Background(), command.Message{AuthorID: 1, ChannelName: "g", Content: "!lobby ma 3"})
	if !ok || reply != "Created MA lobby g for 3 players" {
		t.Fatalf("unexpected reply %q", reply)
	}
}
