// Package registration decides whether a player may claim a nation on a
// game server and records the claim.
package registration

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/dombot/internal/dependencies/clock"
	"github.com/mcoot/dombot/internal/dependencies/gamequery"
	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/nations"
	"github.com/mcoot/dombot/internal/storage"
)

// DefaultQueryTimeout bounds the live roster fetch for started servers
const DefaultQueryTimeout = 5 * time.Second

// Service registers players into lobbies and started games
type Service struct {
	storage      storage.Storage
	catalog      *nations.Catalog
	query        gamequery.Client
	clock        clock.Clock
	tracer       trace.Tracer
	logger       *slog.Logger
	queryTimeout time.Duration
}

// NewService creates a new registration Service
func NewService(
	storage storage.Storage,
	catalog *nations.Catalog,
	query gamequery.Client,
	clock clock.Clock,
	tracer trace.Tracer,
	logger *slog.Logger,
	queryTimeout time.Duration,
) *Service {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	return &Service{
		storage:      storage,
		catalog:      catalog,
		query:        query,
		clock:        clock,
		tracer:       tracer,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

// Register claims the nation matching query on the server named alias for
// the given user. Every failure is a *model.RegistrationError.
func (s *Service) Register(ctx context.Context, userID model.DiscordUserID, query string, alias model.ServerAlias) (*model.Registration, error) {
	ctx, span := s.tracer.Start(ctx, "registration.Register", trace.WithAttributes(
		attribute.String("server.alias", string(alias)),
		attribute.String("nation.query", query),
		attribute.String("discord.user_id", userID.String()),
	))
	defer span.End()

	reg, err := s.register(ctx, userID, query, alias)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int64("nation.id", int64(reg.Nation.ID)))
	s.logger.InfoContext(ctx, "player registered",
		"alias", alias,
		"discord_user_id", userID,
		"nation_id", reg.Nation.ID,
		"nation", reg.Nation.Name,
	)
	return reg, nil
}

func (s *Service) register(ctx context.Context, userID model.DiscordUserID, query string, alias model.ServerAlias) (*model.Registration, error) {
	server, err := s.storage.GetServer(ctx, alias)
	if errors.Is(err, model.ErrServerNotFound) {
		return nil, model.NewRegistrationError(model.ErrServerNotFound, query, nil)
	}
	if err != nil {
		return nil, s.storageError(ctx, "failed to load server", alias, query, err)
	}

	switch state := server.State.(type) {
	case *model.LobbyState:
		return s.registerInLobby(ctx, userID, query, alias, state)
	case *model.StartedState:
		return s.registerInGame(ctx, userID, query, alias, state)
	default:
		return nil, s.storageError(ctx, "server has no state", alias, query, model.ErrStorage)
	}
}

func (s *Service) registerInLobby(ctx context.Context, userID model.DiscordUserID, query string, alias model.ServerAlias, lobby *model.LobbyState) (*model.Registration, error) {
	assignments, err := s.storage.ListServerPlayers(ctx, alias)
	if err != nil {
		return nil, s.storageError(ctx, "failed to list server players", alias, query, err)
	}
	if len(assignments) >= lobby.PlayerCount {
		return nil, model.NewRegistrationError(model.ErrLobbyFull, query, nil)
	}

	nation, err := nations.Resolve(s.catalog.ByEra(lobby.Era), query)
	if err != nil {
		return nil, model.NewRegistrationError(err, query, nil)
	}
	if nationTaken(assignments, nation.ID) {
		return nil, model.NewRegistrationError(model.ErrNationAlreadyTaken, query, nil)
	}

	if err := s.persist(ctx, userID, query, alias, nation.ID); err != nil {
		return nil, err
	}
	return &model.Registration{ServerAlias: alias, DiscordUserID: userID, Nation: nation}, nil
}

func (s *Service) registerInGame(ctx context.Context, userID model.DiscordUserID, query string, alias model.ServerAlias, started *model.StartedState) (*model.Registration, error) {
	game, err := s.fetchGame(ctx, started.Address)
	if err != nil {
		s.logger.WarnContext(ctx, "game server unreachable",
			"alias", alias,
			"address", started.Address,
			"error", err,
		)
		return nil, model.NewRegistrationError(model.ErrGameServerUnreachable, query, err)
	}

	nation, err := nations.Resolve(game.Nations, query)
	if err != nil {
		regErr := model.NewRegistrationError(err, query, nil)
		// Nations only appear once their pretender has been uploaded
		regErr.PretenderHint = errors.Is(err, model.ErrNationNotFound) && game.TakingPretenders()
		return nil, regErr
	}

	assignments, err := s.storage.ListServerPlayers(ctx, alias)
	if err != nil {
		return nil, s.storageError(ctx, "failed to list server players", alias, query, err)
	}
	if nationTaken(assignments, nation.ID) {
		return nil, model.NewRegistrationError(model.ErrNationAlreadyTaken, query, nil)
	}

	if err := s.persist(ctx, userID, query, alias, nation.ID); err != nil {
		return nil, err
	}
	return &model.Registration{
		ServerAlias:   alias,
		DiscordUserID: userID,
		Nation:        model.Nation{ID: nation.ID, Name: nation.Name},
	}, nil
}

func (s *Service) fetchGame(ctx context.Context, address string) (*gamequery.GameData, error) {
	ctx, span := s.tracer.Start(ctx, "gamequery.Fetch", trace.WithAttributes(
		attribute.String("server.address", address),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	game, err := s.query.Fetch(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("game.turn", game.CurrentTurn),
		attribute.Int("game.nations", len(game.Nations)),
	)
	return game, nil
}

// persist writes the player and the assignment together
func (s *Service) persist(ctx context.Context, userID model.DiscordUserID, query string, alias model.ServerAlias, nationID model.NationID) error {
	player := model.NewPlayer(userID, s.clock.Now())
	sp := model.ServerPlayer{ServerAlias: alias, DiscordUserID: userID, NationID: nationID}

	err := s.storage.InsertRegistration(ctx, player, sp)
	if err == nil {
		return nil
	}
	for _, reason := range []error{
		model.ErrPlayerAlreadyRegistered,
		model.ErrNationAlreadyTaken,
		model.ErrServerNotFound,
	} {
		if errors.Is(err, reason) {
			return model.NewRegistrationError(reason, query, nil)
		}
	}
	return s.storageError(ctx, "failed to save registration", alias, query, err)
}

func (s *Service) storageError(ctx context.Context, msg string, alias model.ServerAlias, query string, err error) error {
	s.logger.ErrorContext(ctx, msg,
		"alias", alias,
		"error", err,
	)
	return model.NewRegistrationError(model.ErrStorage, query, err)
}

func nationTaken(assignments []model.ServerPlayer, id model.NationID) bool {
	for _, a := range assignments {
		if a.NationID == id {
			return true
		}
	}
	return false
}
