package gamequery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dombot/internal/dependencies/gamequery"
	"github.com/mcoot/dombot/internal/dependencies/mocks"
	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/testutil"
)

type CachedClientSuite struct {
	suite.Suite
	next   *mocks.MockQueryClient
	client *gamequery.CachedClient
	ctx    context.Context
}

func TestCachedClientSuite(t *testing.T) {
	suite.Run(t, new(CachedClientSuite))
}

func (s *CachedClientSuite) SetupTest() {
	s.next = mocks.NewMockQueryClient()
	s.client = gamequery.NewCachedClient(s.next, time.Minute, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *CachedClientSuite) TestSecondFetchIsServedFromCache() {
	s.next.SetGame("host:1", &gamequery.GameData{
		Nations:     []model.Nation{{ID: 5, Name: "Arcoscephale"}},
		CurrentTurn: 2,
	})

	first, err := s.client.Fetch(s.ctx, "host:1")
	s.Require().NoError(err)
	second, err := s.client.Fetch(s.ctx, "host:1")
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal([]string{"host:1"}, s.next.Calls())
}

func (s *CachedClientSuite) TestAddressesAreCachedSeparately() {
	s.next.SetGame("host:1", &gamequery.GameData{CurrentTurn: 1})
	s.next.SetGame("host:2", &gamequery.GameData{CurrentTurn: 2})

	one, err := s.client.Fetch(s.ctx, "host:1")
	s.Require().NoError(err)
	two, err := s.client.Fetch(s.ctx, "host:2")
	s.Require().NoError(err)

	s.Equal(1, one.CurrentTurn)
	s.Equal(2, two.CurrentTurn)
}

func (s *CachedClientSuite) TestPretenderPhaseRosterIsNotCached() {
	s.next.SetGame("host:1", &gamequery.GameData{CurrentTurn: gamequery.PretenderTurn})
	first, err := s.client.Fetch(s.ctx, "host:1")
	s.Require().NoError(err)
	s.Empty(first.Nations)

	s.next.SetGame("host:1", &gamequery.GameData{
		Nations:     []model.Nation{{ID: 5, Name: "Arcoscephale"}},
		CurrentTurn: gamequery.PretenderTurn,
	})
	second, err := s.client.Fetch(s.ctx, "host:1")
	s.Require().NoError(err)
	s.Equal([]model.Nation{{ID: 5, Name: "Arcoscephale"}}, second.Nations)
	s.Len(s.next.Calls(), 2)
}

func (s *CachedClientSuite) TestErrorsAreNotCached() {
	s.next.Err = errors.New("boom")
	_, err := s.client.Fetch(s.ctx, "host:1")
	s.Require().Error(err)

	s.next.Err = nil
	s.next.SetGame("host:1", &gamequery.GameData{CurrentTurn: 4})
	data, err := s.client.Fetch(s.ctx, "host:1")
	s.Require().NoError(err)
	s.Equal(4, data.CurrentTurn)
	s.Len(s.next.Calls(), 2)
}

func (s *CachedClientSuite) TestCallerMutationDoesNotLeakIntoCache() {
	s.next.SetGame("host:1", &gamequery.GameData{
		Nations: []model.Nation{{ID: 5, Name: "Arcoscephale"}},
	})

	first, err := s.client.Fetch(s.ctx, "host:1")
	s.Require().NoError(err)
	first.Nations[0].Name = "changed"

	second, err := s.client.Fetch(s.ctx, "host:1")
	s.Require().NoError(err)
	s.Equal("Arcoscephale", second.Nations[0].Name)
}
