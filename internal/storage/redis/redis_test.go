package redis_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/cory-johannsen/minidnd/internal/game/character"
	"github.com/cory-johannsen/minidnd/internal/game/inventory"
	"github.com/cory-johannsen/minidnd/internal/storage"
	rosterredis "github.com/cory-johannsen/minidnd/internal/storage/redis"
)

type RosterStoreSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	store *rosterredis.RosterStore
}

func (s *RosterStoreSuite) SetupTest() {
	client, mock := redismock.NewClientMock()
	s.mock = mock
	s.store = rosterredis.NewRosterStore(client, zap.NewNop())
}

func (s *RosterStoreSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRosterStoreSuite(t *testing.T) {
	suite.Run(t, new(RosterStoreSuite))
}

func party() character.Roster {
	alice := character.NewDefault()
	alice.AddProficiency(character.Wisdom, character.AbilityCheck, "perception", 0)
	bob := character.New("Bob", character.DefaultAbilityScores(), inventory.Coins{Gold: 3}, 30, 0, 12, 2700, 30)
	return character.Roster{alice.Name: alice, bob.Name: bob}
}

func (s *RosterStoreSuite) TestSave() {
	ctx := context.Background()
	data, err := json.Marshal(party())
	s.Require().NoError(err)

	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("roster:heroes", string(data), 0).SetVal("OK")
	s.mock.ExpectSAdd("rosters", "heroes").SetVal(1)
	s.mock.ExpectTxPipelineExec()
	s.NoError(s.store.Save(ctx, "heroes", party()))
}

func (s *RosterStoreSuite) TestSave_RedisError() {
	ctx := context.Background()
	data, err := json.Marshal(party())
	s.Require().NoError(err)

	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("roster:heroes", string(data), 0).SetErr(errors.New("connection refused"))
	err = s.store.Save(ctx, "heroes", party())
	s.ErrorIs(err, storage.ErrPersistence)
}

func (s *RosterStoreSuite) TestSave_IndexFailureFailsSave() {
	ctx := context.Background()
	data, err := json.Marshal(party())
	s.Require().NoError(err)

	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("roster:heroes", string(data), 0).SetVal("OK")
	s.mock.ExpectSAdd("rosters", "heroes").SetErr(errors.New("OOM command not allowed"))
	err = s.store.Save(ctx, "heroes", party())
	s.ErrorIs(err, storage.ErrPersistence)
	s.ErrorContains(err, "OOM")
}

func (s *RosterStoreSuite) TestLoad() {
	ctx := context.Background()
	want := party()
	data, err := json.Marshal(want)
	s.Require().NoError(err)

	s.mock.ExpectGet("roster:heroes").SetVal(string(data))
	got, err := s.store.Load(ctx, "heroes")
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *RosterStoreSuite) TestLoad_NotFound() {
	s.mock.ExpectGet("roster:ghosts").RedisNil()
	_, err := s.store.Load(context.Background(), "ghosts")
	s.ErrorIs(err, storage.ErrRosterNotFound)
	s.ErrorIs(err, storage.ErrPersistence)
}

func (s *RosterStoreSuite) TestLoad_Malformed() {
	s.mock.ExpectGet("roster:broken").SetVal(`{"Alice": `)
	_, err := s.store.Load(context.Background(), "broken")
	s.ErrorIs(err, storage.ErrPersistence)

	s.mock.ExpectGet("roster:null").SetVal(`null`)
	_, err = s.store.Load(context.Background(), "null")
	s.ErrorIs(err, storage.ErrPersistence)
	s.ErrorIs(err, storage.ErrMalformed)
}

func (s *RosterStoreSuite) TestLoad_NullActor() {
	s.mock.ExpectGet("roster:heroes").SetVal(`{"Alice":null}`)
	roster, err := s.store.Load(context.Background(), "heroes")
	s.Nil(roster)
	s.ErrorIs(err, storage.ErrMalformed)
	s.ErrorIs(err, storage.ErrPersistence)
	s.ErrorContains(err, `"Alice"`)
}

func (s *RosterStoreSuite) TestNames() {
	var _ storage.RosterLister = s.store
	var _ storage.RosterDeleter = s.store

	s.mock.ExpectSMembers("rosters").SetVal([]string{"villains", "heroes"})
	names, err := s.store.Names(context.Background())
	s.Require().NoError(err)
	s.Equal([]string{"heroes", "villains"}, names)
}

func (s *RosterStoreSuite) TestDelete() {
	ctx := context.Background()
	s.mock.ExpectTxPipeline()
	s.mock.ExpectDel("roster:heroes").SetVal(1)
	s.mock.ExpectSRem("rosters", "heroes").SetVal(1)
	s.mock.ExpectTxPipelineExec()
	s.NoError(s.store.Delete(ctx, "heroes"))

	s.mock.ExpectTxPipeline()
	s.mock.ExpectDel("roster:ghosts").SetVal(0)
	s.mock.ExpectSRem("rosters", "ghosts").SetVal(0)
	s.mock.ExpectTxPipelineExec()
	err := s.store.Delete(ctx, "ghosts")
	s.ErrorIs(err, storage.ErrRosterNotFound)
	s.ErrorIs(err, storage.ErrPersistence)
}
