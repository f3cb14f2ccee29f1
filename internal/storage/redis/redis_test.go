package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/cory-johannsen/donut/internal/config"
	"github.com/cory-johannsen/donut/internal/game/item"
	"github.com/cory-johannsen/donut/internal/game/player"
	"github.com/cory-johannsen/donut/internal/game/rules"
	"github.com/cory-johannsen/donut/internal/game/session"
	"github.com/cory-johannsen/donut/internal/storage/redis"
)

type SaveStoreSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	store *redis.SaveStore
	model *player.Model
	ctx   context.Context
}

func (s *SaveStoreSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	client := redis.NewClient(config.RedisConfig{Addr: mr.Addr()})
	s.store = redis.NewSaveStore(client, "donut:session:", time.Hour)
	s.model = player.NewModel(rules.Default(), item.Default())
	s.ctx = context.Background()
}

func (s *SaveStoreSuite) TearDownTest() {
	s.mr.Close()
}

func (s *SaveStoreSuite) TestRoundTrip() {
	sess := session.New(s.model)
	sess.StartTurn()
	sess.AddLogEntry("A wild Goblin appears!")
	s.model.GainXP(sess.Player, 12)
	sess.Unlock("Fireball")

	s.Require().NoError(s.store.Put(s.ctx, sess))
	s.True(s.mr.Exists("donut:session:" + sess.ID))

	got, err := s.store.Get(s.ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(sess.Player, got.Player)
	s.Equal(sess.Log, got.Log)
	s.Equal([]string{"Fireball"}, got.UnlockedSpells)
	s.Equal(1, got.Turn)
}

func (s *SaveStoreSuite) TestMissing() {
	_, err := s.store.Get(s.ctx, "nope")
	s.ErrorIs(err, session.ErrNotFound)
}

func (s *SaveStoreSuite) TestTTLExpires() {
	sess := session.New(s.model)
	s.Require().NoError(s.store.Put(s.ctx, sess))
	s.mr.FastForward(2 * time.Hour)
	_, err := s.store.Get(s.ctx, sess.ID)
	s.ErrorIs(err, session.ErrNotFound)
}

func (s *SaveStoreSuite) TestDelete() {
	sess := session.New(s.model)
	s.Require().NoError(s.store.Put(s.ctx, sess))
	s.Require().NoError(s.store.Delete(s.ctx, sess.ID))
	_, err := s.store.Get(s.ctx, sess.ID)
	s.ErrorIs(err, session.ErrNotFound)
}

func (s *SaveStoreSuite) TestCorruptSave() {
	s.Require().NoError(s.mr.Set("donut:session:bad", "{not json"))
	_, err := s.store.Get(s.ctx, "bad")
	s.Error(err)
	s.NotErrorIs(err, session.ErrNotFound)
}

func TestSaveStoreSuite(t *testing.T) {
	suite.Run(t, new(SaveStoreSuite))
}
