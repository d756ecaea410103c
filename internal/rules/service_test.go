package rules

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"SpadesEngine/internal/game/card"
	"SpadesEngine/internal/game/hand"
	"SpadesEngine/internal/game/trick"
)

func suit(s card.Suit) []card.Card {
	out := make([]card.Card, 0, 13)
	for _, r := range card.AllRanks() {
		out = append(out, card.New(r, s))
	}
	return out
}

func cp(c card.Card) *card.Card { return &c }
func ip(i int) *int             { return &i }

// failingCache 模拟缓存不可用
type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	return errors.New("cache down")
}

func TestWinner_TrumpBeatsLead(t *testing.T) {
	svc := NewService(nil, 0, nil)
	for lead := 0; lead < trick.Seats; lead++ {
		res, err := svc.Winner(context.Background(), TrickState{
			Lead: lead,
			Plays: []trick.Play{
				{Seat: lead, Card: card.New(card.Two, card.Clubs)},
				{Seat: (lead + 1) % trick.Seats, Card: card.New(card.Two, card.Spades)},
			},
		})
		assert.NoError(t, err)
		assert.Equal(t, cp(card.New(card.Two, card.Clubs)), res.Leader)
		assert.Equal(t, cp(card.New(card.Two, card.Spades)), res.Winner)
		assert.Equal(t, ip((lead+1)%trick.Seats), res.WinningSeat)
		assert.Equal(t, ip((lead+2)%trick.Seats), res.Next)
		assert.Equal(t, "in_progress", res.State)
	}
}

func TestWinner_EmptyAndFull(t *testing.T) {
	svc := NewService(nil, 0, nil)

	res, err := svc.Winner(context.Background(), TrickState{Lead: 2})
	assert.NoError(t, err)
	assert.Nil(t, res.Leader)
	assert.Nil(t, res.Winner)
	assert.Nil(t, res.WinningSeat)
	assert.Equal(t, ip(2), res.Next)
	assert.Equal(t, "empty", res.State)
	assert.Empty(t, res.Plays)

	res, err = svc.Winner(context.Background(), TrickState{
		Lead: 3,
		Plays: []trick.Play{
			{Seat: 3, Card: card.New(card.Nine, card.Hearts)},
			{Seat: 0, Card: card.New(card.Ace, card.Hearts)},
			{Seat: 1, Card: card.New(card.King, card.Diamonds)},
			{Seat: 2, Card: card.New(card.Ten, card.Hearts)},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, cp(card.New(card.Ace, card.Hearts)), res.Winner)
	assert.Equal(t, ip(0), res.WinningSeat)
	assert.Nil(t, res.Next)
	assert.Equal(t, "full", res.State)
}

func TestWinner_Errors(t *testing.T) {
	svc := NewService(nil, 0, nil)
	ctx := context.Background()

	_, err := svc.Winner(ctx, TrickState{Lead: 4})
	assert.ErrorIs(t, err, trick.ErrInvalidSeat)

	_, err = svc.Winner(ctx, TrickState{Lead: 1, Plays: []trick.Play{{Seat: 2, Card: card.New(card.Two, card.Clubs)}}})
	assert.ErrorIs(t, err, trick.ErrOutOfTurn)

	_, err = svc.Winner(ctx, TrickState{Lead: 1, Plays: []trick.Play{
		{Seat: 1, Card: card.New(card.Two, card.Clubs)},
		{Seat: 1, Card: card.New(card.Three, card.Clubs)},
	}})
	assert.ErrorIs(t, err, trick.ErrSeatAlreadyPlayed)
	assert.Contains(t, err.Error(), "trick play 1")

	_, err = svc.Winner(ctx, TrickState{Lead: 0, Plays: []trick.Play{{Seat: 0}}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestMoves_FollowAndWin(t *testing.T) {
	svc := NewService(nil, 0, nil)
	req := MovesRequest{
		Hand:  HandState{Cards: suit(card.Clubs)},
		Trick: TrickState{Lead: 0, Plays: []trick.Play{{Seat: 0, Card: card.New(card.Two, card.Clubs)}}},
	}
	res, err := svc.Moves(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, hand.RuleFollowAndWin, res.Rule)
	assert.Len(t, res.Moves, 12)

	req.Trick.Plays = append(req.Trick.Plays, trick.Play{Seat: 1, Card: card.New(card.King, card.Clubs)})
	res, err = svc.Moves(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, []card.Card{card.New(card.Ace, card.Clubs)}, res.Moves)
}

func TestMoves_PlayedCardsAreSkipped(t *testing.T) {
	svc := NewService(nil, 0, nil)
	res, err := svc.Moves(context.Background(), MovesRequest{
		Hand: HandState{Cards: suit(card.Hearts), Played: []card.Card{card.New(card.Ace, card.Hearts)}},
		Trick: TrickState{Lead: 2, Plays: []trick.Play{
			{Seat: 2, Card: card.New(card.Five, card.Hearts)},
			{Seat: 3, Card: card.New(card.King, card.Hearts)},
		}},
	})
	assert.NoError(t, err)
	assert.Equal(t, hand.RuleFollow, res.Rule)
	assert.Len(t, res.Moves, 12)
	assert.NotContains(t, res.Moves, card.New(card.Ace, card.Hearts))
}

func TestMoves_Errors(t *testing.T) {
	svc := NewService(nil, 0, nil)
	ctx := context.Background()

	_, err := svc.Moves(ctx, MovesRequest{Hand: HandState{Cards: suit(card.Clubs)[:5]}})
	assert.ErrorIs(t, err, hand.ErrHandIncomplete)

	_, err = svc.Moves(ctx, MovesRequest{Hand: HandState{Cards: append(suit(card.Clubs), card.New(card.Two, card.Spades))}})
	assert.ErrorIs(t, err, hand.ErrHandFull)

	_, err = svc.Moves(ctx, MovesRequest{Hand: HandState{Cards: suit(card.Clubs), Played: suit(card.Clubs)}})
	assert.ErrorIs(t, err, hand.ErrNoPlayableMoves)

	_, err = svc.Moves(ctx, MovesRequest{Hand: HandState{Cards: suit(card.Clubs), Played: []card.Card{card.New(card.Two, card.Hearts)}}})
	assert.ErrorIs(t, err, hand.ErrCardNotHeld)

	_, err = svc.Moves(ctx, MovesRequest{Hand: HandState{Cards: suit(card.Clubs)}, Trick: TrickState{Lead: -1}})
	assert.ErrorIs(t, err, trick.ErrInvalidSeat)
}

func TestMoves_ServedFromCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	svc := NewService(cache, 60, nil)
	req := MovesRequest{Hand: HandState{Cards: suit(card.Diamonds)}, Trick: TrickState{Lead: 1}}

	res, err := svc.Moves(ctx, req)
	assert.NoError(t, err)
	assert.Equal(t, hand.RuleLead, res.Rule)

	data, ok, err := cache.Get(ctx, movesKey(req))
	assert.NoError(t, err)
	assert.True(t, ok)
	var stored MovesResult
	assert.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, res, stored)

	// 预置一个假结果，确认第二次直接命中缓存
	fake, _ := json.Marshal(MovesResult{Rule: "cached", Moves: []card.Card{card.New(card.Two, card.Diamonds)}})
	assert.NoError(t, cache.Set(ctx, movesKey(req), fake, 60))
	res, err = svc.Moves(ctx, req)
	assert.NoError(t, err)
	assert.Equal(t, "cached", res.Rule)
}

func TestMoves_CacheFailureIsIgnored(t *testing.T) {
	svc := NewService(failingCache{}, 60, nil)
	res, err := svc.Moves(context.Background(), MovesRequest{Hand: HandState{Cards: suit(card.Spades)}})
	assert.NoError(t, err)
	assert.Len(t, res.Moves, 13)
}

func TestMoves_RedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(NewRedisCache(rdb), 120, nil)
	req := MovesRequest{
		Hand:  HandState{Cards: suit(card.Clubs)},
		Trick: TrickState{Lead: 0, Plays: []trick.Play{{Seat: 0, Card: card.New(card.Jack, card.Clubs)}}},
	}

	res, err := svc.Moves(context.Background(), req)
	assert.NoError(t, err)
	assert.Len(t, res.Moves, 3)

	key := movesKey(req)
	assert.True(t, mr.Exists(key), "moves should be cached in redis")
	assert.Equal(t, 120*time.Second, mr.TTL(key))

	mr.FastForward(121 * time.Second)
	assert.False(t, mr.Exists(key), "entry should expire")

	res2, err := svc.Moves(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, res, res2)
}

func TestMovesKey(t *testing.T) {
	req := MovesRequest{
		Hand: HandState{
			Cards:  []card.Card{card.New(card.Two, card.Clubs), card.New(card.Ten, card.Hearts)},
			Played: []card.Card{card.New(card.Ten, card.Hearts)},
		},
		Trick: TrickState{Lead: 3, Plays: []trick.Play{
			{Seat: 3, Card: card.New(card.Ace, card.Spades)},
			{Seat: 0, Card: card.New(card.Queen, card.Diamonds)},
		}},
	}
	assert.Equal(t, "rules:moves:2C,10H|10H|3|3:AS,0:QD", movesKey(req))
}

func TestPlay(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil, 0, nil)
	base := PlayRequest{
		Hand:  HandState{Cards: suit(card.Clubs)},
		Trick: TrickState{Lead: 0, Plays: []trick.Play{{Seat: 0, Card: card.New(card.King, card.Clubs)}}},
		Seat:  1,
	}

	t.Run("legal card is placed", func(t *testing.T) {
		req := base
		req.Card = card.New(card.Ace, card.Clubs)
		res, err := svc.Play(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, cp(card.New(card.Ace, card.Clubs)), res.Trick.Winner)
		assert.Equal(t, ip(1), res.Trick.WinningSeat)
		assert.Equal(t, ip(2), res.Trick.Next)
		assert.Len(t, res.Trick.Plays, 2)
		assert.Len(t, res.Remaining, 12)
		assert.NotContains(t, res.Remaining, card.New(card.Ace, card.Clubs))
	})

	t.Run("losing card when a winner is held", func(t *testing.T) {
		req := base
		req.Card = card.New(card.Three, card.Clubs)
		_, err := svc.Play(ctx, req)
		assert.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("out of turn beats legality", func(t *testing.T) {
		req := base
		req.Seat = 2
		req.Card = card.New(card.Three, card.Clubs)
		_, err := svc.Play(ctx, req)
		assert.ErrorIs(t, err, trick.ErrOutOfTurn)
	})

	t.Run("card not in hand", func(t *testing.T) {
		req := base
		req.Card = card.New(card.Ace, card.Hearts)
		_, err := svc.Play(ctx, req)
		assert.ErrorIs(t, err, hand.ErrCardNotHeld)
	})

	t.Run("card already played", func(t *testing.T) {
		req := base
		req.Hand.Played = []card.Card{card.New(card.Ace, card.Clubs)}
		req.Card = card.New(card.Ace, card.Clubs)
		_, err := svc.Play(ctx, req)
		assert.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("missing card", func(t *testing.T) {
		req := base
		_, err := svc.Play(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}
