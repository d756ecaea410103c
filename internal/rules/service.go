package rules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"SpadesEngine/internal/game/card"
	"SpadesEngine/internal/game/hand"
	"SpadesEngine/internal/game/trick"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrIllegalMove    = errors.New("illegal move")
)

const movesKeyPrefix = "rules:moves:"

// Service answers rule queries for an orchestrator. It keeps no game state:
// every call rebuilds the hand and trick from the request.
type Service struct {
	cache    Cache // nil 表示不缓存
	cacheTTL int   // seconds
	log      *log.Logger
}

func NewService(cache Cache, cacheTTL int, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{cache: cache, cacheTTL: cacheTTL, log: logger}
}

// Winner 重放一墩牌并返回当前赢家
func (s *Service) Winner(ctx context.Context, ts TrickState) (WinnerResult, error) {
	tr, err := buildTrick(ts)
	if err != nil {
		return WinnerResult{}, err
	}
	return trickResult(tr), nil
}

// Moves 计算一手牌在当前这墩里的合法出牌，结果按请求内容缓存
func (s *Service) Moves(ctx context.Context, req MovesRequest) (MovesResult, error) {
	key := movesKey(req)
	if res, ok := s.cached(ctx, key); ok {
		return res, nil
	}

	h, err := buildHand(req.Hand)
	if err != nil {
		return MovesResult{}, err
	}
	tr, err := buildTrick(req.Trick)
	if err != nil {
		return MovesResult{}, err
	}
	d, err := h.Explain(tr)
	if err != nil {
		return MovesResult{}, fmt.Errorf("moves: %w", err)
	}

	res := MovesResult{Rule: d.Rule, Moves: d.Cards}
	s.store(ctx, key, res)
	return res, nil
}

// Play validates one card against the hand's legal moves and places it in the
// trick. Turn-order errors win over legality errors.
func (s *Service) Play(ctx context.Context, req PlayRequest) (PlayResult, error) {
	if !req.Card.Valid() {
		return PlayResult{}, fmt.Errorf("card: %w", ErrInvalidRequest)
	}
	h, err := buildHand(req.Hand)
	if err != nil {
		return PlayResult{}, err
	}
	tr, err := buildTrick(req.Trick)
	if err != nil {
		return PlayResult{}, err
	}

	// 先在副本上试放，确认轮到该座位
	next := *tr
	if err := next.Add(req.Card, req.Seat); err != nil {
		return PlayResult{}, fmt.Errorf("play %s: %w", req.Card, err)
	}

	if !h.Holds(req.Card) {
		return PlayResult{}, fmt.Errorf("play %s: %w", req.Card, hand.ErrCardNotHeld)
	}
	legal, err := h.IsLegal(tr, req.Card)
	if err != nil {
		return PlayResult{}, fmt.Errorf("play %s: %w", req.Card, err)
	}
	if !legal {
		return PlayResult{}, fmt.Errorf("play %s: %w", req.Card, ErrIllegalMove)
	}
	if err := h.Play(req.Card); err != nil {
		return PlayResult{}, err
	}

	return PlayResult{Trick: trickResult(&next), Remaining: h.Playable()}, nil
}

func (s *Service) cached(ctx context.Context, key string) (MovesResult, bool) {
	if s.cache == nil {
		return MovesResult{}, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("moves cache get failed", "key", key, "err", err)
		return MovesResult{}, false
	}
	if !ok {
		return MovesResult{}, false
	}
	var res MovesResult
	if err := json.Unmarshal(data, &res); err != nil {
		s.log.Warn("moves cache entry unreadable", "key", key, "err", err)
		return MovesResult{}, false
	}
	return res, true
}

func (s *Service) store(ctx context.Context, key string, res MovesResult) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		s.log.Warn("moves cache encode failed", "key", key, "err", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.log.Warn("moves cache set failed", "key", key, "err", err)
	}
}

func buildTrick(ts TrickState) (*trick.Trick, error) {
	tr, err := trick.New(ts.Lead)
	if err != nil {
		return nil, err
	}
	for i, p := range ts.Plays {
		if !p.Card.Valid() {
			return nil, fmt.Errorf("trick play %d: card: %w", i, ErrInvalidRequest)
		}
		if err := tr.Add(p.Card, p.Seat); err != nil {
			return nil, fmt.Errorf("trick play %d: %w", i, err)
		}
	}
	return tr, nil
}

func buildHand(hs HandState) (*hand.Hand, error) {
	h := hand.New()
	for i, c := range hs.Cards {
		if !c.Valid() {
			return nil, fmt.Errorf("hand card %d: %w", i, ErrInvalidRequest)
		}
		if err := h.Add(c); err != nil {
			return nil, fmt.Errorf("hand card %d: %w", i, err)
		}
	}
	for i, c := range hs.Played {
		if err := h.Play(c); err != nil {
			return nil, fmt.Errorf("hand played %d: %w", i, err)
		}
	}
	return h, nil
}

func trickResult(tr *trick.Trick) WinnerResult {
	res := WinnerResult{
		Lead:  tr.Lead(),
		State: tr.State().String(),
		Plays: tr.Plays(),
	}
	if c, ok := tr.Leader(); ok {
		res.Leader = &c
	}
	if c, ok := tr.Winner(); ok {
		res.Winner = &c
	}
	if seat, ok := tr.WinningSeat(); ok {
		res.WinningSeat = &seat
	}
	if !tr.Full() {
		next := tr.Next()
		res.Next = &next
	}
	return res
}

// movesKey 由请求内容拼出规范化的缓存 key
func movesKey(req MovesRequest) string {
	var b strings.Builder
	b.WriteString(movesKeyPrefix)
	writeCards(&b, req.Hand.Cards)
	b.WriteByte('|')
	writeCards(&b, req.Hand.Played)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(req.Trick.Lead))
	b.WriteByte('|')
	for i, p := range req.Trick.Plays {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(p.Seat))
		b.WriteByte(':')
		b.WriteString(p.Card.String())
	}
	return b.String()
}

func writeCards(b *strings.Builder, cards []card.Card) {
	for i, c := range cards {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.String())
	}
}
