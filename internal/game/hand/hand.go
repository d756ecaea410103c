package hand

import (
	"errors"
	"fmt"

	"SpadesEngine/internal/game/card"
)

// MaxSize 每位玩家发 13 张
const MaxSize = 13

var (
	ErrHandFull        = errors.New("hand is already full")
	ErrHandIncomplete  = errors.New("hand is not fully dealt")
	ErrNoPlayableMoves = errors.New("no playable moves")
	ErrCardNotHeld     = errors.New("card not in hand")
	ErrCardPlayed      = errors.New("card already played")
)

// TrickView is the read side of a trick that move derivation needs.
// *trick.Trick satisfies it.
type TrickView interface {
	Leader() (card.Card, bool)
	Winner() (card.Card, bool)
}

type slot struct {
	card     card.Card
	playable bool
}

// Hand holds one player's cards. Cards are appended in deal order and are
// never removed; Play only clears the playable flag.
type Hand struct {
	cards [MaxSize]slot
	size  int
}

// Decision 合法出牌以及命中的规则
type Decision struct {
	Rule  string      `json:"rule"`
	Cards []card.Card `json:"cards"`
}

func New() *Hand {
	return &Hand{}
}

func (h *Hand) Add(c card.Card) error {
	if h.size >= MaxSize {
		return fmt.Errorf("add %s: %w", c, ErrHandFull)
	}
	h.cards[h.size] = slot{card: c, playable: true}
	h.size++
	return nil
}

// Play marks c as played so it is no longer offered as a move. The card keeps
// its slot, so the hand still counts as fully dealt.
func (h *Hand) Play(c card.Card) error {
	i := h.index(c)
	if i < 0 {
		return fmt.Errorf("play %s: %w", c, ErrCardNotHeld)
	}
	if !h.cards[i].playable {
		return fmt.Errorf("play %s: %w", c, ErrCardPlayed)
	}
	h.cards[i].playable = false
	return nil
}

func (h *Hand) index(c card.Card) int {
	for i := 0; i < h.size; i++ {
		if h.cards[i].card == c {
			return i
		}
	}
	return -1
}

func (h *Hand) Holds(c card.Card) bool {
	return h.index(c) >= 0
}

// Len 已发到手上的牌数（包括已出的）
func (h *Hand) Len() int { return h.size }

// Remaining 还没出的牌数
func (h *Hand) Remaining() int {
	n := 0
	for i := 0; i < h.size; i++ {
		if h.cards[i].playable {
			n++
		}
	}
	return n
}

// Cards returns every dealt card in deal order.
func (h *Hand) Cards() []card.Card {
	out := make([]card.Card, 0, h.size)
	for i := 0; i < h.size; i++ {
		out = append(out, h.cards[i].card)
	}
	return out
}

// Playable returns the cards not yet played, in deal order.
func (h *Hand) Playable() []card.Card {
	out := make([]card.Card, 0, h.size)
	for i := 0; i < h.size; i++ {
		if h.cards[i].playable {
			out = append(out, h.cards[i].card)
		}
	}
	return out
}

// Moves returns the cards the player may legally play into t.
func (h *Hand) Moves(t TrickView) ([]card.Card, error) {
	d, err := h.Explain(t)
	if err != nil {
		return nil, err
	}
	return d.Cards, nil
}

// Explain is Moves plus the name of the rule that produced the moves.
//
// The hand must be fully dealt (13 cards, played or not). Only unplayed cards
// are considered, so it keeps working after the first trick.
func (h *Hand) Explain(t TrickView) (Decision, error) {
	if h.size != MaxSize {
		return Decision{}, fmt.Errorf("%d of %d cards: %w", h.size, MaxSize, ErrHandIncomplete)
	}

	playables := h.Playable()
	if len(playables) == 0 {
		return Decision{}, ErrNoPlayableMoves
	}

	leader, hasLeader := t.Leader()
	winner, hasWinner := t.Winner()
	if !hasLeader || !hasWinner {
		return Decision{Rule: RuleLead, Cards: playables}, nil
	}

	for _, r := range moveRules {
		if moves := filter(playables, leader, winner, r.match); len(moves) > 0 {
			return Decision{Rule: r.name, Cards: moves}, nil
		}
	}
	return Decision{}, ErrNoPlayableMoves
}

// IsLegal 判断某张牌此刻能否出
func (h *Hand) IsLegal(t TrickView, c card.Card) (bool, error) {
	moves, err := h.Moves(t)
	if err != nil {
		return false, err
	}
	for _, m := range moves {
		if m == c {
			return true, nil
		}
	}
	return false, nil
}
