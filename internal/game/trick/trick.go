package trick

import (
	"errors"
	"fmt"

	"SpadesEngine/internal/game/card"
)

// Seats 每墩牌固定 4 个座位
const Seats = 4

var (
	ErrInvalidSeat       = errors.New("lead seat must be in range [0, 3]")
	ErrSeatOutOfRange    = errors.New("seat out of range, valid range is 0..=3")
	ErrSeatAlreadyPlayed = errors.New("seat already has a card, replace not allowed")
	ErrOutOfTurn         = errors.New("seat requested out of turn")
)

// State 一墩牌的阶段
type State int

const (
	Empty State = iota
	InProgress
	Full
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case InProgress:
		return "in_progress"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// Play 一次出牌（座位 + 牌）
type Play struct {
	Seat int       `json:"seat"`
	Card card.Card `json:"card"`
}

// Trick holds the cards of one round, indexed by seat. A seat is never
// overwritten and seats fill strictly in turn order starting at lead.
type Trick struct {
	cards [Seats]*card.Card
	lead  int
}

func New(lead int) (*Trick, error) {
	if lead < 0 || lead >= Seats {
		return nil, fmt.Errorf("lead %d: %w", lead, ErrInvalidSeat)
	}
	return &Trick{lead: lead}, nil
}

func (t *Trick) Lead() int { return t.lead }

// Size 从 lead 开始按座位顺序数连续已出的牌
func (t *Trick) Size() int {
	for i := 0; i < Seats; i++ {
		if t.cards[(t.lead+i)%Seats] == nil {
			return i
		}
	}
	return Seats
}

// Next returns the seat due to play. Once the trick is full it wraps back to lead.
func (t *Trick) Next() int {
	return (t.lead + t.Size()) % Seats
}

func (t *Trick) Full() bool { return t.Size() == Seats }

func (t *Trick) State() State {
	switch t.Size() {
	case 0:
		return Empty
	case Seats:
		return Full
	default:
		return InProgress
	}
}

// Add places c at seat. It fails without touching the trick when the seat is
// out of range, already played, or not the seat due to play.
func (t *Trick) Add(c card.Card, seat int) error {
	if seat < 0 || seat >= Seats {
		return fmt.Errorf("seat %d: %w", seat, ErrSeatOutOfRange)
	}
	if t.cards[seat] != nil {
		return fmt.Errorf("seat %d: %w", seat, ErrSeatAlreadyPlayed)
	}
	if next := t.Next(); seat != next {
		return fmt.Errorf("seat %d (seat %d is due): %w", seat, next, ErrOutOfTurn)
	}
	t.cards[seat] = &c
	return nil
}

// Card 返回某个座位出的牌
func (t *Trick) Card(seat int) (card.Card, bool) {
	if seat < 0 || seat >= Seats || t.cards[seat] == nil {
		return card.Card{}, false
	}
	return *t.cards[seat], true
}

// Leader returns the card played at the lead seat; its suit must be followed.
func (t *Trick) Leader() (card.Card, bool) {
	return t.Card(t.lead)
}

// Plays 按出牌顺序返回已出的牌
func (t *Trick) Plays() []Play {
	n := t.Size()
	out := make([]Play, 0, n)
	for i := 0; i < n; i++ {
		seat := (t.lead + i) % Seats
		out = append(out, Play{Seat: seat, Card: *t.cards[seat]})
	}
	return out
}

// Winner returns the card currently winning the trick, which need not be full.
// Any spade beats the leading suit; otherwise the highest card of the leading
// suit wins.
func (t *Trick) Winner() (card.Card, bool) {
	seat, ok := t.WinningSeat()
	if !ok {
		return card.Card{}, false
	}
	return *t.cards[seat], true
}

// WinningSeat returns the seat holding Winner.
func (t *Trick) WinningSeat() (int, bool) {
	lead, ok := t.Leader()
	if !ok {
		return 0, false
	}
	if seat, ok := t.suitWinner(card.Trump); ok {
		return seat, true
	}
	// the leader always qualifies here
	return t.suitWinner(lead.Suit)
}

// suitWinner 在某花色中取点数最大的座位
func (t *Trick) suitWinner(s card.Suit) (int, bool) {
	best, found := 0, false
	for seat, c := range t.cards {
		if c == nil || c.Suit != s {
			continue
		}
		if !found || c.Rank > t.cards[best].Rank {
			best, found = seat, true
		}
	}
	return best, found
}
