package card

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidCard = errors.New("invalid card")

// Suit 花色 (0-3)，Spades 为将牌
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Trump is the suit that beats every other suit.
const Trump = Spades

var suitCodes = []string{"C", "D", "H", "S"}
var suitSymbols = []string{"♣", "♦", "♥", "♠"}

func (s Suit) Valid() bool {
	return s >= Clubs && s <= Spades
}

func (s Suit) String() string {
	if !s.Valid() {
		return "?"
	}
	return suitSymbols[s]
}

// AllSuits returns all suits in order
func AllSuits() []Suit {
	return []Suit{Clubs, Diamonds, Hearts, Spades}
}

// Rank 点数 (2-14, 11=J, 12=Q, 13=K, 14=A)
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var faces = map[Rank]string{
	Jack:  "J",
	Queen: "Q",
	King:  "K",
	Ace:   "A",
}

func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

func (r Rank) String() string {
	if v, ok := faces[r]; ok {
		return v
	}
	return strconv.Itoa(int(r))
}

// AllRanks returns all ranks in order (2-A)
func AllRanks() []Rank {
	out := make([]Rank, 0, Ace-Two+1)
	for r := Two; r <= Ace; r++ {
		out = append(out, r)
	}
	return out
}

// Card 一张牌，可直接用 == 比较
type Card struct {
	Suit Suit
	Rank Rank
}

func New(r Rank, s Suit) Card {
	return Card{Suit: s, Rank: r}
}

func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Rank.Valid()
}

func (c Card) IsTrump() bool {
	return c.Suit == Trump
}

// String 返回短码，例如 "2C"、"10H"、"QS"
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank.String() + suitCodes[c.Suit]
}

// Symbol 用于日志，例如 "Q♠"
func (c Card) Symbol() string {
	return c.Rank.String() + c.Suit.String()
}

// Parse 解析短码（不区分大小写，十可写作 "10" 或 "T"）
func Parse(code string) (Card, error) {
	s := strings.ToUpper(strings.TrimSpace(code))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, code)
	}
	rankStr, suitStr := s[:len(s)-1], s[len(s)-1:]

	suit := Suit(-1)
	for i, v := range suitCodes {
		if v == suitStr {
			suit = Suit(i)
		}
	}
	if !suit.Valid() {
		return Card{}, fmt.Errorf("%w: %q: unknown suit", ErrInvalidCard, code)
	}

	rank, err := parseRank(rankStr)
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q: %v", ErrInvalidCard, code, err)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

func parseRank(s string) (Rank, error) {
	if s == "T" {
		return Ten, nil
	}
	for r, v := range faces {
		if v == s {
			return r, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Rank(n).Valid() {
		return 0, fmt.Errorf("unknown rank %q", s)
	}
	return Rank(n), nil
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: suit=%d rank=%d", ErrInvalidCard, c.Suit, c.Rank)
	}
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
