package rules

import (
	"SpadesEngine/internal/game/card"
	"SpadesEngine/internal/game/trick"
)

// TrickState 一墩牌：lead 座位 + 按顺序出的牌
type TrickState struct {
	Lead  int          `json:"lead"`
	Plays []trick.Play `json:"plays"`
}

// HandState 一手牌：发到的 13 张 + 其中已出过的
type HandState struct {
	Cards  []card.Card `json:"cards" binding:"required"`
	Played []card.Card `json:"played"`
}

// POST /v1/trick/winner
type WinnerRequest struct {
	Trick TrickState `json:"trick"`
}

type WinnerResult struct {
	Lead        int          `json:"lead"`
	Leader      *card.Card   `json:"leader,omitempty"`
	Winner      *card.Card   `json:"winner,omitempty"`
	WinningSeat *int         `json:"winningSeat,omitempty"`
	Next        *int         `json:"next,omitempty"` // nil once full
	State       string       `json:"state"`
	Plays       []trick.Play `json:"plays"`
}

// POST /v1/hand/moves
type MovesRequest struct {
	Hand  HandState  `json:"hand"`
	Trick TrickState `json:"trick"`
}

type MovesResult struct {
	Rule  string      `json:"rule"`
	Moves []card.Card `json:"moves"`
}

// POST /v1/trick/play
type PlayRequest struct {
	Hand  HandState  `json:"hand"`
	Trick TrickState `json:"trick"`
	Seat  int        `json:"seat"`
	Card  card.Card  `json:"card"`
}

type PlayResult struct {
	Trick     WinnerResult `json:"trick"`
	Remaining []card.Card  `json:"remaining"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}
