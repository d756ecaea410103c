package hand

import "SpadesEngine/internal/game/card"

// rule decides whether a card belongs to one priority bucket, given the
// trick's leading card and current winner.
type rule struct {
	name  string
	match func(c, leader, winner card.Card) bool
}

const (
	RuleLead         = "lead"
	RuleFollowAndWin = "follow suit and win"
	RuleFollow       = "follow suit"
	RuleTrumpToWin   = "trump to win"
	RuleDiscard      = "discard"
)

// moveRules 按优先级排列，第一个非空的桶就是合法出牌
var moveRules = []rule{
	{RuleFollowAndWin, followsAndWins},
	{RuleFollow, follows},
	{RuleTrumpToWin, trumpsAndWins},
	{RuleDiscard, discards},
}

func followsAndWins(c, leader, winner card.Card) bool {
	return c.Suit == leader.Suit && c.Rank > winner.Rank
}

func follows(c, leader, _ card.Card) bool {
	return c.Suit == leader.Suit
}

// Only reachable when the hand is void in the leading suit. The rank is
// compared against the winner whatever its suit.
func trumpsAndWins(c, _, winner card.Card) bool {
	return c.Suit == card.Trump && c.Rank > winner.Rank
}

func discards(_, _, _ card.Card) bool {
	return true
}

func filter(cards []card.Card, leader, winner card.Card, match func(c, leader, winner card.Card) bool) []card.Card {
	var out []card.Card
	for _, c := range cards {
		if match(c, leader, winner) {
			out = append(out, c)
		}
	}
	return out
}
