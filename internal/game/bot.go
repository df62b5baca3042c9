package game

import (
	"math"
	"math/rand"

	"github.com/sgmahjong/server/mahjong"
)

const (
	pongProbability = 0.3
	chiProbability  = 0.4
)

// Bot picks discards and claim responses for seats the server drives.
// It is deliberately simple: keep tiles that work together, throw the
// rest. All randomness comes from the injected source so games replay.
type Bot struct {
	rng *rand.Rand
}

func NewBot(rng *rand.Rand) *Bot {
	return &Bot{rng: rng}
}

// ChooseDiscard returns the tile the bot wants to throw: the one scoring
// highest under an isolation heuristic that penalizes pairs, triplets
// and suit neighbours, and slightly favours terminals.
func (b *Bot) ChooseDiscard(p *Player) mahjong.Tile {
	best := p.Hand[0]
	bestScore := math.Inf(-1)
	for _, t := range p.Hand {
		score := b.discardScore(p.Hand, t)
		if score > bestScore {
			best, bestScore = t, score
		}
	}
	return best
}

func (b *Bot) discardScore(hand []mahjong.Tile, t mahjong.Tile) float64 {
	if t.IsBonus() {
		// Should never survive replacement, but never hold one.
		return 100
	}
	score := b.rng.Float64() * 0.1 // jitter so equal tiles tie-break randomly
	if n := mahjong.CountDef(hand, t.TileDef); n > 1 {
		score -= float64(n-1) * 4
	}
	if t.IsSuit() {
		for delta := -2; delta <= 2; delta++ {
			if delta == 0 {
				continue
			}
			v := t.Value + delta
			if v < 1 || v > 9 {
				continue
			}
			if mahjong.CountDef(hand, mahjong.SuitDef(t.Suit, v)) > 0 {
				score -= 3 - math.Abs(float64(delta))
			}
		}
		if t.IsTerminal() {
			score += 0.5
		}
	}
	return score
}

// WantsPong decides whether to pong a claimable discard. Dragons and the
// bot's own seat wind are always taken; anything else goes by coin flip.
func (b *Bot) WantsPong(p *Player, def mahjong.TileDef) bool {
	if def.Kind == mahjong.KindDragon {
		return true
	}
	if def.Kind == mahjong.KindWind && def.Wind == p.SeatWind {
		return true
	}
	return b.rng.Float64() < pongProbability
}

// WantsChi decides whether to chi a claimable discard.
func (b *Bot) WantsChi() bool {
	return b.rng.Float64() < chiProbability
}
