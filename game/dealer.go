package game

import (
	"math/rand"

	"snap-game-server/catalog"
	"snap-game-server/gameerrors"
)

// matchChance is the probability that a deal contains a forced matching pair.
const matchChance = 0.3

// DealResult is the output of one deal: the shuffled card sequence and the
// ground-truth match fact used later at resolution time.
type DealResult struct {
	Options  []Card
	HasMatch bool
}

// Deal produces playerCount cards from the catalog entries whose category is
// enabled in filter (an all-false or empty filter means the whole catalog).
// With probability matchChance the deal carries exactly one matching pair;
// all other draws are sampled without replacement so no unintended duplicate
// can appear. The returned sequence is shuffled so position carries no
// information about draw order.
func Deal(rng *rand.Rand, cat *catalog.Catalog, filter map[string]bool, playerCount int) (DealResult, error) {
	pool := candidatePool(cat, filter)
	hasMatch := rng.Float64() < matchChance
	return dealFrom(rng, pool, playerCount, hasMatch)
}

// candidatePool collects the catalog entries eligible under filter.
func candidatePool(cat *catalog.Catalog, filter map[string]bool) []catalog.Entry {
	anyEnabled := false
	for _, enabled := range filter {
		if enabled {
			anyEnabled = true
			break
		}
	}
	entries := cat.Entries()
	if !anyEnabled {
		pool := make([]catalog.Entry, len(entries))
		copy(pool, entries)
		return pool
	}
	var pool []catalog.Entry
	for _, e := range entries {
		if filter[e.Category] {
			pool = append(pool, e)
		}
	}
	return pool
}

// dealFrom draws from an owned copy of pool. Exposed within the package so
// tests can force the hasMatch branch.
func dealFrom(rng *rand.Rand, pool []catalog.Entry, playerCount int, hasMatch bool) (DealResult, error) {
	if len(pool) == 0 {
		return DealResult{}, gameerrors.ErrNoCandidates
	}
	if playerCount < 2 {
		// A deal of fewer than two cards cannot contain a pair.
		hasMatch = false
	}
	draws := playerCount
	if hasMatch {
		// The forced pair contributes two cards from a single draw.
		draws = playerCount - 1
	}
	if draws > len(pool) {
		return DealResult{}, gameerrors.ErrNotEnoughCards
	}

	options := make([]Card, 0, playerCount)
	for i := 0; i < draws; i++ {
		idx := rng.Intn(len(pool))
		entry := pool[idx]
		// Remove the drawn entry so it cannot reappear in a later draw.
		pool[idx] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]

		variant := rng.Intn(3) + 1
		if i == 0 && hasMatch {
			options = append(options, Card{
				Category: entry.Category,
				Value:    entry.Value,
				Hint:     entry.Hint(complementaryVariant(variant)),
			})
		}
		options = append(options, Card{
			Category: entry.Category,
			Value:    entry.Value,
			Hint:     entry.Hint(variant),
		})
	}

	shuffleCards(rng, options)
	return DealResult{Options: options, HasMatch: hasMatch}, nil
}

// complementaryVariant maps a hint variant to the one used for the second
// copy of a forced pair: 1→3, 3→2, 2→1. The two copies always show
// different hints while matching on category and value.
func complementaryVariant(variant int) int {
	switch variant {
	case 1:
		return 3
	case 3:
		return 2
	default:
		return 1
	}
}

// shuffleCards applies a uniform permutation in place. Callers own the slice.
func shuffleCards(rng *rand.Rand, cards []Card) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// HandFor splits a deal for the player at roster index i: their own card,
// and everyone else's cards as the visible remainder.
func (d DealResult) HandFor(i int) (Card, []Card) {
	remaining := make([]Card, 0, len(d.Options)-1)
	for j, c := range d.Options {
		if j != i {
			remaining = append(remaining, c)
		}
	}
	return d.Options[i], remaining
}
