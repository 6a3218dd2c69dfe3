// Package recommend picks properties to suggest from the visitor's favorites.
package recommend

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/nyumba-homes/storefront-api/internal/catalog"
	"github.com/nyumba-homes/storefront-api/internal/domain"
)

// DefaultSize is the number of suggestions shown
const DefaultSize = 4

// Engine is a Recommend bound to a size and a shared random source
type Engine struct {
	size int
	mu   sync.Mutex
	rng  *rand.Rand
}

// NewEngine creates an engine. A nil rng gets a randomly seeded source.
func NewEngine(size int, rng *rand.Rand) *Engine {
	if size <= 0 {
		size = DefaultSize
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{size: size, rng: rng}
}

// NewSeeded returns a deterministic source for seed
func NewSeeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Size returns the number of suggestions produced
func (e *Engine) Size() int {
	return e.size
}

// Recommend runs the selection with the engine's source
func (e *Engine) Recommend(properties []domain.Property, cart []domain.CartItem, favorites []domain.Property) []domain.Property {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Recommend(e.rng, e.size, properties, cart, favorites)
}

// RecommendSeeded runs the selection with a fresh source for seed
func (e *Engine) RecommendSeeded(seed uint64, properties []domain.Property, cart []domain.CartItem, favorites []domain.Property) []domain.Property {
	return Recommend(NewSeeded(seed), e.size, properties, cart, favorites)
}

// Recommend returns up to n properties that are in neither cart nor favorites.
//
// Without favorites it is a uniform sample of what is available. Otherwise the
// most recent favorite seeds it: available listings sharing its location tag or
// type tag come first in random order, then the rest in random order.
func Recommend(r *rand.Rand, n int, properties []domain.Property, cart []domain.CartItem, favorites []domain.Property) []domain.Property {
	excluded := make(map[string]struct{}, len(cart)+len(favorites))
	for _, item := range cart {
		excluded[item.ID] = struct{}{}
	}
	for _, fav := range favorites {
		excluded[fav.ID] = struct{}{}
	}

	available := make([]domain.Property, 0, len(properties))
	for _, p := range properties {
		if _, ok := excluded[p.ID]; !ok {
			available = append(available, p)
		}
	}

	if len(favorites) == 0 {
		Shuffle(r, available)
		return truncate(available, n)
	}

	seed := favorites[len(favorites)-1]
	locationTag := catalog.LocationTag(seed.Location)
	typeTag := catalog.TypeTag(seed.Title)

	var matches, rest []domain.Property
	for _, p := range available {
		sameLocation := locationTag != "" && strings.Contains(p.Location, locationTag)
		sameType := strings.Contains(p.Title, typeTag)
		if (sameLocation || sameType) && p.ID != seed.ID {
			matches = append(matches, p)
		} else {
			rest = append(rest, p)
		}
	}

	Shuffle(r, matches)
	if len(matches) < n {
		Shuffle(r, rest)
		matches = append(matches, rest...)
	}
	return truncate(matches, n)
}

// Shuffle permutes s uniformly in place (Fisher–Yates)
func Shuffle[T any](r *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

func truncate(s []domain.Property, n int) []domain.Property {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		s = s[:n]
	}
	if s == nil {
		return []domain.Property{}
	}
	return s
}
