package gamedata

import (
	"errors"
	"math/rand"
)

// Weighted is a definition that can be spawned by weight and found by ID.
type Weighted interface {
	Key() string
	Weight() int
}

// Key implements Weighted.
func (e *EnemyDef) Key() string { return e.ID }

// Key implements Weighted.
func (p *PickupDef) Key() string { return p.ID }

// Registry holds loaded definitions and provides spawning utilities.
type Registry[T Weighted] struct {
	entries     []T
	totalWeight int
}

// NewRegistry creates a registry from loaded definitions.
func NewRegistry[T Weighted](entries []T) *Registry[T] {
	totalWeight := 0
	for _, e := range entries {
		totalWeight += e.Weight()
	}
	return &Registry[T]{
		entries:     entries,
		totalWeight: totalWeight,
	}
}

// EnemyRegistry is the registry of enemy types.
type EnemyRegistry = Registry[*EnemyDef]

// PickupRegistry is the registry of food and soda types.
type PickupRegistry = Registry[*PickupDef]

// NewEnemyRegistry creates a registry from enemy definitions.
func NewEnemyRegistry(enemies []EnemyDef) *EnemyRegistry {
	ptrs := make([]*EnemyDef, len(enemies))
	for i := range enemies {
		ptrs[i] = &enemies[i]
	}
	return NewRegistry(ptrs)
}

// NewPickupRegistry creates a registry from pickup definitions.
func NewPickupRegistry(pickups []PickupDef) *PickupRegistry {
	ptrs := make([]*PickupDef, len(pickups))
	for i := range pickups {
		ptrs[i] = &pickups[i]
	}
	return NewRegistry(ptrs)
}

// LoadEnemyRegistry loads and creates a registry from the embedded enemies.json.
func LoadEnemyRegistry() (*EnemyRegistry, error) {
	enemies, err := LoadEnemies()
	if err != nil {
		return nil, err
	}
	if len(enemies) == 0 {
		return nil, errors.New("no enemies loaded from enemies.json")
	}
	return NewEnemyRegistry(enemies), nil
}

// SpawnRandom selects a random definition using weighted probability.
// Entries with higher weight are more likely to be selected. The zero value
// of T is returned if nothing can be spawned.
func (r *Registry[T]) SpawnRandom(rng *rand.Rand) T {
	var zero T
	if r.totalWeight <= 0 || len(r.entries) == 0 {
		return zero
	}

	roll := rng.Intn(r.totalWeight)

	cumulative := 0
	for _, e := range r.entries {
		cumulative += e.Weight()
		if roll < cumulative {
			return e
		}
	}

	// Fallback (shouldn't happen)
	return r.entries[0]
}

// GetByID returns the definition with the given ID.
func (r *Registry[T]) GetByID(id string) (T, bool) {
	for _, e := range r.entries {
		if e.Key() == id {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// Count returns the number of definitions in the registry.
func (r *Registry[T]) Count() int {
	return len(r.entries)
}
