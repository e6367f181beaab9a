// Package combat resolves bumps: enemies hitting the player and the player
// chopping at walls.
package combat

import (
	"fmt"
)

// Damageable is anything that can be struck.
type Damageable interface {
	GetName() string
	IsAlive() bool
	TakeDamage(amount int) int // Returns actual damage taken
}

// Result contains the outcome of a strike.
type Result struct {
	Success   bool
	Damage    int    // Damage actually dealt
	Destroyed bool   // True if the strike finished the target
	Message   string // Human-readable description
}

// Resolver applies strikes.
type Resolver struct{}

// NewResolver creates a new resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Strike deals power damage from attacker to target.
func (r *Resolver) Strike(attacker string, target Damageable, power int) Result {
	if target == nil || !target.IsAlive() {
		return Result{Success: false, Message: attacker + " swings at nothing"}
	}
	if power <= 0 {
		return Result{Success: false, Message: attacker + " misses " + target.GetName()}
	}

	dealt := target.TakeDamage(power)
	result := Result{
		Success:   true,
		Damage:    dealt,
		Destroyed: !target.IsAlive(),
		Message:   fmt.Sprintf("%s hits %s for %d", attacker, target.GetName(), dealt),
	}
	if result.Destroyed {
		result.Message += ", " + target.GetName() + " is done for"
	}
	return result
}
