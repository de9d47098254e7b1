package gamedata

import (
	"errors"
	"math/rand"

	"github.com/samdwyer/innkeeper/internal/world"
)

// FurnitureRegistry holds loaded furniture definitions keyed by kind.
type FurnitureRegistry struct {
	byKind map[world.FurnitureKind]*FurnitureDef
	all    []FurnitureDef
}

// NewFurnitureRegistry creates a registry from loaded furniture definitions.
func NewFurnitureRegistry(furniture []FurnitureDef) *FurnitureRegistry {
	registry := &FurnitureRegistry{
		byKind: make(map[world.FurnitureKind]*FurnitureDef),
		all:    furniture,
	}
	for i := range furniture {
		registry.byKind[furniture[i].Kind] = &furniture[i]
	}
	return registry
}

// LoadFurnitureRegistry loads and creates a registry from the embedded furniture.json.
func LoadFurnitureRegistry() (*FurnitureRegistry, error) {
	furniture, err := LoadFurniture()
	if err != nil {
		return nil, err
	}
	if len(furniture) == 0 {
		return nil, errors.New("no furniture loaded from furniture.json")
	}
	return NewFurnitureRegistry(furniture), nil
}

// MustLoadFurnitureRegistry loads a registry, panicking on error.
func MustLoadFurnitureRegistry() *FurnitureRegistry {
	registry, err := LoadFurnitureRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByKind returns the definition for a furniture kind, or nil if not found.
func (r *FurnitureRegistry) GetByKind(kind world.FurnitureKind) *FurnitureDef {
	return r.byKind[kind]
}

// Costs returns the price of every known furniture kind.
func (r *FurnitureRegistry) Costs() map[world.FurnitureKind]int {
	costs := make(map[world.FurnitureKind]int, len(r.all))
	for _, f := range r.all {
		costs[f.Kind] = f.Cost
	}
	return costs
}

// Count returns the number of furniture kinds in the registry.
func (r *FurnitureRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// GuestRegistry
// =============================================================================

// GuestRegistry holds guest profiles and picks arrivals by weight.
type GuestRegistry struct {
	guests      []GuestDef
	totalWeight int
}

// NewGuestRegistry creates a registry from loaded guest profiles.
func NewGuestRegistry(guests []GuestDef) *GuestRegistry {
	totalWeight := 0
	for _, g := range guests {
		totalWeight += g.SpawnWeight
	}
	return &GuestRegistry{
		guests:      guests,
		totalWeight: totalWeight,
	}
}

// LoadGuestRegistry loads and creates a registry from the embedded guests.json.
func LoadGuestRegistry() (*GuestRegistry, error) {
	guests, err := LoadGuests()
	if err != nil {
		return nil, err
	}
	if len(guests) == 0 {
		return nil, errors.New("no guests loaded from guests.json")
	}
	return NewGuestRegistry(guests), nil
}

// MustLoadGuestRegistry loads a registry, panicking on error.
func MustLoadGuestRegistry() *GuestRegistry {
	registry, err := LoadGuestRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// SpawnRandom selects a guest profile using weighted probability.
// Profiles with higher spawnWeight are more likely to be selected.
func (r *GuestRegistry) SpawnRandom(rng *rand.Rand) *GuestDef {
	if r.totalWeight <= 0 || len(r.guests) == 0 {
		return nil
	}

	roll := rng.Intn(r.totalWeight)

	cumulative := 0
	for i := range r.guests {
		cumulative += r.guests[i].SpawnWeight
		if roll < cumulative {
			return &r.guests[i]
		}
	}

	// Fallback (shouldn't happen)
	return &r.guests[0]
}

// GetByID returns the guest profile with the given ID, or nil if not found.
func (r *GuestRegistry) GetByID(id string) *GuestDef {
	for i := range r.guests {
		if r.guests[i].ID == id {
			return &r.guests[i]
		}
	}
	return nil
}

// Count returns the number of guest profiles in the registry.
func (r *GuestRegistry) Count() int {
	return len(r.guests)
}
