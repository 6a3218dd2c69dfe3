// Package compare implements the bounded, ordered set of properties shown side by side.
package compare

import (
	"github.com/nyumba-homes/storefront-api/internal/domain"
)

// Capacity is the maximum number of properties compared at once
const Capacity = 3

// Notification texts of the comparison transitions
const (
	MsgCapacity  = "You can only compare up to 3 properties."
	MsgDuplicate = "Property already in comparison list."
	MsgAdded     = "Property added to comparison."
	MsgRemoved   = "Property removed from comparison."
	MsgEmpty     = "Add some properties to compare first."
)

// Set is an insertion-ordered list of at most Capacity unique properties.
// The zero value is an empty set.
type Set struct {
	items []domain.Property
}

// NewSet restores a set from persisted items. Duplicates and anything past
// Capacity are dropped so the invariants hold for corrupted input.
func NewSet(items []domain.Property) *Set {
	s := &Set{}
	for _, p := range items {
		if s.Full() {
			break
		}
		if !s.Contains(p.ID) {
			s.items = append(s.items, p)
		}
	}
	return s
}

// Add appends p. A full set is rejected before the duplicate check.
func (s *Set) Add(p domain.Property) error {
	if s.Full() {
		return domain.NewCapacityError(MsgCapacity, Capacity)
	}
	if s.Contains(p.ID) {
		return domain.NewDuplicateError(MsgDuplicate)
	}
	s.items = append(s.items, p)
	return nil
}

// Remove drops id and reports whether it was present
func (s *Set) Remove(id string) bool {
	for i, p := range s.items {
		if p.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle removes p when present, otherwise adds it.
// added reports which transition happened.
func (s *Set) Toggle(p domain.Property) (added bool, err error) {
	if s.Remove(p.ID) {
		return false, nil
	}
	if err := s.Add(p); err != nil {
		return false, err
	}
	return true, nil
}

// Clear empties the set
func (s *Set) Clear() {
	s.items = nil
}

// Contains reports whether id is in the set
func (s *Set) Contains(id string) bool {
	for _, p := range s.items {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Items returns the properties in insertion order
func (s *Set) Items() []domain.Property {
	return append([]domain.Property{}, s.items...)
}

// Len returns the number of properties
func (s *Set) Len() int {
	return len(s.items)
}

// Full reports whether another Add would be rejected for capacity
func (s *Set) Full() bool {
	return len(s.items) >= Capacity
}
