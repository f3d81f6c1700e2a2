// Package models contains data structures for the application's domain models.
package models

import "fmt"

// ActorKind discriminates the two profile kinds that can perform
// interactions. The set is closed; anything else is malformed input.
type ActorKind string

const (
	// ActorKindChild is a supervised child profile.
	ActorKindChild ActorKind = "child"
	// ActorKindParent is a guardian profile.
	ActorKindParent ActorKind = "parent"
)

// Valid reports whether the kind is one of the two known values.
func (k ActorKind) Valid() bool {
	return k == ActorKindChild || k == ActorKindParent
}

// ParseActorKind converts a wire value into an ActorKind.
func ParseActorKind(s string) (ActorKind, error) {
	k := ActorKind(s)
	if !k.Valid() {
		return "", NewValidationError(fmt.Sprintf("Unknown actor kind %q", s))
	}
	return k, nil
}

// Actor is the resolved identity performing a ledger operation.
// It is never persisted as its own row; it stamps ownership on
// interactions and is always one of the two kinds.
type Actor struct {
	Kind ActorKind `json:"kind"`
	ID   uint      `json:"id"`
}

// ChildActor returns an Actor for a child profile.
func ChildActor(id uint) Actor {
	return Actor{Kind: ActorKindChild, ID: id}
}

// ParentActor returns an Actor for a guardian profile.
func ParentActor(id uint) Actor {
	return Actor{Kind: ActorKindParent, ID: id}
}

// IsChild reports whether the actor is a child profile.
func (a Actor) IsChild() bool {
	return a.Kind == ActorKindChild
}

// Is reports whether the actor refers to the given kind and id.
func (a Actor) Is(kind ActorKind, id uint) bool {
	return a.Kind == kind && a.ID == id
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%d", a.Kind, a.ID)
}
