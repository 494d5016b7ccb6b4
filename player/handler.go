package player

import (
	"github.com/df-mc/dragonfly/server/event"
	"github.com/oomph-ac/aero/simulation"
)

// Context is passed to handler methods that can cancel the default behaviour of an event.
type Context = event.Context[*Character]

// Handler handles the movement events of a character.
type Handler interface {
	// HandleGlideImpact is called when a gliding character hits a surface it cannot land on.
	// Cancelling ctx suppresses the impact log.
	HandleGlideImpact(ctx *Context, hit simulation.HitResult)
	// HandleLanded is called when the character lands on a walkable surface.
	HandleLanded(hit simulation.HitResult)
}

// NopHandler implements Handler without doing anything.
type NopHandler struct{}

var _ Handler = NopHandler{}

func (NopHandler) HandleGlideImpact(*Context, simulation.HitResult) {}
func (NopHandler) HandleLanded(simulation.HitResult)                {}
