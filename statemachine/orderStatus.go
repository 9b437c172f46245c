package statemachine

import (
	"errors"

	"carniceria-backend/models"
)

// Actors allowed to drive order transitions. "system" covers transitions
// applied as a side effect of another operation (payment confirmation,
// pickup verification).
const (
	ActorCliente    = "cliente"
	ActorCarniceria = "carniceria"
	ActorAdmin      = "admin"
	ActorSystem     = "system"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  string
	To    string
	Actor string
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Butcher starts preparing; payment confirmation on a pending order
	// advances it the same way.
	{From: models.StatusPendiente, To: models.StatusEnPreparacion, Actor: ActorCarniceria},
	{From: models.StatusPendiente, To: models.StatusEnPreparacion, Actor: ActorAdmin},
	{From: models.StatusPendiente, To: models.StatusEnPreparacion, Actor: ActorSystem},
	// Butcher finishes weighing and marks the order ready for pickup
	{From: models.StatusEnPreparacion, To: models.StatusListoParaRetiro, Actor: ActorCarniceria},
	{From: models.StatusEnPreparacion, To: models.StatusListoParaRetiro, Actor: ActorAdmin},
	// Hand-over, in person or verified by QR scan
	{From: models.StatusListoParaRetiro, To: models.StatusEntregado, Actor: ActorCarniceria},
	{From: models.StatusListoParaRetiro, To: models.StatusEntregado, Actor: ActorAdmin},
	{From: models.StatusListoParaRetiro, To: models.StatusEntregado, Actor: ActorSystem},
	// Butcher may send a ready order back to the queue (mis-marked order)
	{From: models.StatusListoParaRetiro, To: models.StatusPendiente, Actor: ActorCarniceria},
	// Customers may only cancel before preparation starts; staff may cancel
	// any non-terminal order.
	{From: models.StatusPendiente, To: models.StatusCancelado, Actor: ActorCliente},
	{From: models.StatusPendiente, To: models.StatusCancelado, Actor: ActorCarniceria},
	{From: models.StatusPendiente, To: models.StatusCancelado, Actor: ActorAdmin},
	{From: models.StatusEnPreparacion, To: models.StatusCancelado, Actor: ActorCarniceria},
	{From: models.StatusEnPreparacion, To: models.StatusCancelado, Actor: ActorAdmin},
	{From: models.StatusListoParaRetiro, To: models.StatusCancelado, Actor: ActorCarniceria},
	{From: models.StatusListoParaRetiro, To: models.StatusCancelado, Actor: ActorAdmin},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  string
	To    string
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

var allStatuses = []string{
	models.StatusPendiente,
	models.StatusEnPreparacion,
	models.StatusListoParaRetiro,
	models.StatusEntregado,
	models.StatusCancelado,
}

// IsValidStatus reports whether s is one of the five order statuses.
func IsValidStatus(s string) bool {
	for _, status := range allStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(status string) bool {
	return status == models.StatusEntregado || status == models.StatusCancelado
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status string) []string {
	var nexts []string
	seen := map[string]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return errors.New(
		"invalid transition: " + from + " -> " + to +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + from + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status string) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += s
	}
	return result
}
