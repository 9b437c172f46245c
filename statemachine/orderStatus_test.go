package statemachine

import (
	"testing"

	"carniceria-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestForwardPathAllowed(t *testing.T) {
	assert.NoError(t, CanTransition(models.StatusPendiente, models.StatusEnPreparacion, ActorCarniceria))
	assert.NoError(t, CanTransition(models.StatusEnPreparacion, models.StatusListoParaRetiro, ActorCarniceria))
	assert.NoError(t, CanTransition(models.StatusListoParaRetiro, models.StatusEntregado, ActorCarniceria))
}

func TestBackwardTransitionsRejected(t *testing.T) {
	assert.Error(t, CanTransition(models.StatusEnPreparacion, models.StatusPendiente, ActorCarniceria))
	assert.Error(t, CanTransition(models.StatusEntregado, models.StatusPendiente, ActorAdmin))
	assert.Error(t, CanTransition(models.StatusEntregado, models.StatusListoParaRetiro, ActorCarniceria))
	assert.Error(t, CanTransition(models.StatusCancelado, models.StatusPendiente, ActorAdmin))
}

func TestReadyRevertOnlyForButcher(t *testing.T) {
	assert.NoError(t, CanTransition(models.StatusListoParaRetiro, models.StatusPendiente, ActorCarniceria))
	assert.Error(t, CanTransition(models.StatusListoParaRetiro, models.StatusPendiente, ActorCliente))
	assert.Error(t, CanTransition(models.StatusListoParaRetiro, models.StatusPendiente, ActorAdmin))
}

func TestCustomerCancelOnlyWhilePending(t *testing.T) {
	assert.NoError(t, CanTransition(models.StatusPendiente, models.StatusCancelado, ActorCliente))
	assert.Error(t, CanTransition(models.StatusEnPreparacion, models.StatusCancelado, ActorCliente))
	assert.Error(t, CanTransition(models.StatusListoParaRetiro, models.StatusCancelado, ActorCliente))
}

func TestStaffCancelFromAnyNonTerminal(t *testing.T) {
	for _, from := range []string{models.StatusPendiente, models.StatusEnPreparacion, models.StatusListoParaRetiro} {
		assert.NoError(t, CanTransition(from, models.StatusCancelado, ActorCarniceria), from)
		assert.NoError(t, CanTransition(from, models.StatusCancelado, ActorAdmin), from)
	}
	assert.Error(t, CanTransition(models.StatusEntregado, models.StatusCancelado, ActorAdmin))
}

func TestSystemActor(t *testing.T) {
	// Payment confirmation advances a pending order; pickup verification
	// delivers a ready one.
	assert.NoError(t, CanTransition(models.StatusPendiente, models.StatusEnPreparacion, ActorSystem))
	assert.NoError(t, CanTransition(models.StatusListoParaRetiro, models.StatusEntregado, ActorSystem))
	assert.Error(t, CanTransition(models.StatusPendiente, models.StatusEntregado, ActorSystem))
}

func TestUnknownActorRejected(t *testing.T) {
	assert.Error(t, CanTransition(models.StatusPendiente, models.StatusEnPreparacion, "visitante"))
	assert.Error(t, CanTransition(models.StatusPendiente, models.StatusEnPreparacion, ""))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusEntregado))
	assert.True(t, IsTerminal(models.StatusCancelado))
	assert.False(t, IsTerminal(models.StatusPendiente))
	assert.False(t, IsTerminal(models.StatusListoParaRetiro))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus("Pendiente"))
	assert.True(t, IsValidStatus("En preparación"))
	assert.True(t, IsValidStatus("Listo para retiro"))
	assert.False(t, IsValidStatus("Listo"))
	assert.False(t, IsValidStatus(""))
}

func TestValidTransitionsFromTerminalIsEmpty(t *testing.T) {
	assert.Empty(t, ValidTransitionsFrom(models.StatusEntregado))
	assert.Empty(t, ValidTransitionsFrom(models.StatusCancelado))
}
