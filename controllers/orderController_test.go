package controllers

import (
	"testing"

	"carniceria-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestRequesterMayAccessOrder(t *testing.T) {
	owned := models.Order{Order_id: "o1", User_id: sptr("u1")}
	guest := models.Order{Order_id: "o2"}

	assert.True(t, requesterMayAccessOrder(models.RoleCliente, "u1", &owned))
	assert.False(t, requesterMayAccessOrder(models.RoleCliente, "u2", &owned))
	// Guest orders have no owner; no customer session may claim them.
	assert.False(t, requesterMayAccessOrder(models.RoleCliente, "u1", &guest))

	assert.True(t, requesterMayAccessOrder(models.RoleCarniceria, "staff1", &owned))
	assert.True(t, requesterMayAccessOrder(models.RoleAdmin, "admin1", &guest))
}
