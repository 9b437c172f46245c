package controllers

import (
	"testing"

	"carniceria-backend/helpers"
	"carniceria-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLoginLogEncryptsEmail(t *testing.T) {
	entry := buildLoginLog(nil, "cliente@example.com", "10.0.0.1", "Mozilla/5.0", false, loginFailedMsg)

	// The attempted email never lands in the record in the clear; it is
	// recoverable by decryption and indexed by its hash.
	assert.Empty(t, entry.Email)
	require.NotNil(t, entry.Email_encrypted)
	assert.Equal(t, "cliente@example.com", helpers.DecryptWithSalt(entry.Email_encrypted))
	assert.Equal(t, helpers.HashValue("cliente@example.com"), entry.Email_hash)

	assert.Equal(t, "unknown", entry.User_id)
	assert.False(t, entry.Success)
	require.NotNil(t, entry.Error_message)
	assert.Equal(t, loginFailedMsg, *entry.Error_message)
	assert.Equal(t, "10.0.0.1", entry.Ip)
	assert.NotEmpty(t, entry.Log_id)
}

func TestBuildLoginLogForKnownUser(t *testing.T) {
	role := models.RoleCliente
	name := "María"
	user := &models.User{User_id: "u1", Name: &name, User_role: &role}

	entry := buildLoginLog(user, "maria@example.com", "10.0.0.2", "curl/8", true, "")

	assert.Equal(t, "u1", entry.User_id)
	assert.Equal(t, "María", entry.Name)
	assert.Equal(t, models.RoleCliente, entry.Role)
	assert.True(t, entry.Success)
	assert.Nil(t, entry.Error_message)
	assert.Equal(t, helpers.HashValue("maria@example.com"), entry.Email_hash)
}
