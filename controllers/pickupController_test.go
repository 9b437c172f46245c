package controllers

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("SECRET_KEY", "test-secret-key")
	os.Exit(m.Run())
}

func TestPickupCodeRoundTrip(t *testing.T) {
	code := pickupCode("665f1c2ab3d4e5f6a7b8c9d0")
	assert.Equal(t, "665f1c2ab3d4e5f6a7b8c9d0", parsePickupCode(code))
}

func TestPickupCodeShape(t *testing.T) {
	code := pickupCode("abc123")
	parts := strings.SplitN(code, ".", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "abc123", parts[0])
	assert.Len(t, parts[1], pickupSignatureLength)
}

func TestParsePickupCodeRejectsTampering(t *testing.T) {
	code := pickupCode("abc123")

	assert.Equal(t, "", parsePickupCode("zzz999."+strings.SplitN(code, ".", 2)[1]))
	assert.Equal(t, "", parsePickupCode("abc123.0000000000000000"))
	assert.Equal(t, "", parsePickupCode("abc123"))
	assert.Equal(t, "", parsePickupCode(".deadbeefdeadbeef"))
	assert.Equal(t, "", parsePickupCode(""))
}
