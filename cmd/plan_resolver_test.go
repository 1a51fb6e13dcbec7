package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePlanID(t *testing.T) {
	t.Run("flag wins over env", func(t *testing.T) {
		t.Setenv(planIDEnvVar, "7")
		planFlag = "3"
		defer func() { planFlag = "" }()

		id, err := resolvePlanID()
		require.NoError(t, err)
		assert.Equal(t, "3", id)
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv(planIDEnvVar, " 12 ")
		planFlag = ""

		id, err := resolvePlanID()
		require.NoError(t, err)
		assert.Equal(t, "12", id)
	})

	t.Run("neither set", func(t *testing.T) {
		t.Setenv(planIDEnvVar, "")
		planFlag = ""

		_, err := resolvePlanID()
		assert.ErrorIs(t, err, ErrNoActivePlan)
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Setenv(planIDEnvVar, "999")
		planFlag = ""

		_, err := resolvePlanID()
		assert.Error(t, err)
	})
}
