package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlanID(t *testing.T) {
	id, err := ParsePlanID("0")
	require.NoError(t, err)
	assert.Equal(t, PlanID(0), id)

	id, err = ParsePlanID("255")
	require.NoError(t, err)
	assert.Equal(t, PlanID(255), id)
	assert.Equal(t, "255", id.String())

	for _, bad := range []string{"", "256", "-1", "abc", "1.5"} {
		_, err := ParsePlanID(bad)
		assert.Error(t, err, "ParsePlanID(%q) should fail", bad)
	}
}

func TestNewPlan(t *testing.T) {
	p := NewPlan("build the thing", nil)

	assert.Equal(t, "build the thing", p.Prompt)
	assert.Len(t, p.Levels, 4)
	assert.Equal(t, "planning", p.Levels[0].Name())
	assert.Equal(t, "isolation", p.Levels[1].Name())
	assert.Equal(t, "ordering", p.Levels[2].Name())
	assert.Equal(t, "implementation", p.Levels[3].Name())
	assert.Equal(t, "root", p.Root.Description)
	assert.True(t, p.Cursor.IsRoot())
	assert.Empty(t, p.Leases)

	require.Len(t, p.History, 1)
	assert.Equal(t, "create", p.History[0].Action)
	require.NotNil(t, p.History[0].Details)
	assert.Equal(t, "build the thing", *p.History[0].Details)
	assert.Equal(t, "UTC", p.History[0].Timestamp.Location().String())
}

func TestPlan_EffectiveLevel(t *testing.T) {
	p := NewPlan("x", nil)
	a := NewTask("a", nil, nil)
	deepest := a
	// Build a chain deeper than the catalog.
	for i := 0; i < 6; i++ {
		child := NewTask("child", nil, nil)
		deepest.Children = []*Task{child}
		deepest = child
	}
	p.Root.Children = []*Task{a}

	_, ok := p.EffectiveLevel(nil)
	assert.False(t, ok, "the root has no level")

	level, ok := p.EffectiveLevel(Index{0})
	require.True(t, ok)
	assert.Equal(t, 0, level, "depth 1 defaults to level 0")

	level, ok = p.EffectiveLevel(Index{0, 0, 0})
	require.True(t, ok)
	assert.Equal(t, 2, level, "depth 3 defaults to level 2")

	level, ok = p.EffectiveLevel(Index{0, 0, 0, 0, 0, 0})
	require.True(t, ok)
	assert.Equal(t, 3, level, "depth beyond the catalog clamps to the last level")

	explicit := 0
	deep, _ := p.TaskAt(Index{0, 0, 0})
	deep.ExplicitLevel = &explicit
	level, ok = p.EffectiveLevel(Index{0, 0, 0})
	require.True(t, ok)
	assert.Equal(t, 0, level, "explicit level wins over depth")
}

func TestPlan_ClearLeasesUnder(t *testing.T) {
	p := NewPlan("x", nil)
	p.Leases["0"] = 10
	p.Leases["0,1"] = 11
	p.Leases["1"] = 12

	p.ClearLeasesUnder(Index{0})

	assert.NotContains(t, p.Leases, "0")
	assert.NotContains(t, p.Leases, "0,1")
	assert.Contains(t, p.Leases, "1")
}

func TestLevel_Guidance(t *testing.T) {
	levels := DefaultLevels()
	guidance := levels[0].Guidance()
	assert.Contains(t, guidance, levels[0].Description)
	assert.Contains(t, guidance, levels[0].AbstractionFocus)
	for _, q := range levels[0].Questions {
		assert.Contains(t, guidance, q)
	}
}
