package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductExpandsCartesian(t *testing.T) {
	sets := Product([]Sweep{
		{Name: "a", Values: []interface{}{1, 2}},
		{Name: "b", Values: []interface{}{3, 4}},
	})
	require.Len(t, sets, 4)

	ids := make([]string, len(sets))
	for i, s := range sets {
		ids[i] = s.Identifier()
	}
	assert.Equal(t, []string{"a=1++b=3", "a=1++b=4", "a=2++b=3", "a=2++b=4"}, ids)
}

func TestProductSingleSweep(t *testing.T) {
	sets := Product([]Sweep{
		{Name: "stomResist", Values: []interface{}{"BallBerry", "Jarvis"}},
	})
	require.Len(t, sets, 2)
	assert.Equal(t, "stomResist=BallBerry", sets[0].Identifier())
	assert.Equal(t, "stomResist=Jarvis", sets[1].Identifier())
}

func TestProductEmpty(t *testing.T) {
	assert.Empty(t, Product(nil))
}

func TestIdentifierFollowsOverrideOrder(t *testing.T) {
	set := OverrideSet{
		{Name: "albedoMax", Value: 0.7},
		{Name: "tempCritRain", Value: 273.16},
	}
	assert.Equal(t, "albedoMax=0.7++tempCritRain=273.16", set.Identifier())

	m := set.Overrides()
	assert.Equal(t, 0.7, m["albedoMax"])
	assert.Equal(t, 273.16, m["tempCritRain"])
}
