package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigKind(t *testing.T) {
	cases := map[string]string{
		"settings/fileManager.txt":    "filemanager",
		"settings/modelDecisions.txt": "decisions",
		"settings/outputControl.txt":  "output",
		"settings/localParamInfo.txt": "params",
		"settings/basinParamInfo.txt": "params",
		"settings/forcing.nc":         "",
	}
	for path, want := range cases {
		assert.Equal(t, want, configKind(path), path)
	}
}

func TestParseConfigValue(t *testing.T) {
	assert.Equal(t, 1, parseConfigValue("1"))
	assert.Equal(t, 0.9, parseConfigValue("0.9"))
	assert.Equal(t, "Jarvis", parseConfigValue("Jarvis"))
	assert.Equal(t, []int{1, 1, 0, 0, 0, 0, 0}, parseConfigValue("1,1,0,0,0,0,0"))
	assert.Equal(t, []float64{0.7, 0.9}, parseConfigValue("0.7,0.9"))
	assert.Equal(t, "a,b", parseConfigValue("a,b"))
}

func TestFormatConfigValue(t *testing.T) {
	assert.Equal(t, "1,0,1", formatConfigValue([]int{1, 0, 1}))
	assert.Equal(t, "0.7,0.9", formatConfigValue([]float64{0.7, 0.9}))
	assert.Equal(t, "BallBerry", formatConfigValue("BallBerry"))
}
