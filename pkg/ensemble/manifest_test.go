package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestFixture = `executable: /opt/summa/bin/summa.exe
file_manager: /data/reynolds/settings/fileManager.txt
workers: 4
mode: docker
docker_image: summa:develop
sweeps:
  albedoMax: [0.7, 0.9]
  stomResist: [BallBerry, Jarvis]
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(manifestFixture))
	require.NoError(t, err)
	assert.Equal(t, "/opt/summa/bin/summa.exe", m.Executable)
	assert.Equal(t, 4, m.Workers)
	assert.Equal(t, "docker", m.Mode)
	assert.Equal(t, "summa:develop", m.DockerImage)
}

func TestSweepListPreservesDeclarationOrder(t *testing.T) {
	m, err := ParseManifest([]byte(manifestFixture))
	require.NoError(t, err)

	sweeps, err := m.SweepList()
	require.NoError(t, err)
	require.Len(t, sweeps, 2)
	assert.Equal(t, "albedoMax", sweeps[0].Name)
	assert.Equal(t, []interface{}{0.7, 0.9}, sweeps[0].Values)
	assert.Equal(t, "stomResist", sweeps[1].Name)
	assert.Equal(t, []interface{}{"BallBerry", "Jarvis"}, sweeps[1].Values)

	ids := make([]string, 0, 4)
	for _, set := range Product(sweeps) {
		ids = append(ids, set.Identifier())
	}
	assert.Equal(t, []string{
		"albedoMax=0.7++stomResist=BallBerry",
		"albedoMax=0.7++stomResist=Jarvis",
		"albedoMax=0.9++stomResist=BallBerry",
		"albedoMax=0.9++stomResist=Jarvis",
	}, ids)
}

func TestParseManifestValidation(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"missing executable", "file_manager: fm.txt\nsweeps:\n  a: [1]\n"},
		{"missing file manager", "executable: summa.exe\nsweeps:\n  a: [1]\n"},
		{"not yaml", ": : :\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tc.text))
			assert.Error(t, err)
		})
	}
}

func TestSweepListValidation(t *testing.T) {
	m, err := ParseManifest([]byte("executable: x\nfile_manager: y\n"))
	require.NoError(t, err)
	_, err = m.SweepList()
	assert.Error(t, err, "missing sweeps must be rejected")

	m, err = ParseManifest([]byte("executable: x\nfile_manager: y\nsweeps:\n  a: []\n"))
	require.NoError(t, err)
	_, err = m.SweepList()
	assert.Error(t, err, "empty value list must be rejected")

	m, err = ParseManifest([]byte("executable: x\nfile_manager: y\nsweeps: [a, b]\n"))
	require.NoError(t, err)
	_, err = m.SweepList()
	assert.Error(t, err, "non-mapping sweeps must be rejected")
}
