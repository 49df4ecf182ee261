// Package configtest writes a minimal but complete settings directory for
// tests that need a loadable file manager and its referenced files.
package configtest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const fileManagerTemplate = `controlVersion       'SUMMA_FILE_MANAGER_V3.0.0' ! file manager version
simStartTime         '1985-10-01 00:00' ! simulation start
simEndTime           '1985-10-02 00:00' ! simulation end
settingsPath         '%s/' ! settings directory
forcingPath          '%s/' ! forcing directory
outputPath           '%s/' ! output directory
decisionsFile        'modelDecisions.txt' ! model decisions
outputControlFile    'outputControl.txt' ! output control
globalHruParamFile   'localParamInfo.txt' ! local parameters
globalGruParamFile   'basinParamInfo.txt' ! basin parameters
outFilePrefix        'reynolds' ! output file prefix
`

const decisionsText = `! model decisions
soilCatTbl                      ROSETTA         ! soil-category dataset
vegeParTbl                      USGS            ! vegetation category dataset
snowIncept                      lightSnow       ! canopy interception
stomResist                      BallBerry       ! stomatal resistance
num_method                      itertive        ! numerical method
`

const outputControlText = `! varName           | outFreq | inst | sum | mean | var | min | max
scalarSWE           | 1       | 1    | 0   | 0    | 0   | 0   | 0
pptrate             | 24      | 0    | 1   | 0    | 0   | 0   | 0
`

const localParamsText = `! name                    | default      | lower        | upper
upperBoundHead            | -0.7500000000d+00 | -100.0000000000d+00 | -0.0100000000d+00
albedoMax                 |  0.8400000000d+00 |  0.7000000000d+00 |  0.9500000000d+00
tempCritRain              |  273.1600000000d+00 |  272.1600000000d+00 |  274.1600000000d+00
`

const basinParamsText = `basin__aquiferHydCond     |  0.0100000000d+00 |  0.0001000000d+00 |  10.0000000000d+00
`

// WriteSettings lays out a settings, forcing and output directory under a
// fresh temp dir and returns the path of the file manager inside it.
func WriteSettings(t *testing.T) string {
	t.Helper()
	return WriteSettingsUnder(t, t.TempDir())
}

// WriteSettingsUnder is WriteSettings rooted at a caller-chosen directory, so
// tests can lay out several independent configurations side by side.
func WriteSettingsUnder(t *testing.T, root string) string {
	t.Helper()
	settings := filepath.Join(root, "settings")
	forcing := filepath.Join(root, "forcing")
	output := filepath.Join(root, "output")
	for _, dir := range []string{settings, forcing, output} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("creating %s: %v", dir, err)
		}
	}
	files := map[string]string{
		"modelDecisions.txt": decisionsText,
		"outputControl.txt":  outputControlText,
		"localParamInfo.txt": localParamsText,
		"basinParamInfo.txt": basinParamsText,
	}
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(settings, name), []byte(text), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	fmPath := filepath.Join(settings, "fileManager.txt")
	text := fmt.Sprintf(fileManagerTemplate, settings, forcing, output)
	if err := os.WriteFile(fmPath, []byte(text), 0644); err != nil {
		t.Fatalf("writing file manager: %v", err)
	}
	return fmPath
}
