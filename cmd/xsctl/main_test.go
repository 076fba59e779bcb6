// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mgxs/xsfile"
)

// twoGroup is a fissile two-group material with P1 scattering.
const twoGroup = `Two-group fuel
NUM_GROUPS 2
NUM_MOMENTS 2
SIGMA_T_BEGIN
0 1.0
1 2.0
SIGMA_T_END
SIGMA_F_BEGIN
0 0.1
1 0.2
SIGMA_F_END
NU_BEGIN
0 2.5
1 2.5
NU_END
CHI_BEGIN
0 1
1 0
CHI_END
VELOCITY_BEGIN
0 2e9
1 4e5
VELOCITY_END
TRANSFER_MOMENTS_BEGIN
M_GPRIME_G_VAL 0 0 0 0.5
M_GPRIME_G_VAL 0 0 1 0.2
M_GPRIME_G_VAL 0 1 1 1.5
M_GPRIME_G_VAL 1 0 0 0.1
TRANSFER_MOMENTS_END
`

// fixture writes twoGroup into a temporary directory.
func fixture(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "fuel.xs")
	require.NoError(t, os.WriteFile(path, []byte(twoGroup), 0o644))

	return dir, path
}

// runCLI runs xsctl with env as its environment.
func runCLI(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr, func(k string) string { return env[k] })

	return stdout.String(), stderr.String(), err
}

// TestRun_Usage checks the listing printed without a subcommand.
func TestRun_Usage(t *testing.T) {
	_, stderr, err := runCLI(t, nil)
	require.ErrorIs(t, err, errUsage)
	for _, name := range []string{"inspect", "combine", "collapse", "export", "snapshot", "plot"} {
		assert.Contains(t, stderr, name)
	}

	_, _, err = runCLI(t, nil, "frobnicate")
	assert.ErrorContains(t, err, `unknown subcommand "frobnicate"`)

	_, _, err = runCLI(t, nil, "-log-level", "loud", "inspect")
	assert.ErrorContains(t, err, "-log-level")

	_, _, err = runCLI(t, map[string]string{envMaxIterations: "-3"}, "inspect")
	assert.ErrorContains(t, err, envMaxIterations)
}

// TestInspect checks the summary line and the aligned group table.
func TestInspect(t *testing.T) {
	_, path := fixture(t)
	stdout, _, err := runCLI(t, nil, "inspect", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "groups=2 order=1 precursors=0 fission=total scaled=false")
	assert.NotContains(t, stdout, "invalid:")
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	table := lines[len(lines)-3:]
	for _, title := range []string{"σt", "σa", "D", "νσf", "χ", "1/v"} {
		assert.Contains(t, table[0], title)
	}
	width := runewidth.StringWidth(table[0])
	for _, line := range table[1:] {
		assert.Equal(t, width, runewidth.StringWidth(line), "row %q", line)
	}
}

// TestInspect_Tables checks that the CDF table is printed on request.
func TestInspect_Tables(t *testing.T) {
	_, path := fixture(t)
	stdout, _, err := runCLI(t, nil, "inspect", "-tables", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "g′ → g")
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	last := strings.Fields(lines[len(lines)-1])
	assert.Equal(t, []string{"1", "0", "1"}, last, "group 1 only scatters into itself")
}

// TestInspect_MissingFile checks that I/O errors propagate.
func TestInspect_MissingFile(t *testing.T) {
	_, _, err := runCLI(t, nil, "inspect", filepath.Join(t.TempDir(), "none.xs"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = runCLI(t, nil, "inspect")
	assert.ErrorIs(t, err, errUsage)
}

// TestCollapse checks the report and the scheme taken from the environment.
func TestCollapse(t *testing.T) {
	_, path := fixture(t)
	stdout, _, err := runCLI(t, map[string]string{envScheme: "jacobi"}, "collapse", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "scheme      jacobi\n")
	assert.Contains(t, stdout, "converged   true\n")

	stdout, _, err = runCLI(t, nil, "collapse", "-scheme", "gauss", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "scheme      gauss\n")
	assert.Contains(t, stdout, "eigenvalue  0.75\n")

	_, _, err = runCLI(t, nil, "collapse", "-scheme", "sor", path)
	assert.ErrorContains(t, err, "unknown scheme")
}

// TestExport_Scaling checks that production data is rescaled on export and
// provenance lands in the header.
func TestExport_Scaling(t *testing.T) {
	dir, path := fixture(t)
	out := filepath.Join(dir, "scaled.xs")
	_, _, err := runCLI(t, nil, "export", "-scale", "1/2", "-o", out, path)
	require.NoError(t, err)

	text, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(text), "# source "+path+"\n")
	assert.Contains(t, string(text), "# id ")
	assert.Contains(t, string(text), "# fission scaling 1/2\n")

	rec, err := xsfile.ReadFile(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.125, 0.25}, rec.NuSigmaF(), 1e-15)
	assert.Equal(t, []float64{1, 2}, rec.SigmaT())

	_, _, err = runCLI(t, nil, "export", "-scale", "0", "-o", out, path)
	assert.ErrorContains(t, err, "must be finite and > 0")
}

// TestCombine checks that mixing a file with itself in halves reproduces it.
func TestCombine(t *testing.T) {
	dir, path := fixture(t)
	out := filepath.Join(dir, "mix.xs")
	stdout, _, err := runCLI(t, nil, "combine", "-o", out, path+":0.5", path+":0.5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 components, 2 groups, fissionable=true")

	rec, err := xsfile.ReadFile(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2}, rec.SigmaT(), 1e-15)
	assert.InDeltaSlice(t, []float64{0.25, 0.5}, rec.NuSigmaF(), 1e-15)

	text, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(text), "# component 1 weight 0.5\n")

	_, _, err = runCLI(t, nil, "combine", "-o", out, path)
	assert.ErrorContains(t, err, "want FILE:WEIGHT")
}

// TestSnapshot_RoundTrip converts a file to YAML and back.
func TestSnapshot_RoundTrip(t *testing.T) {
	dir, path := fixture(t)
	yamlPath := filepath.Join(dir, "fuel.yaml")
	_, _, err := runCLI(t, nil, "snapshot", "-o", yamlPath, path)
	require.NoError(t, err)

	text, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "version: 1\n")
	assert.Contains(t, string(text), "fission_mode: total\n")

	stdout, _, err := runCLI(t, nil, "snapshot", "-restore", yamlPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "# source "+yamlPath+"\n")

	restored := filepath.Join(dir, "restored.xs")
	require.NoError(t, os.WriteFile(restored, []byte(stdout), 0o644))
	rec, err := xsfile.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, rec.SigmaT())
	assert.InDeltaSlice(t, []float64{0.25, 0.5}, rec.NuSigmaF(), 1e-15)
	assert.Equal(t, 1, rec.ScatteringOrder())
}

// TestPlot checks that every figure is written.
func TestPlot(t *testing.T) {
	_, path := fixture(t)
	out := filepath.Join(t.TempDir(), "figs")
	stdout, _, err := runCLI(t, map[string]string{envPlotDir: out}, "plot", "-format", "svg", path)
	require.NoError(t, err)

	for _, stem := range []string{"sigma", "spectrum", "transfer"} {
		file := filepath.Join(out, stem+".svg")
		assert.Contains(t, stdout, file)
		info, err := os.Stat(file)
		if assert.NoError(t, err) {
			assert.Positive(t, info.Size())
		}
	}

	_, _, err = runCLI(t, nil, "plot", "-format", "bmp", path)
	assert.ErrorContains(t, err, "unsupported")
}

// TestParseHelpers covers the scale and component argument syntax.
func TestParseHelpers(t *testing.T) {
	scales := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1", 1, true},
		{"0.5", 0.5, true},
		{"1/1.25", 0.8, true},
		{" 2 / 4 ", 0.5, true},
		{"1/0", 0, false},
		{"-1", 0, false},
		{"k", 0, false},
		{"1/k", 0, false},
	}
	for _, tc := range scales {
		got, err := parseScale(tc.in)
		if !tc.ok {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.InDelta(t, tc.want, got, 1e-15, tc.in)
	}

	path, w, err := parseComponent("dir/c:fuel.xs:0.25")
	require.NoError(t, err)
	assert.Equal(t, "dir/c:fuel.xs", path)
	assert.Equal(t, 0.25, w)
	for _, bad := range []string{"fuel.xs", ":1", "fuel.xs:", "fuel.xs:heavy"} {
		_, _, err = parseComponent(bad)
		assert.Error(t, err, bad)
	}
}
