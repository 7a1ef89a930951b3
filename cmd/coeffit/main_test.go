package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/coeffit/pkg/fit"
	"github.com/ja7ad/coeffit/pkg/grid"
	"github.com/ja7ad/coeffit/pkg/profiles"
	"github.com/ja7ad/coeffit/pkg/report"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRun_DefaultBlocks(t *testing.T) {
	out, err := execute(t, "--elapsed=false")
	require.NoError(t, err)

	blocks := strings.Split(strings.TrimRight(out, "\n"), "\n\n")
	require.Len(t, blocks, 5)
	for i, name := range profiles.Names() {
		p, err := profiles.Lookup(name)
		require.NoError(t, err)
		lines := strings.Split(blocks[i], "\n")
		require.Len(t, lines, 4, blocks[i])
		assert.Equal(t, "--- "+p.Label+" ---", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "error = ") && strings.HasSuffix(lines[1], "%"), lines[1])
		assert.True(t, strings.HasPrefix(lines[2], "cd = 0."), lines[2])
		assert.True(t, strings.HasPrefix(lines[3], "cr = 0.0"), lines[3])
	}
}

func TestRun_MatchesLibrary(t *testing.T) {
	out, err := execute(t, "--elapsed=false", "jerome-tt")
	require.NoError(t, err)

	p, err := profiles.Lookup("jerome-tt")
	require.NoError(t, err)
	f, err := fit.New(nil)
	require.NoError(t, err)
	res, err := f.FitProfile(context.Background(), p)
	require.NoError(t, err)

	var want bytes.Buffer
	require.NoError(t, report.Block(&want, p.Label, res))
	assert.Equal(t, want.String(), out)
}

func TestRun_ElapsedLine(t *testing.T) {
	out, err := execute(t, "alban-pk")
	require.NoError(t, err)
	assert.Contains(t, out, "--- Alban PK ---")
	assert.Regexp(t, `done in \S+\n$`, out)
}

func TestRun_PrettyAndFiles(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "nested", "fit.csv")
	jsonPath := filepath.Join(dir, "fit.json")

	out, err := execute(t, "--elapsed=false", "--pretty", "--workers", "3",
		"--csv", csvPath, "--json", jsonPath, "alban-tt,alban-rb")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "PROFILE"))
	assert.Contains(t, out, "Alban TT")
	assert.Contains(t, out, "Alban RB")

	b, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(b)), "\n"), 3)

	b, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var rows []report.Row
	require.NoError(t, json.Unmarshal(b, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "alban-tt", rows[0].Profile)
	assert.Equal(t, report.Mode2D, rows[0].Mode)
	assert.Equal(t, 200*200, rows[0].Evaluated)
}

func TestRun_Joint(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "joint.json")
	_, err := execute(t, "--elapsed=false", "--joint", "--workers", "4",
		"--cd-fine-step", "0.001", "--cr-fine-step", "0.0001",
		"--json", jsonPath, "alban-tt", "alban-rb", "alban-pk")
	require.NoError(t, err)

	b, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var rows []report.Row
	require.NoError(t, json.Unmarshal(b, &rows))
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, report.ModeJoint, r.Mode)
		assert.Equal(t, rows[0].Cr, r.Cr)
	}
}

func TestRun_MassOverride(t *testing.T) {
	dir := t.TempDir()
	read := func(path string) report.Row {
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		var rows []report.Row
		require.NoError(t, json.Unmarshal(b, &rows))
		require.Len(t, rows, 1)
		return rows[0]
	}

	_, err := execute(t, "--elapsed=false", "--mass", "60", "--json", filepath.Join(dir, "light.json"), "jerome-rb")
	require.NoError(t, err)
	_, err = execute(t, "--elapsed=false", "--json", filepath.Join(dir, "default.json"), "jerome-rb")
	require.NoError(t, err)

	light, def := read(filepath.Join(dir, "light.json")), read(filepath.Join(dir, "default.json"))
	assert.Equal(t, 60.0, light.MassKg)
	assert.Equal(t, 88.0, def.MassKg)
	assert.NotEqual(t, light.ErrorPct, def.ErrorPct)
}

func TestRun_List(t *testing.T) {
	out, err := execute(t, "--list")
	require.NoError(t, err)
	for _, n := range profiles.Names() {
		assert.Contains(t, out, n)
	}
	assert.Contains(t, out, "88.0 kg")
}

func TestRun_Errors(t *testing.T) {
	_, err := execute(t, "nobody")
	require.ErrorIs(t, err, profiles.ErrUnknownProfile)

	_, err = execute(t, "--cd-low", "0.4")
	require.ErrorIs(t, err, grid.ErrInvalidRange)

	_, err = execute(t, "--cr-step", "0")
	require.ErrorIs(t, err, grid.ErrInvalidRange)

	// all-zero ranges are rejected, not replaced by the defaults
	_, err = execute(t, "--cd-low", "0", "--cd-high", "0", "--cd-step", "0")
	require.ErrorIs(t, err, grid.ErrInvalidRange)

	_, err = execute(t, "--cr-low", "0", "--cr-high", "0", "--cr-step", "0", "--cr-fine-step", "0")
	require.ErrorIs(t, err, grid.ErrInvalidRange)

	_, err = execute(t, "--cd-step", "1e-300")
	require.ErrorIs(t, err, grid.ErrInvalidRange)

	_, err = execute(t, "--workers", "0")
	require.Error(t, err)

	_, err = execute(t, "--mass", "-1")
	require.Error(t, err)
}

func TestOpts_Config(t *testing.T) {
	o := opts{cdLow: 0.1, cdHigh: 0.3, cdStep: 0.01, cdFineStep: 0.001,
		crLow: 0.004, crHigh: 0.02, crStep: 0.001, crFineStep: 0.0001, workers: 2}
	cfg := o.config()
	assert.Equal(t, grid.Range{Low: 0.1, High: 0.3, Step: 0.01}, cfg.Cd)
	assert.Equal(t, grid.Range{Low: 0.1, High: 0.3, Step: 0.001}, cfg.CdFine)
	assert.Equal(t, grid.Range{Low: 0.004, High: 0.02, Step: 0.001}, cfg.Cr)
	assert.Equal(t, grid.Range{Low: 0.004, High: 0.02, Step: 0.0001}, cfg.CrFine)
	assert.Equal(t, 2, cfg.Workers)
}
