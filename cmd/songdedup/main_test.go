// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/songdedup/internal/resolve"
	"github.com/pdiddy/songdedup/pkg/types"
)

const songsYAML = `- id: mountain-song
  title: Mountain Song
  has_audio: true
  has_image: true
  created_at: "2024-01-01"
- id: mountain-song-copy
  title: mountain song!
  has_audio: true
  has_image: true
  created_at: "2024-06-01"
- id: mountain-song-bare
  title: Mountain Song
  created_at: "2023-01-01"
- id: redemption
  title: Redemption
- id: redemtion
  title: Redemtion
  has_image: true
`

const conflictYAML = `- id: holy
  title: Holy
  lyrics: grace upon grace
  has_image: true
  created_at: "2020-01-01"
- id: holy-draft
  title: Holy
- id: grace-song
  title: Another Song
  lyrics: Grace upon grace!
  has_audio: true
`

// run executes the root command with args and returns stdout and the
// command error. Flags are reset afterwards so later runs start clean.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	defer resetFlags(rootCmd)
	err := rootCmd.Execute()
	return out.String(), err
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err)
	return out
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeSongFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeSongs(t *testing.T) string {
	t.Helper()
	return writeSongFile(t, "songs.yaml", songsYAML)
}

func songIDs(songs []types.Song) []string {
	ids := make([]string, len(songs))
	for i, s := range songs {
		ids[i] = s.ID
	}
	return ids
}

func TestSimilarityCommand(t *testing.T) {
	out := execute(t, "similarity", "Redemption", "Redemtion")
	assert.Equal(t, "90.0% similar\n", out)
}

func TestScanCommandJSON(t *testing.T) {
	out := execute(t, "scan", "--input", writeSongs(t), "--format", "json", "--exact-lyrics=false")

	var report types.DuplicateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.ExactTitles, 1)
	assert.Equal(t, []string{"mountain-song", "mountain-song-copy", "mountain-song-bare"}, report.ExactTitles[0].IDs())
	require.Len(t, report.SimilarTitles, 2)
	assert.Equal(t, []string{"redemption", "redemtion"}, report.SimilarTitles[1].IDs())
	assert.Empty(t, report.ExactLyrics)
}

func TestResolveCommandJSON(t *testing.T) {
	out := execute(t, "resolve", "--input", writeSongs(t), "--format", "json", "--protect", "redemption")

	var decoded struct {
		Groups []struct {
			Keeper types.Song `json:"keeper"`
		} `json:"groups"`
		Removals  []string `json:"removals"`
		Conflicts []string `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.NotEmpty(t, decoded.Groups)
	assert.Equal(t, "mountain-song", decoded.Groups[0].Keeper.ID)
	assert.Equal(t, []string{"mountain-song-bare", "mountain-song-copy"}, decoded.Removals)
	assert.Empty(t, decoded.Conflicts)
}

func TestLibraryImportAndList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "library")
	execute(t, "library", "import", writeSongs(t), "--library-dir", dir)

	out := execute(t, "library", "list", "--json", "--library-dir", dir)
	var songs []types.Song
	require.NoError(t, json.Unmarshal([]byte(out), &songs))
	assert.Len(t, songs, 5)
	assert.Equal(t, "mountain-song", songs[0].ID)
}

func TestResolveApplyDeletesFromLibrary(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "library")
	execute(t, "library", "import", writeSongs(t), "--library-dir", dir)

	out := execute(t, "resolve", "--apply", "--format", "json", "--library-dir", dir)
	var decoded struct {
		Removals []string `json:"removals"`
		Deleted  int      `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []string{"mountain-song-bare", "mountain-song-copy", "redemption"}, decoded.Removals)
	assert.Equal(t, 3, decoded.Deleted)

	out = execute(t, "library", "list", "--json", "--library-dir", dir)
	var remaining []types.Song
	require.NoError(t, json.Unmarshal([]byte(out), &remaining))
	assert.Equal(t, []string{"mountain-song", "redemtion"}, songIDs(remaining))

	history := execute(t, "library", "history", "--library-dir", dir)
	for _, id := range decoded.Removals {
		assert.Contains(t, history, id)
	}
	assert.Contains(t, history, "duplicate resolution")
	assert.NotContains(t, history, "redemtion")

	// A second run finds nothing left to delete.
	out = execute(t, "resolve", "--apply", "--format", "json", "--library-dir", dir)
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Empty(t, decoded.Removals)
	assert.Zero(t, decoded.Deleted)
}

func TestResolveApplyRejectsInput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "library")
	_, err := run(t, "resolve", "--apply", "--input", writeSongs(t), "--library-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined with --input")

	_, statErr := os.Stat(filepath.Join(dir, "songs.db"))
	assert.True(t, os.IsNotExist(statErr), "library must not be opened")
}

func TestResolveConflicts(t *testing.T) {
	path := writeSongFile(t, "conflict.yaml", conflictYAML)

	tests := []struct {
		name         string
		args         []string
		wantRemovals []string
	}{
		{"union keeps conflicts removable", nil, []string{"holy", "holy-draft"}},
		{"keep-conflicts spares keepers", []string{"--keep-conflicts"}, []string{"holy-draft"}},
		{"protect spares listed ids", []string{"--protect", "holy-draft"}, []string{"holy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"resolve", "--input", path, "--format", "json"}, tt.args...)
			out := execute(t, args...)

			var decoded struct {
				Removals  []string `json:"removals"`
				Conflicts []string `json:"conflicts"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &decoded))
			assert.Equal(t, tt.wantRemovals, decoded.Removals)
			assert.Equal(t, []string{"holy"}, decoded.Conflicts)
		})
	}
}

func TestLocaleFlag(t *testing.T) {
	assert.Nil(t, scanCmd.Flags().Lookup("locale"))

	f := resolveCmd.Flags().Lookup("locale")
	require.NotNil(t, f)
	assert.Equal(t, resolve.DefaultLocale, f.DefValue)

	_, err := run(t, "scan", "--input", writeSongs(t), "--locale", "de")
	assert.ErrorContains(t, err, "unknown flag: --locale")

	_, err = run(t, "resolve", "--input", writeSongs(t), "--locale", "!!")
	assert.ErrorIs(t, err, types.ErrInvalidConfiguration)
}

func TestLibraryListTable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "library")
	execute(t, "library", "import", writeSongs(t), "--library-dir", dir)

	out := execute(t, "library", "list", "--library-dir", dir)
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 3)
	assert.Contains(t, lines[2], "mountain-song")
	assert.Contains(t, lines[2], "AI")
	assert.Contains(t, out, "5 songs")
}

// Runs last: viper keeps the config file path for the rest of the process.
func TestConfigFileReportedOnce(t *testing.T) {
	cfgPath := writeSongFile(t, "songdedup.yaml", "dedup:\n  locale: en\n")

	stderr, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	orig := os.Stderr
	os.Stderr = stderr
	t.Cleanup(func() {
		os.Stderr = orig
		stderr.Close()
	})

	execute(t, "similarity", "a", "b", "--config", cfgPath, "--log-level", "debug")
	os.Stderr = orig

	data, err := os.ReadFile(stderr.Name())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), cfgPath))
}
