package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/citewatch/internal/model"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		desc     string
	}{
		{"https://example.com/reviews/acme", "example.com_reviews_acme", "scheme stripped, slashes replaced"},
		{"http://example.com/", "example.com", "trailing slash"},
		{"HTTPS://Example.com/a?b=c&d=e", "Example.com_a_b_c_d_e", "query characters"},
		{"notes/answer one.txt", "notes_answer_one.txt", "file path with space"},
		{"https://example.com//x", "example.com_x", "repeated separators collapse"},
		{"///", "report", "nothing left"},
		{"", "report", "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := sanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSanitizeFilename_Length(t *testing.T) {
	long := "https://example.com/" + string(bytes.Repeat([]byte("a"), 300))
	got := sanitizeFilename(long)
	if len(got) > maxFilenameLen {
		t.Errorf("Expected at most %d characters, got %d", maxFilenameLen, len(got))
	}
}

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	setupViper()
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := loadConfig(&cobra.Command{})
	require.NoError(t, err)

	defaults := model.DefaultConfig()
	assert.Equal(t, defaults.Extraction, cfg.Extraction)
	assert.Equal(t, defaults.Cache.MemoryTTL, cfg.Cache.MemoryTTL)
	assert.Equal(t, defaults.HTTP.Timeout, cfg.HTTP.Timeout)
	assert.Equal(t, defaults.Concurrency.Workers, cfg.Concurrency.Workers)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("CITEWATCH_EXTRACTION_BRAND", "Acme")
	t.Setenv("CITEWATCH_CACHE_MEMORY_TTL", "5m")
	t.Setenv("CITEWATCH_CONCURRENCY_WORKERS", "9")
	t.Setenv("CITEWATCH_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	resetViper(t)

	cfg, err := loadConfig(&cobra.Command{})
	require.NoError(t, err)

	assert.Equal(t, "Acme", cfg.Extraction.Brand)
	assert.Equal(t, 5*time.Minute, cfg.Cache.MemoryTTL)
	assert.Equal(t, 9, cfg.Concurrency.Workers)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	t.Setenv("CITEWATCH_EXTRACTION_BRAND", "FromEnv")
	resetViper(t)

	cmd := &cobra.Command{}
	addTrackFlags(cmd)
	t.Cleanup(func() { flags = trackFlags{} })
	require.NoError(t, cmd.ParseFlags([]string{"--brand", "FromFlag", "--max-citations", "7", "--no-cache"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "FromFlag", cfg.Extraction.Brand)
	assert.Equal(t, 7, cfg.Extraction.MaxCitations)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("CITEWATCH_EXTRACTION_MIN_CONFIDENCE", "2")
	resetViper(t)

	_, err := loadConfig(&cobra.Command{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestReadResult(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	data, err := json.Marshal(&model.Result{
		Brand:      "Acme",
		Citations:  []model.Citation{{Text: "Gartner"}},
		Stats:      model.Stats{Total: 1},
		AnalyzedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(valid, data, 0o644))

	result, err := readResult(valid)
	require.NoError(t, err)
	assert.Equal(t, "Acme", result.Brand)
	assert.Equal(t, 1, result.Stats.Total)

	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(other, []byte(`{"name":"x"}`), 0o644))
	_, err = readResult(other)
	assert.ErrorIs(t, err, errNotResult)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o644))
	_, err = readResult(broken)
	assert.Error(t, err)

	_, err = readResult(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := parseID(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Acme", truncate("Acme", 20))
	assert.Equal(t, "Acm…", truncate("Acme Corporation", 4))
}

func TestTrackCommand_JSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	resetViper(t)
	t.Cleanup(func() { flags = trackFlags{} })

	input := filepath.Join(t.TempDir(), "answer.txt")
	text := "Acme was founded in 1990. See https://en.wikipedia.org/wiki/Acme_Corporation for details."
	require.NoError(t, os.WriteFile(input, []byte(text), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"track", input, "--brand", "Acme", "--no-cache", "--json", "-"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, Execute(context.Background()))

	var result model.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "Acme", result.Brand)
	require.Equal(t, 1, result.Stats.Total)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Acme_Corporation", result.Citations[0].URL)
	assert.True(t, result.Citations[0].IsBrandRelated)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, Execute(context.Background()))
	assert.Equal(t, "citewatch "+Version+"\n", out.String())
}
