package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_insight/internal/domain"
)

const sampleCSV = "rating,text,date\n" +
	"1,Water was dirty and staff rude,2023-02-01\n" +
	"5,\"Great hot spring, clean facility\",2023-05-10\n"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"MYSQL_DSN", "SCORING_URL", "SENTIMENT_THRESHOLD", "TREND_GRANULARITY",
		"PRIORITY_WEIGHTS", "RATING_SCALE", "LEXICON_FILE", "ANALYSIS_WORKERS"} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestRun_PrintsSummaryAndWritesJSON(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "onsen.csv", sampleCSV)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "run", "--out", outDir, "--granularity", "year", in)
	require.NoError(t, err)
	assert.Contains(t, out, "onsen.csv: 2 reviews, avg rating 3.00, positive 50% neutral 0% negative 50% (lexicon)")
	assert.Contains(t, out, "cleanliness")
	assert.Contains(t, out, "staff")
	// cleanliness: one positive and one negative mention
	assert.Contains(t, out, "1/0/1")

	b, err := os.ReadFile(filepath.Join(outDir, "onsen.analysis.json"))
	require.NoError(t, err)
	var res domain.AnalysisResult
	require.NoError(t, json.Unmarshal(b, &res))
	assert.Len(t, res.Reviews, 2)
	assert.Equal(t, domain.Yearly, res.Config.Granularity)
	assert.Len(t, res.Priorities, 5)
	assert.Equal(t, domain.Cleanliness, res.Priorities[0].Aspect)
}

func TestRun_ReportsFailedFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", sampleCSV)
	bad := writeFile(t, dir, "bad.csv", "rating,date\n5,2023-01-01\n")

	out, err := execute(t, "run", "-p", "1", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "good.csv: 2 reviews")
	assert.Contains(t, out, "bad.csv: load:")
}

func TestRun_InvalidFlags(t *testing.T) {
	clearEnv(t)
	in := writeFile(t, t.TempDir(), "a.csv", sampleCSV)

	_, err := execute(t, "run", "--threshold", "1.5", in)
	var ce *domain.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "threshold", ce.Field)

	_, err = execute(t, "run", "--weights", "1,2", in)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "weights", ce.Field)
}

func TestImport_NeedsDatabase(t *testing.T) {
	clearEnv(t)
	in := writeFile(t, t.TempDir(), "a.csv", sampleCSV)

	_, err := execute(t, "import", "--property", "7", in)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestProperty_InvalidID(t *testing.T) {
	clearEnv(t)
	_, err := execute(t, "property", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid property id "abc"`)
}
