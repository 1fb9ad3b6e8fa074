package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	features := filepath.Join(dir, "quant.csv")
	metadata := filepath.Join(dir, "meta.tsv")
	require.NoError(t, os.WriteFile(features, []byte(
		"sample,m_101,m_202\ns1,1,5\ns2,2,1\ns3,3,9\ns4,10,4\ns5,11,8\ns6,12,2\n"), 0o644))
	require.NoError(t, os.WriteFile(metadata, []byte(
		"sample\tcohort\ns1\tA\ns2\tA\ns3\tA\ns4\tB\ns5\tB\ns6\tB\n"), 0o644))
	return features, metadata
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "ERROR")
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestMWUCommand(t *testing.T) {
	features, metadata := writeInputs(t)
	volcano := filepath.Join(t.TempDir(), "volcano.png")

	stdout, stderr, err := execute(t, "mwu",
		"--features", features, "--metadata", metadata,
		"--attribute", "cohort", "--groups", "A,B",
		"--correction", "none", "--volcano", volcano)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "metabolite,U-val"))
	assert.True(t, strings.HasPrefix(lines[1], "m_101,"))
	assert.Contains(t, stderr, "2 features tested")

	_, err = os.Stat(volcano)
	assert.NoError(t, err)
}

func TestWilcoxonCommandToDirectory(t *testing.T) {
	features, metadata := writeInputs(t)
	out := t.TempDir()

	_, _, err := execute(t, "wilcoxon",
		"--features", features, "--metadata", metadata,
		"--attribute", "cohort", "--groups", "A,B", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "wilcoxon_cohort_A_vs_B.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "metabolite,W-val"))
}

func TestCorrectionFallsBackToEnvironment(t *testing.T) {
	features, metadata := writeInputs(t)

	tests := []struct {
		name string
		env  string
		want string
	}{
		{"configured default", "bonf", "(bonferroni)"},
		{"unset", "", "(fdr_bh)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEFAULT_CORRECTION", tt.env)
			_, stderr, err := execute(t, "mwu",
				"--features", features, "--metadata", metadata,
				"--attribute", "cohort", "--groups", "A,B")
			require.NoError(t, err)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestTestCommandErrors(t *testing.T) {
	features, metadata := writeInputs(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"one group", []string{"--groups", "A"}, "exactly two"},
		{"unknown level", []string{"--groups", "A,C"}, "invalid grouping"},
		{"bad correction", []string{"--groups", "A,B", "--correction", "qvalue"}, "unsupported correction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"mwu", "--features", features, "--metadata", metadata, "--attribute", "cohort"}, tt.args...)
			_, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAttributesCommand(t *testing.T) {
	features, metadata := writeInputs(t)
	stdout, _, err := execute(t, "attributes", "--features", features, "--metadata", metadata)
	require.NoError(t, err)
	assert.Equal(t, "cohort\tA, B\n", stdout)
}
