//go:build e2e && unix

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startWithDataset(t *testing.T, tf *TUITestFramework) {
	t.Helper()
	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	data, err := tf.CreateTestDataset("data")
	require.NoError(t, err, "Failed to create dataset")

	require.NoError(t, tf.StartApp("-d", data), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("viruses: 4"), "Light index should load")
}

func TestSearchShowsVirusesImmediately(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()
	startWithDataset(t, tf)

	tf.Type("zi")
	require.True(t, tf.SeePlain("Zika virus"), "Two characters should match viruses")
	require.True(t, tf.SeePlain("[virus]"), "Virus rows should be tagged")
	require.True(t, tf.SeePlain("proteins: not loaded"), "Two characters should not fetch the search index")
}

func TestSearchFindsProteinsWithTypo(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()
	startWithDataset(t, tf)

	tf.Type("hemaglutinin")
	require.True(t, tf.OutputContainsPlain("Hemagglutinin", 3*time.Second), "Deep tier should tolerate a typo")
	require.True(t, tf.SeePlain("[Influenza A virus]"), "Protein rows should be tagged with their virus")
	require.True(t, tf.SeePlain("proteins: 3"), "Search index should be loaded")
}

func TestSearchNoResults(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()
	startWithDataset(t, tf)

	tf.Type("qqqqqq")
	require.True(t, tf.OutputContainsPlain("No results", 3*time.Second), "Unmatched query should say so")
}

func TestSelectVirusOpensDetailPage(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()
	startWithDataset(t, tf)

	tf.Type("influenza")
	require.True(t, tf.SeePlain("Influenza A virus"))
	tf.Enter()

	require.True(t, tf.OutputContainsPlain("Proteins (2)", 3*time.Second), "Virus page should list its proteins")
	require.True(t, tf.SeePlain("Neuraminidase"))

	// Open the first protein, then go back twice to the search page
	tf.Enter()
	require.True(t, tf.SeePlain("Hemagglutinin"))
	require.True(t, tf.SeePlain("p-ha"))

	tf.Escape()
	require.True(t, tf.SeePlain("Proteins (2)"), "Esc should return to the virus page")
	tf.Escape()
	require.True(t, tf.WaitFor(func(s string) bool {
		plain := ansiRe.ReplaceAllString(s, "")
		return strings.LastIndex(plain, "Search:") > strings.LastIndex(plain, "Proteins (2)")
	}, 3*time.Second), "Second Esc should return to the search page")
}

func TestEscapeClosesAndSlashReopens(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()
	startWithDataset(t, tf)

	tf.Type("dengue")
	require.True(t, tf.SeePlain("Dengue virus"))

	tf.Escape()
	require.True(t, tf.WaitFor(func(s string) bool {
		plain := ansiRe.ReplaceAllString(s, "")
		i := strings.LastIndex(plain, "Search:")
		return i >= 0 && !strings.Contains(plain[i:], "[virus]")
	}, 3*time.Second), "Esc should close the dropdown")

	require.NoError(t, tf.SendKeys(KeySlash))
	require.True(t, tf.WaitFor(func(s string) bool {
		plain := ansiRe.ReplaceAllString(s, "")
		i := strings.LastIndex(plain, "Search:")
		return i >= 0 && strings.Contains(plain[i:], "[virus]")
	}, 3*time.Second), "/ should reopen the dropdown with the kept query")
}
