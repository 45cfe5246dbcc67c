package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dbPath string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "logging:\n  level: error\nstorage:\n  dbPath: \"" + dbPath + "\"\n  migrate: true\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("1.0.0-test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--config", writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "1.0.0-test\n", out)
}

func TestAmortize(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := run(t, "amortize", "--config", cfg, "--principal", "20000", "--rate", "6", "--term", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "--- Amortization ---")
	assert.Contains(t, out, "386.66")
	assert.Contains(t, out, "3,199.60")
}

func TestAmortizeScheduleCSV(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := run(t, "amortize", "--config", cfg, "--output-format", "csv",
		"--principal", "1200", "--rate", "0", "--term", "12", "--schedule")
	require.NoError(t, err)
	assert.Contains(t, out, `"field","value"`)
	assert.Contains(t, out, `"month","payment","principal","interest","remaining"`)
	assert.Contains(t, out, `"12","100.00","100.00","0.00","0.00"`)
}

func TestAmortizeRejectsBadTerm(t *testing.T) {
	cfg := writeConfig(t, "")
	_, err := run(t, "amortize", "--config", cfg, "--principal", "20000", "--rate", "6", "--term", "0")
	assert.Error(t, err)
}

func TestInvalidOutputFormat(t *testing.T) {
	cfg := writeConfig(t, "")
	_, err := run(t, "rates", "--config", cfg, "--output-format", "xml")
	assert.Error(t, err)
}

func TestFinance(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := run(t, "finance", "--config", cfg, "--price", "25000", "--down", "3000", "--trade-in", "2000", "--rate", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "20,000.00")
}

func TestQualify(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "qualify", "--config", cfg, "--price", "20000")
	require.NoError(t, err)
	assert.Contains(t, out, "not calculated")

	out, err = run(t, "qualify", "--config", cfg, "--price", "20000", "--income", "5000", "--tier", "good")
	require.NoError(t, err)
	assert.Contains(t, out, "likely-approved")

	out, err = run(t, "qualify", "--config", cfg, "--price", "20000", "--income", "5000", "--employment", "unemployed")
	require.NoError(t, err)
	assert.Contains(t, out, "not-eligible")
}

func TestConvertAndRates(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "convert", "1000", "--config", cfg, "--to", "XOF")
	require.NoError(t, err)
	assert.Contains(t, out, "CFA 400,000")

	out, err = run(t, "rates", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "NGN")
	assert.Contains(t, out, "ZAR")

	_, err = run(t, "convert", "ten", "--config", cfg)
	assert.Error(t, err)
}

func TestShip(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "ship", "--config", cfg, "--destination", "sn", "--size", "suv", "--price", "15000")
	require.NoError(t, err)
	assert.Contains(t, out, "5,038.00")
	assert.Contains(t, out, "20,038.00")

	_, err = run(t, "ship", "--config", cfg, "--destination", "FR")
	assert.Error(t, err)
}

func TestCommission(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "commission", "--config", cfg, "--amount", "10000", "--role", "dealer")
	require.NoError(t, err)
	assert.Contains(t, out, "500.00")
	assert.Contains(t, out, "3%, 5%, 7%, 10%")

	out, err = run(t, "commission", "--config", cfg, "--amount", "10000", "--role", "dealer", "--percentage", "0")
	require.NoError(t, err)
	assert.Regexp(t, `Percentage\s+\| 0%`, out)
	assert.Regexp(t, `Commission\s+\| 0\.00`, out)
	assert.NotContains(t, out, "500.00")
}

func TestSavedQuotesRoundTrip(t *testing.T) {
	cfg := writeConfig(t, filepath.Join(t.TempDir(), "cli.db"))

	out, err := run(t, "commission", "--config", cfg, "--amount", "10000", "--percentage", "3", "--save")
	require.NoError(t, err)
	m := regexp.MustCompile(`Quote ID\s+\| (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	quoteID := m[1]

	out, err = run(t, "quotes", "list", "--config", cfg, "--kind", "commission")
	require.NoError(t, err)
	assert.Contains(t, out, quoteID)

	out, err = run(t, "quotes", "get", quoteID, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `"commissionAmount":300`)

	_, err = run(t, "quotes", "get", "01ARZ3NDEKTSV4RRFFQ69G5FAV", "--config", cfg)
	assert.Error(t, err)

	_, err = run(t, "quotes", "get", "not-a-ulid", "--config", cfg)
	assert.ErrorContains(t, err, "malformed quote ID")
}

func TestQuotesRequireJournal(t *testing.T) {
	_, err := run(t, "quotes", "list", "--config", writeConfig(t, ""))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "disabled"))
}

func TestConfigShow(t *testing.T) {
	out, err := run(t, "config", "show", "--config", writeConfig(t, ""))
	require.NoError(t, err)
	assert.Contains(t, out, "8080")
	assert.Contains(t, out, "ttl: 10m0s")
}
