package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetcsv-dev/budgetcsv/internal/export"
	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

func TestResolveScope_BySlug(t *testing.T) {
	scope := resolveScope("desjardins-creditcard", "")
	assert.Equal(t, 1, scope.AccountID)
	assert.Equal(t, model.FamilyContinental, scope.Family)
}

func TestResolveScope_ByID(t *testing.T) {
	scope := resolveScope("3", "")
	assert.Equal(t, 3, scope.AccountID)
	assert.Equal(t, model.FamilyPlain, scope.Family)
}

func TestResolveScope_ByURL(t *testing.T) {
	scope := resolveScope("", "https://web.koho.ca/transactions")
	assert.Equal(t, 3, scope.AccountID)
	assert.Equal(t, model.FamilyPlain, scope.Family)
}

func TestResolveScope_Unknown(t *testing.T) {
	assert.Equal(t, export.Scope{}, resolveScope("nope", ""))
	assert.Equal(t, export.Scope{}, resolveScope("", "https://example.com"))
	assert.Equal(t, export.Scope{}, resolveScope("99", ""))
}

func TestReadDump_JSONByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"date":"15 janvier","payee":"SAQ","amount":"45,00$"}]`), 0o644))

	rows, err := readDump(path, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SAQ", rows[0].Payee)
}

func TestReadDump_CSVByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,payee,amount\n15 janvier,SAQ,\"45,00$\"\n"), 0o644))

	rows, err := readDump(path, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "45,00$", rows[0].Amount)
}

func TestReadDump_ExplicitFormatWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.txt")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	_, err := readDump(path, "xml")
	assert.ErrorContains(t, err, "unknown dump format")
}

func TestReadDump_MissingFile(t *testing.T) {
	_, err := readDump(filepath.Join(t.TempDir(), "nope.json"), "")
	assert.Error(t, err)
}
