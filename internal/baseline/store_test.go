package baseline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"maplint/internal/diag"
	"maplint/internal/logging"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "baseline.db"), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testDiagnostics() []diag.Diagnostic {
	return []diag.Diagnostic{
		diag.New(diag.PropertyTypeMismatch, diag.Diagnostic{
			Unit: "billing", Member: "Age", SourceType: "Customer", DestType: "CustomerDto",
		}),
		diag.New(diag.RedundantMapFrom, diag.Diagnostic{
			Unit: "billing", Member: "Name", SourceType: "Customer", DestType: "CustomerDto",
		}),
	}
}

func TestAcceptAndContains(t *testing.T) {
	store := openTestStore(t)
	diags := testDiagnostics()

	require.NoError(t, store.Accept("run-1", diags))

	ok, err := store.Contains(diags[0].Fingerprint())
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Contains("ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAcceptIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	diags := testDiagnostics()

	require.NoError(t, store.Accept("run-1", diags))
	require.NoError(t, store.Accept("run-2", diags))

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestFilterSuppressesAcceptedFindings(t *testing.T) {
	store := openTestStore(t)
	diags := testDiagnostics()

	require.NoError(t, store.Accept("run-1", diags[:1]))

	filtered, err := store.Filter(diags)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, diag.RedundantMapFrom, filtered[0].Rule)
}

func TestFilterSurvivesSeverityRegrade(t *testing.T) {
	store := openTestStore(t)
	diags := testDiagnostics()
	require.NoError(t, store.Accept("run-1", diags))

	// Fingerprints ignore severity, so a config re-grade must not
	// resurrect a baselined finding.
	diags[0].Severity = diag.SeverityInfo
	filtered, err := store.Filter(diags)
	require.NoError(t, err)
	require.Empty(t, filtered)
}

func TestRemove(t *testing.T) {
	store := openTestStore(t)
	diags := testDiagnostics()
	require.NoError(t, store.Accept("run-1", diags))

	require.NoError(t, store.Remove(diags[0].Fingerprint()))

	ok, err := store.Contains(diags[0].Fingerprint())
	require.NoError(t, err)
	require.False(t, ok)

	filtered, err := store.Filter(diags)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, diag.PropertyTypeMismatch, filtered[0].Rule)
}

func TestListEntries(t *testing.T) {
	store := openTestStore(t)
	diags := testDiagnostics()
	require.NoError(t, store.Accept("run-7", diags))

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.Equal(t, "billing", e.Unit)
		require.Equal(t, "run-7", e.RunID)
		require.NotEmpty(t, e.Message)
		require.False(t, e.AcceptedAt.IsZero())
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".maplint", "baseline.db")
	store, err := Open(path, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
