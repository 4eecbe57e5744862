package reports

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

func testReport(patientID, drug string, label domain.RiskLabel) *domain.AnalysisReport {
	return &domain.AnalysisReport{
		PatientID: patientID,
		Drug:      drug,
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Profile: domain.PharmacogenomicProfile{
			PrimaryGene:      "CYP2D6",
			Diplotype:        domain.Diplotype{Gene: "CYP2D6", Alleles: [2]string{"*4", "*1"}},
			Phenotype:        domain.PhenotypeIntermediate,
			DetectedVariants: []domain.DetectedVariant{},
		},
		Risk: domain.RiskAssessment{
			Drug:      drug,
			Gene:      "CYP2D6",
			Phenotype: domain.PhenotypeIntermediate,
			RiskLabel: label,
		},
		Metrics: domain.QualityMetrics{ParseSuccess: true},
	}
}

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteSaveAndList(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	report := testReport("PATIENT_AAAA0001", "CODEINE", domain.RiskIneffective)
	require.NoError(t, store.Save(ctx, report))

	got, err := store.ListByPatient(ctx, "PATIENT_AAAA0001", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, report.PatientID, got[0].PatientID)
	assert.Equal(t, "CODEINE", got[0].Drug)
	assert.Equal(t, domain.RiskIneffective, got[0].Risk.RiskLabel)
	assert.Equal(t, "*4/*1", got[0].Profile.Diplotype.String())
	assert.True(t, report.Timestamp.Equal(got[0].Timestamp))
}

func TestSQLiteListRespectsLimit(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(ctx, testReport("P1", "WARFARIN", domain.RiskSafe)))
	}

	got, err := store.ListByPatient(ctx, "P1", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Non-positive limits fall back to the default of 10.
	got, err = store.ListByPatient(ctx, "P1", 0)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestSQLiteListFiltersByPatient(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testReport("P1", "CODEINE", domain.RiskSafe)))
	require.NoError(t, store.Save(ctx, testReport("P2", "CODEINE", domain.RiskToxic)))

	got, err := store.ListByPatient(ctx, "P1", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "P1", got[0].PatientID)

	got, err = store.ListByPatient(ctx, "P3", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteSchemaBootstrapIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.db")

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(context.Background(), testReport("P1", "CODEINE", domain.RiskSafe)))
	require.NoError(t, first.Close())

	// Reopening the same file must keep prior rows.
	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.ListByPatient(context.Background(), "P1", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
