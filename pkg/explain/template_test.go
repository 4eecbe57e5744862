package explain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

func sampleReport() *domain.AnalysisReport {
	return &domain.AnalysisReport{
		PatientID: "PATIENT_CCCC0003",
		Drug:      "CODEINE",
		Profile: domain.PharmacogenomicProfile{
			PrimaryGene: "CYP2D6",
			Diplotype:   domain.Diplotype{Gene: "CYP2D6", Alleles: [2]string{"*4", "*1"}},
			Phenotype:   domain.PhenotypeIntermediate,
			DetectedVariants: []domain.DetectedVariant{
				{Marker: domain.MarkerDefinition{RSID: "rs3892097", StarAllele: "*4"}, Zygosity: domain.Heterozygous},
			},
		},
		Risk: domain.RiskAssessment{
			Drug:              "CODEINE",
			Gene:              "CYP2D6",
			Phenotype:         domain.PhenotypeIntermediate,
			RiskLabel:         domain.RiskIneffective,
			CPICReference:     "CPIC Guideline for Codeine and CYP2D6",
			RecommendedAction: "Monitor for reduced analgesic efficacy; consider alternative analgesic",
			DoseAdjustment:    "Consider lower starting dose",
		},
	}
}

func TestTemplateExplain(t *testing.T) {
	exp, err := NewTemplateExplainer().Explain(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Contains(t, exp.Summary, "Codeine")
	assert.Contains(t, exp.Summary, "CYP2D6")
	assert.Contains(t, exp.Summary, "Intermediate Metabolizer")
	assert.Contains(t, exp.Summary, "rs3892097")
	assert.Contains(t, exp.Summary, "'Ineffective'")

	assert.Contains(t, exp.Mechanism, "CYP2D6 influences Codeine")
	assert.Contains(t, exp.ClinicalSignificance, "CPIC Guideline for Codeine and CYP2D6")
	assert.Contains(t, exp.ClinicalSignificance, "Consider lower starting dose")
}

func TestTemplateExplainNoVariants(t *testing.T) {
	report := sampleReport()
	report.Profile.DetectedVariants = nil
	report.Risk.DoseAdjustment = ""

	exp, err := NewTemplateExplainer().Explain(context.Background(), report)
	require.NoError(t, err)

	assert.Contains(t, exp.Summary, "(N/A)")
	assert.Contains(t, exp.ClinicalSignificance, "Dose adjustment: None.")
}

func TestTemplateExplainIsDeterministic(t *testing.T) {
	e := NewTemplateExplainer()

	first, err := e.Explain(context.Background(), sampleReport())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Explain(context.Background(), sampleReport())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRSIDListDeduplicatesAndSorts(t *testing.T) {
	variants := []domain.DetectedVariant{
		{Marker: domain.MarkerDefinition{RSID: "rs5030655"}},
		{Marker: domain.MarkerDefinition{RSID: "RS3892097"}},
		{Marker: domain.MarkerDefinition{RSID: "rs3892097"}},
	}
	assert.Equal(t, "rs3892097, rs5030655", rsidList(variants))
	assert.Equal(t, "N/A", rsidList(nil))
}
