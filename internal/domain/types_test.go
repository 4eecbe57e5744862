package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLabelIsValid(t *testing.T) {
	tests := []struct {
		name  string
		label RiskLabel
		valid bool
	}{
		{"safe", RiskSafe, true},
		{"adjust dosage", RiskAdjustDosage, true},
		{"toxic", RiskToxic, true},
		{"ineffective", RiskIneffective, true},
		{"indeterminate", RiskIndeterminate, true},
		{"empty", RiskLabel(""), false},
		{"unknown", RiskLabel("Dangerous"), false},
		{"wrong case", RiskLabel("safe"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.label.IsValid())
		})
	}
}

func TestRiskLabelRequiresClinicalAction(t *testing.T) {
	assert.False(t, RiskSafe.RequiresClinicalAction())
	assert.True(t, RiskToxic.RequiresClinicalAction())
	assert.True(t, RiskIneffective.RequiresClinicalAction())
	assert.True(t, RiskAdjustDosage.RequiresClinicalAction())
	assert.True(t, RiskIndeterminate.RequiresClinicalAction())
}

func TestPhenotypeIsValid(t *testing.T) {
	for _, p := range []Phenotype{
		PhenotypePoor, PhenotypeIntermediate, PhenotypeNormal,
		PhenotypeRapid, PhenotypeUltrarapid, PhenotypeIndeterminate,
	} {
		assert.True(t, p.IsValid(), string(p))
	}
	assert.False(t, Phenotype("Slow Metabolizer").IsValid())
}

func TestSeverityRankOrdering(t *testing.T) {
	// No function outranks decreased outranks increased outranks normal.
	assert.Greater(t, FunctionNone.SeverityRank(), FunctionDecreased.SeverityRank())
	assert.Greater(t, FunctionDecreased.SeverityRank(), FunctionIncreased.SeverityRank())
	assert.Greater(t, FunctionIncreased.SeverityRank(), FunctionNormal.SeverityRank())
}

func TestDiplotypeString(t *testing.T) {
	d := Diplotype{Gene: "CYP2D6", Alleles: [2]string{"*4", "*1"}}
	assert.Equal(t, "*4/*1", d.String())
}

func TestGeneRegionContains(t *testing.T) {
	region := GeneRegion{Gene: "CYP2D6", Chromosome: "22", Start: 42125000, End: 42131000}

	assert.True(t, region.Contains("22", 42125000))
	assert.True(t, region.Contains("22", 42131000))
	assert.True(t, region.Contains("22", 42128945))
	assert.False(t, region.Contains("22", 42124999))
	assert.False(t, region.Contains("22", 42131001))
	assert.False(t, region.Contains("10", 42128945))
}

func TestGeneRegionOverlaps(t *testing.T) {
	a := GeneRegion{Gene: "A", Chromosome: "10", Start: 100, End: 200}

	assert.True(t, a.Overlaps(GeneRegion{Chromosome: "10", Start: 200, End: 300}))
	assert.True(t, a.Overlaps(GeneRegion{Chromosome: "10", Start: 50, End: 100}))
	assert.False(t, a.Overlaps(GeneRegion{Chromosome: "10", Start: 201, End: 300}))
	assert.False(t, a.Overlaps(GeneRegion{Chromosome: "11", Start: 100, End: 200}))
}

func TestFormatErrorWrapping(t *testing.T) {
	err := NewFormatError("empty upload", ErrNoData)

	assert.True(t, IsFormatError(err))
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Contains(t, err.Error(), "empty upload")

	assert.False(t, IsFormatError(errors.New("plain")))
}
