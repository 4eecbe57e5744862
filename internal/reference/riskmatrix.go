package reference

import (
	"fmt"
	"strings"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

// riskRow is one guideline outcome shared by one or more phenotypes of a
// gene/drug pair. Confidence scores are pre-assigned per entry and reflect
// guideline strength; they are never computed.
type riskRow struct {
	phenotypes []domain.Phenotype
	label      domain.RiskLabel
	confidence float64
	severity   domain.Severity
	action     string
	dose       string
}

type drugGuideline struct {
	drug string
	gene string
	cpic string
	rows []riskRow
}

// riskGuidelines is the CPIC-aligned outcome table for the six supported
// drugs. The Normal Metabolizer row doubles as the no-variant default:
// a sample with no in-region evidence resolves to the wild-type diplotype
// and lands here.
var riskGuidelines = []drugGuideline{
	{
		drug: "CODEINE", gene: "CYP2D6",
		cpic: "CPIC Guideline for Codeine and CYP2D6",
		rows: []riskRow{
			{phenotypes: []domain.Phenotype{domain.PhenotypePoor},
				label: domain.RiskIneffective, confidence: 0.92, severity: domain.SeverityModerate,
				action: "Avoid codeine; use alternative analgesic"},
			{phenotypes: []domain.Phenotype{domain.PhenotypeUltrarapid, domain.PhenotypeRapid},
				label: domain.RiskToxic, confidence: 0.92, severity: domain.SeverityHigh,
				action: "Avoid codeine due to risk of morphine toxicity"},
			{phenotypes: []domain.Phenotype{domain.PhenotypeIntermediate},
				label: domain.RiskIneffective, confidence: 0.82, severity: domain.SeverityLow,
				action: "Monitor for reduced analgesic efficacy; consider alternative analgesic",
				dose:   "Consider lower starting dose"},
			{phenotypes: []domain.Phenotype{domain.PhenotypeNormal},
				label: domain.RiskSafe, confidence: 0.72, severity: domain.SeverityNone,
				action: "Standard dosing"},
		},
	},
	{
		drug: "WARFARIN", gene: "CYP2C9",
		cpic: "CPIC Guideline for Warfarin and CYP2C9",
		rows: []riskRow{
			{phenotypes: []domain.Phenotype{domain.PhenotypePoor},
				label: domain.RiskToxic, confidence: 0.86, severity: domain.SeverityHigh,
				action: "Reduce initial dose and monitor INR closely", dose: "Lower dose"},
			{phenotypes: []domain.Phenotype{domain.PhenotypeIntermediate},
				label: domain.RiskAdjustDosage, confidence: 0.82, severity: domain.SeverityModerate,
				action: "Use lower initial dose; frequent INR monitoring", dose: "Lower dose"},
			{phenotypes: []domain.Phenotype{domain.PhenotypeNormal},
				label: domain.RiskSafe, confidence: 0.76, severity: domain.SeverityNone,
				action: "Standard dosing with INR monitoring"},
		},
	},
	{
		drug: "CLOPIDOGREL", gene: "CYP2C19",
		cpic: "CPIC Guideline for Clopidogrel and CYP2C19",
		rows: []riskRow{
			{phenotypes: []domain.Phenotype{domain.PhenotypePoor},
				label: domain.RiskIneffective, confidence: 0.91, severity: domain.SeverityHigh,
				action: "Use alternative antiplatelet (e.g., prasugrel, ticagrelor)"},
			{phenotypes: []domain.Phenotype{domain.PhenotypeIntermediate},
				label: domain.RiskAdjustDosage, confidence: 0.86, severity: domain.SeverityModerate,
				action: "Consider alternative therapy or enhanced platelet inhibition"},
			{phenotypes: []domain.Phenotype{domain.PhenotypeNormal, domain.PhenotypeRapid, domain.PhenotypeUltrarapid},
				label: domain.RiskSafe, confidence: 0.76, severity: domain.SeverityNone,
				action: "Standard dosing"},
		},
	},
	{
		drug: "SIMVASTATIN", gene: "SLCO1B1",
		cpic: "CPIC Guideline for Simvastatin and SLCO1B1",
		rows: []riskRow{
			{phenotypes: []domain.Phenotype{domain.PhenotypePoor, domain.PhenotypeIntermediate},
				label: domain.RiskToxic, confidence: 0.82, severity: domain.SeverityModerate,
				action: "Consider lower dose or alternative statin due to myopathy risk",
				dose:   "Lower dose or switch"},
			{phenotypes: []domain.Phenotype{domain.PhenotypeNormal},
				label: domain.RiskSafe, confidence: 0.76, severity: domain.SeverityNone,
				action: "Standard dosing"},
		},
	},
	{
		drug: "AZATHIOPRINE", gene: "TPMT",
		cpic: "CPIC Guideline for Thiopurines and TPMT",
		rows: []riskRow{
			{phenotypes: []domain.Phenotype{domain.PhenotypePoor},
				label: domain.RiskToxic, confidence: 0.92, severity: domain.SeverityCritical,
				action: "Use drastically reduced dose or alternative; monitor for myelosuppression",
				dose:   "Reduce dose by 90% or avoid"},
			{phenotypes: []domain.Phenotype{domain.PhenotypeIntermediate},
				label: domain.RiskAdjustDosage, confidence: 0.87, severity: domain.SeverityHigh,
				action: "Use reduced dose and monitor", dose: "Reduce dose 30-70%"},
			{phenotypes: []domain.Phenotype{domain.PhenotypeNormal},
				label: domain.RiskSafe, confidence: 0.76, severity: domain.SeverityNone,
				action: "Standard dosing"},
		},
	},
	{
		drug: "FLUOROURACIL", gene: "DPYD",
		cpic: "CPIC Guideline for Fluoropyrimidines and DPYD",
		rows: []riskRow{
			{phenotypes: []domain.Phenotype{domain.PhenotypePoor},
				label: domain.RiskToxic, confidence: 0.92, severity: domain.SeverityCritical,
				action: "Avoid or use greatly reduced dose; consider alternative",
				dose:   "Avoid or reduce >50%"},
			{phenotypes: []domain.Phenotype{domain.PhenotypeIntermediate},
				label: domain.RiskAdjustDosage, confidence: 0.87, severity: domain.SeverityHigh,
				action: "Use reduced dose with close monitoring", dose: "Reduce 25-50%"},
			{phenotypes: []domain.Phenotype{domain.PhenotypeNormal},
				label: domain.RiskSafe, confidence: 0.76, severity: domain.SeverityNone,
				action: "Standard dosing"},
		},
	},
}

// loadRiskMatrix flattens the guideline rows into the three-key lookup and
// cross-checks them against the drug/gene map.
func (t *Tables) loadRiskMatrix() error {
	for _, g := range riskGuidelines {
		if mapped, ok := t.drugGene[g.drug]; !ok || mapped != g.gene {
			return fmt.Errorf("risk matrix: %s/%s disagrees with drug-gene map", g.drug, g.gene)
		}
		for _, row := range g.rows {
			for _, p := range row.phenotypes {
				key := riskKey{Gene: g.gene, Phenotype: p, Drug: g.drug}
				if _, dup := t.risk[key]; dup {
					return fmt.Errorf("risk matrix: duplicate entry for %s/%s/%s", g.gene, p, g.drug)
				}
				t.risk[key] = domain.RiskAssessment{
					Drug:              g.drug,
					Gene:              g.gene,
					Phenotype:         p,
					RiskLabel:         row.label,
					ConfidenceScore:   row.confidence,
					Severity:          row.severity,
					CPICReference:     g.cpic,
					RecommendedAction: row.action,
					DoseAdjustment:    row.dose,
				}
			}
		}
	}
	return nil
}

// RiskFor looks up the guideline outcome for a (gene, phenotype, drug)
// triple. Absent entries yield the Indeterminate fallback rather than an
// error; callers can distinguish the fallback via the second return.
func (t *Tables) RiskFor(gene string, phenotype domain.Phenotype, drug string) (domain.RiskAssessment, bool) {
	drug = strings.ToUpper(drug)
	if entry, ok := t.risk[riskKey{Gene: gene, Phenotype: phenotype, Drug: drug}]; ok {
		return entry, true
	}
	return IndeterminateRisk(gene, phenotype, drug), false
}

// IndeterminateRisk is the fixed fallback outcome for any triple absent
// from the matrix.
func IndeterminateRisk(gene string, phenotype domain.Phenotype, drug string) domain.RiskAssessment {
	return domain.RiskAssessment{
		Drug:              strings.ToUpper(drug),
		Gene:              gene,
		Phenotype:         phenotype,
		RiskLabel:         domain.RiskIndeterminate,
		ConfidenceScore:   0.0,
		Severity:          domain.SeverityNone,
		RecommendedAction: "Insufficient pharmacogenomic evidence for this gene-drug pair",
	}
}
