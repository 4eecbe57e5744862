// Package domain contains the core business entities and types for
// pharmacogenomic risk classification following CPIC (Clinical
// Pharmacogenetics Implementation Consortium) dosing guidelines.
//
// Reference: Relling & Klein (2011) CPIC: Clinical Pharmacogenetics
// Implementation Consortium of the Pharmacogenomics Research Network.
// Clin Pharmacol Ther. 89(3):464-7. doi: 10.1038/clpt.2010.279
package domain

import "errors"

// RiskLabel represents the per-drug risk classification for a patient.
// This is a closed set: risk-driven presentation (color coding, alerting)
// switches exhaustively over these five values and must never see an
// open-ended string.
type RiskLabel string

const (
	RiskSafe          RiskLabel = "Safe"
	RiskAdjustDosage  RiskLabel = "Adjust Dosage"
	RiskToxic         RiskLabel = "Toxic"
	RiskIneffective   RiskLabel = "Ineffective"
	RiskIndeterminate RiskLabel = "Indeterminate"
)

// Phenotype represents the metabolizer status derived from a diplotype.
// Derived deterministically from the static diplotype table; never chosen
// heuristically.
type Phenotype string

const (
	PhenotypePoor          Phenotype = "Poor Metabolizer"
	PhenotypeIntermediate  Phenotype = "Intermediate Metabolizer"
	PhenotypeNormal        Phenotype = "Normal Metabolizer"
	PhenotypeRapid         Phenotype = "Rapid Metabolizer"
	PhenotypeUltrarapid    Phenotype = "Ultrarapid Metabolizer"
	PhenotypeIndeterminate Phenotype = "Indeterminate"
)

// Zygosity classifies whether a marker's variant allele is present on
// neither, one, or both chromosome copies of the sample.
type Zygosity string

const (
	HomozygousReference Zygosity = "homozygous-reference"
	Heterozygous        Zygosity = "heterozygous"
	HomozygousVariant   Zygosity = "homozygous-variant"
)

// AlleleFunction represents the functional consequence of a star allele on
// enzyme or transporter activity. It drives both phenotype assignment and
// the severity ranking used to break diplotype ambiguity.
type AlleleFunction string

const (
	FunctionNormal    AlleleFunction = "normal"
	FunctionDecreased AlleleFunction = "decreased"
	FunctionNone      AlleleFunction = "none"
	FunctionIncreased AlleleFunction = "increased"
)

// Severity represents the clinical severity attached to a risk matrix entry.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Validation errors for clinical data integrity
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidRiskLabel = errors.New("invalid risk label")
	ErrInvalidPhenotype = errors.New("invalid phenotype")
	ErrInvalidZygosity  = errors.New("invalid zygosity")
)

// IsValid validates that the RiskLabel is one of the five defined labels.
// Only valid labels may reach clinical decision-making.
func (r RiskLabel) IsValid() bool {
	switch r {
	case RiskSafe, RiskAdjustDosage, RiskToxic, RiskIneffective, RiskIndeterminate:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk label.
func (r RiskLabel) String() string {
	return string(r)
}

// RequiresClinicalAction determines if the label requires clinical follow-up.
func (r RiskLabel) RequiresClinicalAction() bool {
	switch r {
	case RiskToxic, RiskIneffective, RiskAdjustDosage:
		return true
	case RiskSafe:
		return false
	default:
		// Conservative approach for indeterminate outcomes
		return true
	}
}

// LogFields returns structured logging fields for audit trails.
func (r RiskLabel) LogFields() map[string]any {
	return map[string]any{
		"risk_label":      string(r),
		"is_valid":        r.IsValid(),
		"requires_action": r.RequiresClinicalAction(),
	}
}

// IsValid validates the phenotype label.
func (p Phenotype) IsValid() bool {
	switch p {
	case PhenotypePoor, PhenotypeIntermediate, PhenotypeNormal,
		PhenotypeRapid, PhenotypeUltrarapid, PhenotypeIndeterminate:
		return true
	default:
		return false
	}
}

// String returns the string representation of the phenotype.
func (p Phenotype) String() string {
	return string(p)
}

// IsValid validates the zygosity classification.
func (z Zygosity) IsValid() bool {
	switch z {
	case HomozygousReference, Heterozygous, HomozygousVariant:
		return true
	default:
		return false
	}
}

// String returns the string representation of the zygosity.
func (z Zygosity) String() string {
	return string(z)
}

// IsValid validates the allele function category.
func (f AlleleFunction) IsValid() bool {
	switch f {
	case FunctionNormal, FunctionDecreased, FunctionNone, FunctionIncreased:
		return true
	default:
		return false
	}
}

// SeverityRank returns the ordering weight used when more alleles are
// evidenced than a diplotype has slots: the two most impactful alleles win.
// Higher means more impactful.
func (f AlleleFunction) SeverityRank() int {
	switch f {
	case FunctionNone:
		return 3
	case FunctionDecreased:
		return 2
	case FunctionIncreased:
		return 1
	default:
		return 0
	}
}

// IsValid validates the severity level.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityNone, SeverityLow, SeverityModerate, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}
