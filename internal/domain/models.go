package domain

import (
	"time"
)

// WildTypeAllele is the implicit baseline star allele assumed for any
// chromosome copy with no contradicting marker evidence.
const WildTypeAllele = "*1"

// VariantRecord is one data line of a VCF file. Immutable once parsed;
// produced by the format reader and consumed by the region filter.
type VariantRecord struct {
	Chromosome string   `json:"chromosome"`
	Position   int64    `json:"position"` // 1-based
	ID         string   `json:"id"`
	Reference  string   `json:"reference"`
	Alternates []string `json:"alternates"`
	Quality    string   `json:"quality,omitempty"`
	Filter     string   `json:"filter,omitempty"`
	Genotype   string   `json:"genotype"` // raw GT value, e.g. "0/1" or "1|1"
	Line       int      `json:"line"`     // source line number, for diagnostics
}

// GeneRegion is the genomic coordinate range of one supported gene.
// Static, loaded at process start; never mutated. Start and End are
// inclusive 1-based coordinates.
type GeneRegion struct {
	Gene       string `json:"gene"`
	Chromosome string `json:"chromosome"`
	Start      int64  `json:"start"`
	End        int64  `json:"end"`
}

// Contains reports whether the given locus falls inside the region.
func (g GeneRegion) Contains(chromosome string, position int64) bool {
	return g.Chromosome == chromosome && position >= g.Start && position <= g.End
}

// Overlaps reports whether two regions share any coordinate on the same
// chromosome. Used for fail-fast table validation.
func (g GeneRegion) Overlaps(other GeneRegion) bool {
	if g.Chromosome != other.Chromosome {
		return false
	}
	return g.Start <= other.End && other.Start <= g.End
}

// MarkerDefinition identifies one clinically relevant pharmacogenomic
// marker: an rsID at a fixed locus with the exact ref/alt pair that
// evidences a named star allele.
type MarkerDefinition struct {
	RSID       string `json:"rsid"`
	Gene       string `json:"gene"`
	Chromosome string `json:"chromosome"`
	Position   int64  `json:"position"`
	Reference  string `json:"reference"`
	Alternate  string `json:"alternate"`
	StarAllele string `json:"star_allele"`
}

// DetectedVariant is a marker observed in one sample together with its
// zygosity call. Derived per analysis run; not persisted across runs.
type DetectedVariant struct {
	Marker   MarkerDefinition `json:"marker"`
	Zygosity Zygosity         `json:"zygosity"`
	Phased   bool             `json:"phased"`
}

// Diplotype is the resolved pair of star alleles at one gene. Always
// exactly two allele slots; an unevidenced slot holds the wild-type "*1".
// Alleles are ordered most impactful first for deterministic reporting.
type Diplotype struct {
	Gene    string    `json:"gene"`
	Alleles [2]string `json:"alleles"`
}

// String renders the conventional slash-joined form, e.g. "*4/*1".
func (d Diplotype) String() string {
	return d.Alleles[0] + "/" + d.Alleles[1]
}

// PharmacogenomicProfile is the resolved genetic profile for the gene
// driving one drug decision.
type PharmacogenomicProfile struct {
	PrimaryGene      string            `json:"primary_gene"`
	Diplotype        Diplotype         `json:"diplotype"`
	Phenotype        Phenotype         `json:"phenotype"`
	DetectedVariants []DetectedVariant `json:"detected_variants"` // never nil, may be empty
}

// RiskAssessment is the guideline outcome for one (gene, phenotype, drug)
// triple. Field values come verbatim from the static risk matrix entry.
type RiskAssessment struct {
	Drug              string    `json:"drug"`
	Gene              string    `json:"gene"`
	Phenotype         Phenotype `json:"phenotype"`
	RiskLabel         RiskLabel `json:"risk_label"`
	ConfidenceScore   float64   `json:"confidence_score"` // 0.0 - 1.0, pre-assigned per entry
	Severity          Severity  `json:"severity"`
	CPICReference     string    `json:"cpic_guideline_reference"`
	RecommendedAction string    `json:"recommended_action"`
	DoseAdjustment    string    `json:"dose_adjustment,omitempty"`
}

// QualityMetrics carries the recoverable-condition counters accumulated
// across one analysis run. Every non-fatal condition in the pipeline is
// absorbed here rather than surfaced as an error.
type QualityMetrics struct {
	ParseSuccess         bool `json:"vcf_parsing_success"`
	LinesScanned         int  `json:"lines_scanned"`
	RecordsParsed        int  `json:"records_parsed"`
	RecordsRejected      int  `json:"records_rejected"`
	VariantsInRegion     int  `json:"variants_in_region"`
	VariantsMatched      int  `json:"variants_matched"`
	UnclassifiedVariants int  `json:"unclassified_variants"`
	UncallableGenotypes  int  `json:"uncallable_genotypes"`
	DiplotypeAmbiguity   bool `json:"diplotype_ambiguity"`
}

// Explanation is the natural-language block attached to a report. The
// engine core never fills it; the service layer hands the structured
// report to an explanation generator and stores the result here.
type Explanation struct {
	Summary              string `json:"summary"`
	Mechanism            string `json:"mechanism"`
	ClinicalSignificance string `json:"clinical_significance"`
}

// AnalysisReport is the complete structured outcome for one
// (patient, drug) pair. Ephemeral: computed fresh per request, persisted
// only best-effort by the service layer.
type AnalysisReport struct {
	PatientID   string                 `json:"patient_id"`
	Drug        string                 `json:"drug"`
	Timestamp   time.Time              `json:"timestamp,omitzero"`
	Profile     PharmacogenomicProfile `json:"pharmacogenomic_profile"`
	Risk        RiskAssessment         `json:"risk_assessment"`
	Explanation *Explanation           `json:"llm_generated_explanation,omitempty"`
	Metrics     QualityMetrics         `json:"quality_metrics"`
	Notes       []string               `json:"notes,omitempty"`
}

// AnalysisSummary aggregates run-level findings across all reports of one
// upload, mirroring the response summary block of the analyze endpoint.
type AnalysisSummary struct {
	PatientID     string   `json:"patient_id"`
	TotalVariants int      `json:"total_variants"`
	GenesCovered  []string `json:"genes_covered"`
	RSIDsDetected []string `json:"rsids_detected"`
}
