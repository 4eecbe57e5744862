// Package engine implements the pharmacogenomic classification pipeline:
// VCF records are filtered to the six supported gene regions, matched
// against the curated marker table, decoded into zygosities, resolved
// into a diplotype and metabolizer phenotype per gene, and mapped through
// the CPIC-aligned risk matrix per requested drug.
//
// One Classify call is a single synchronous pass. Parsing and resolution
// happen once per upload; only the risk lookup repeats per drug, so every
// report of one call shares an identical profile for the same gene. The
// engine holds no mutable state: concurrent calls share only the
// read-only reference tables.
package engine

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/reference"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/vcf"
)

// Engine is the classification engine. Safe for concurrent use.
type Engine struct {
	tables *reference.Tables
	log    *logrus.Logger
}

// New creates an engine bound to a loaded reference table set.
func New(tables *reference.Tables, logger *logrus.Logger) *Engine {
	return &Engine{tables: tables, log: logger}
}

// AnalysisResult bundles the per-drug reports with the run-level summary.
type AnalysisResult struct {
	PatientID string                  `json:"patient_id"`
	Reports   []domain.AnalysisReport `json:"reports"`
	Summary   domain.AnalysisSummary  `json:"summary"`
}

// geneProfile caches one gene's resolved profile so every drug sharing
// that gene reports identical data.
type geneProfile struct {
	profile   domain.PharmacogenomicProfile
	ambiguous bool
}

// Classify implements domain.Classifier.
func (e *Engine) Classify(fileContent string, drugs []string, patientID string) ([]domain.AnalysisReport, error) {
	result, err := e.Analyze(fileContent, drugs, patientID)
	if err != nil {
		return nil, err
	}
	return result.Reports, nil
}

// Analyze runs the full pipeline. It fails only with a FormatError when
// the content is unusable as VCF; unsupported drug names degrade into
// Indeterminate reports rather than errors.
func (e *Engine) Analyze(fileContent string, drugs []string, patientID string) (*AnalysisResult, error) {
	file, err := vcf.Parse(fileContent)
	if err != nil {
		return nil, err
	}

	tagged := e.filterRegions(file.Records)
	res := e.resolveMarkers(tagged)

	base := domain.QualityMetrics{
		ParseSuccess:         true,
		LinesScanned:         file.Stats.LinesScanned,
		RecordsParsed:        file.Stats.RecordsParsed,
		RecordsRejected:      file.Stats.RecordsRejected,
		VariantsInRegion:     res.inRegion,
		VariantsMatched:      res.matched,
		UnclassifiedVariants: res.unclassified,
		UncallableGenotypes:  res.uncallable,
	}

	profiles := make(map[string]geneProfile)
	reports := make([]domain.AnalysisReport, 0, len(drugs))

	for _, raw := range drugs {
		drug := strings.ToUpper(strings.TrimSpace(raw))
		if drug == "" {
			continue
		}
		reports = append(reports, e.reportForDrug(drug, patientID, base, res, profiles))
	}

	e.log.WithFields(logrus.Fields{
		"patient_id":    patientID,
		"drugs":         len(reports),
		"lines_scanned": base.LinesScanned,
		"in_region":     base.VariantsInRegion,
		"matched":       base.VariantsMatched,
		"rejected":      base.RecordsRejected,
	}).Info("Pharmacogenomic analysis completed")

	return &AnalysisResult{
		PatientID: patientID,
		Reports:   reports,
		Summary:   e.summarize(patientID, res),
	}, nil
}

func (e *Engine) reportForDrug(
	drug, patientID string,
	base domain.QualityMetrics,
	res resolution,
	profiles map[string]geneProfile,
) domain.AnalysisReport {
	report := domain.AnalysisReport{
		PatientID: patientID,
		Drug:      drug,
		Metrics:   base,
	}

	gene, supported := e.tables.PrimaryGene(drug)
	if !supported {
		report.Profile = domain.PharmacogenomicProfile{
			Phenotype:        domain.PhenotypeIndeterminate,
			DetectedVariants: []domain.DetectedVariant{},
		}
		risk := reference.IndeterminateRisk("", domain.PhenotypeIndeterminate, drug)
		risk.RecommendedAction = "Drug is not in the supported set; no pharmacogenomic guideline available"
		report.Risk = risk
		report.Notes = append(report.Notes, "unsupported drug: "+drug)
		return report
	}

	gp, ok := profiles[gene]
	if !ok {
		gp = e.profileFor(gene, res.byGene[gene])
		profiles[gene] = gp
	}
	report.Profile = gp.profile
	report.Metrics.DiplotypeAmbiguity = gp.ambiguous

	risk, mapped := e.tables.RiskFor(gene, gp.profile.Phenotype, drug)
	if !mapped {
		report.Notes = append(report.Notes, "no guideline entry for "+gene+"/"+gp.profile.Phenotype.String()+"/"+drug)
	}
	report.Risk = risk
	return report
}

// profileFor resolves one gene's evidence into its profile. With no
// evidence at all both slots stay at the wild-type baseline, which lands
// on the gene's Normal phenotype and the no-variant risk row.
func (e *Engine) profileFor(gene string, detected []domain.DetectedVariant) geneProfile {
	if detected == nil {
		detected = []domain.DetectedVariant{}
	}
	diplotype, ambiguous := e.resolveDiplotype(gene, detected)
	phenotype := e.tables.PhenotypeFor(diplotype)

	if ambiguous {
		e.log.WithFields(logrus.Fields{
			"gene":      gene,
			"diplotype": diplotype.String(),
			"evidenced": len(detected),
		}).Warn("Diplotype ambiguity resolved by severity ranking")
	}

	return geneProfile{
		profile: domain.PharmacogenomicProfile{
			PrimaryGene:      gene,
			Diplotype:        diplotype,
			Phenotype:        phenotype,
			DetectedVariants: detected,
		},
		ambiguous: ambiguous,
	}
}

func (e *Engine) summarize(patientID string, res resolution) domain.AnalysisSummary {
	genes := make([]string, 0, len(res.byGene))
	rsSeen := map[string]bool{}
	rsids := []string{}
	for gene, detected := range res.byGene {
		genes = append(genes, gene)
		for _, dv := range detected {
			if !rsSeen[dv.Marker.RSID] {
				rsSeen[dv.Marker.RSID] = true
				rsids = append(rsids, dv.Marker.RSID)
			}
		}
	}
	sort.Strings(genes)
	sort.Strings(rsids)

	return domain.AnalysisSummary{
		PatientID:     patientID,
		TotalVariants: res.inRegion,
		GenesCovered:  genes,
		RSIDsDetected: rsids,
	}
}
