// Package explain generates patient-facing explanation text for
// analysis reports. The template explainer renders deterministic prose
// locally; the remote explainer calls an external text-generation
// service behind a circuit breaker and falls back to the template when
// the service is unavailable. A two-tier cache (in-process LRU plus
// optional Redis) sits in front of either.
package explain

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

// TemplateExplainer renders explanations from fixed templates. Output
// depends only on the report contents, so identical reports always get
// identical text.
type TemplateExplainer struct{}

// NewTemplateExplainer creates a template-based explainer.
func NewTemplateExplainer() *TemplateExplainer {
	return &TemplateExplainer{}
}

// Explain implements domain.Explainer.
func (t *TemplateExplainer) Explain(_ context.Context, report *domain.AnalysisReport) (*domain.Explanation, error) {
	drug := titleCase(report.Drug)
	gene := report.Risk.Gene
	if gene == "" {
		gene = report.Profile.PrimaryGene
	}
	rsText := rsidList(report.Profile.DetectedVariants)

	summary := fmt.Sprintf(
		"For %s, the patient's %s phenotype is %s. Based on detected variants (%s), the assessed risk is '%s'.",
		drug, gene, report.Profile.Phenotype, rsText, report.Risk.RiskLabel,
	)
	mechanism := fmt.Sprintf(
		"%s influences %s pharmacokinetics/pharmacodynamics. Variants like %s can alter enzyme or transporter activity, leading to changes in drug metabolism or exposure.",
		gene, drug, rsText,
	)
	dose := report.Risk.DoseAdjustment
	if dose == "" {
		dose = "None"
	}
	clinical := fmt.Sprintf(
		"Following CPIC guidance (%s), the recommended action is: %s. Dose adjustment: %s.",
		report.Risk.CPICReference, report.Risk.RecommendedAction, dose,
	)

	return &domain.Explanation{
		Summary:              summary,
		Mechanism:            mechanism,
		ClinicalSignificance: clinical,
	}, nil
}

// rsidList formats the detected marker rsIDs as a lowercase
// comma-separated list, or "N/A" when nothing was detected.
func rsidList(variants []domain.DetectedVariant) string {
	seen := map[string]bool{}
	rsids := []string{}
	for _, v := range variants {
		id := strings.ToLower(v.Marker.RSID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		rsids = append(rsids, id)
	}
	if len(rsids) == 0 {
		return "N/A"
	}
	sort.Strings(rsids)
	return strings.Join(rsids, ", ")
}

func titleCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
