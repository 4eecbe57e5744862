package engine

import (
	"sort"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

// resolveDiplotype combines one gene's detected variants into a two-slot
// diplotype call. Both slots start at the wild-type baseline. A
// homozygous-variant marker claims both slots; each heterozygous marker
// claims one. When more distinct alleles are evidenced than two slots can
// hold, the two with the most severe function win (per-gene severity
// ranking, allele name as tiebreak) and the ambiguity flag is raised so
// the condition surfaces in QualityMetrics instead of failing the run.
//
// The returned pair is ordered most impactful first so reporting is
// deterministic.
func (e *Engine) resolveDiplotype(gene string, detected []domain.DetectedVariant) (domain.Diplotype, bool) {
	var hom, het []string
	seenHom := map[string]bool{}
	seenHet := map[string]bool{}

	for _, dv := range detected {
		allele := dv.Marker.StarAllele
		switch dv.Zygosity {
		case domain.HomozygousVariant:
			if !seenHom[allele] {
				seenHom[allele] = true
				hom = append(hom, allele)
			}
		case domain.Heterozygous:
			if !seenHet[allele] {
				seenHet[allele] = true
				het = append(het, allele)
			}
		}
		// homozygous-reference markers are evidence for the baseline and
		// claim nothing
	}

	e.sortBySeverity(gene, hom)
	e.sortBySeverity(gene, het)

	ambiguous := false
	slots := [2]string{domain.WildTypeAllele, domain.WildTypeAllele}

	switch {
	case len(hom) > 0:
		// a homozygous call fills both copies; any further evidence cannot
		// fit the two slots
		slots[0], slots[1] = hom[0], hom[0]
		ambiguous = len(hom) > 1 || len(het) > 0
	case len(het) > 2:
		slots[0], slots[1] = het[0], het[1]
		ambiguous = true
	case len(het) == 2:
		slots[0], slots[1] = het[0], het[1]
	case len(het) == 1:
		slots[0] = het[0]
	}

	e.orderPair(gene, &slots)
	return domain.Diplotype{Gene: gene, Alleles: slots}, ambiguous
}

// sortBySeverity orders alleles most impactful first, name ascending on
// ties, so the slot-assignment policy is deterministic.
func (e *Engine) sortBySeverity(gene string, alleles []string) {
	sort.SliceStable(alleles, func(i, j int) bool {
		ri, rj := e.tables.SeverityRank(gene, alleles[i]), e.tables.SeverityRank(gene, alleles[j])
		if ri != rj {
			return ri > rj
		}
		return alleles[i] < alleles[j]
	})
}

func (e *Engine) orderPair(gene string, slots *[2]string) {
	r0, r1 := e.tables.SeverityRank(gene, slots[0]), e.tables.SeverityRank(gene, slots[1])
	if r1 > r0 || (r0 == r1 && slots[1] < slots[0]) {
		slots[0], slots[1] = slots[1], slots[0]
	}
}
