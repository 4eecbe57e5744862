package engine

import (
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

// taggedRecord is a variant record that survived the region filter,
// annotated with its owning gene.
type taggedRecord struct {
	record domain.VariantRecord
	gene   string
}

// filterRegions keeps only the records whose locus lies inside one of the
// tracked gene regions. Everything else is dropped silently: off-target
// loci are irrelevant to the supported genes, not errors.
func (e *Engine) filterRegions(records []domain.VariantRecord) []taggedRecord {
	var kept []taggedRecord
	for _, rec := range records {
		region, ok := e.tables.RegionFor(rec.Chromosome, rec.Position)
		if !ok {
			continue
		}
		kept = append(kept, taggedRecord{record: rec, gene: region.Gene})
	}
	return kept
}

// resolution holds per-gene evidence plus the recoverable-condition
// counters accumulated while resolving markers for one sample.
type resolution struct {
	byGene       map[string][]domain.DetectedVariant
	inRegion     int
	matched      int
	unclassified int
	uncallable   int
}

// resolveMarkers matches each in-region record against the marker table
// and decodes its zygosity. Multi-allelic sites evaluate every alternate
// independently. Records matching no marker at all are retained as
// unclassified evidence: they contribute to counts but never to diplotype
// resolution.
func (e *Engine) resolveMarkers(tagged []taggedRecord) resolution {
	res := resolution{byGene: make(map[string][]domain.DetectedVariant)}
	res.inRegion = len(tagged)

	for _, tr := range tagged {
		rec := tr.record
		call, callable := DecodeGenotype(rec.Genotype)

		matchedAny := false
		for i, alt := range rec.Alternates {
			marker, ok := e.tables.MarkerAt(rec.Chromosome, rec.Position, rec.Reference, alt)
			if !ok {
				continue
			}
			matchedAny = true
			if !callable {
				res.uncallable++
				continue
			}
			res.matched++
			res.byGene[tr.gene] = append(res.byGene[tr.gene], domain.DetectedVariant{
				Marker:   marker,
				Zygosity: call.ZygosityFor(i + 1),
				Phased:   call.Phased,
			})
		}
		if !matchedAny {
			res.unclassified++
		}
	}
	return res
}
