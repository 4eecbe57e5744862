package reference

import (
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

// buildPhenotypeMap enumerates every unordered pair over a gene's known
// alleles (including the implicit wild type) and assigns each pair its
// metabolizer phenotype. The result is an exact-pair table: the resolver
// performs plain map lookups at analysis time, so the mapping is total
// over known alleles and anything outside it falls back to Indeterminate.
func buildPhenotypeMap(functions map[string]domain.AlleleFunction) map[string]domain.Phenotype {
	alleles := []string{domain.WildTypeAllele}
	for allele := range functions {
		alleles = append(alleles, allele)
	}

	fn := func(allele string) domain.AlleleFunction {
		if allele == domain.WildTypeAllele {
			return domain.FunctionNormal
		}
		return functions[allele]
	}

	pairs := make(map[string]domain.Phenotype, len(alleles)*(len(alleles)+1)/2)
	for i, a := range alleles {
		for _, b := range alleles[i:] {
			pairs[pairKey(a, b)] = phenotypeForFunctions(fn(a), fn(b))
		}
	}
	return pairs
}

// phenotypeForFunctions derives the metabolizer status of one allele-
// function pair. Rules are ordered by clinical impact so the mapping is
// total and deterministic over all function combinations:
//
//	both no-function            -> Poor
//	exactly one no-function     -> Intermediate
//	any decreased-function      -> Intermediate
//	both increased-function     -> Ultrarapid
//	one increased-function      -> Rapid
//	otherwise (both normal)     -> Normal
func phenotypeForFunctions(a, b domain.AlleleFunction) domain.Phenotype {
	none := count(a, b, domain.FunctionNone)
	decreased := count(a, b, domain.FunctionDecreased)
	increased := count(a, b, domain.FunctionIncreased)

	switch {
	case none == 2:
		return domain.PhenotypePoor
	case none == 1:
		return domain.PhenotypeIntermediate
	case decreased > 0:
		return domain.PhenotypeIntermediate
	case increased == 2:
		return domain.PhenotypeUltrarapid
	case increased == 1:
		return domain.PhenotypeRapid
	default:
		return domain.PhenotypeNormal
	}
}

func count(a, b, target domain.AlleleFunction) int {
	n := 0
	if a == target {
		n++
	}
	if b == target {
		n++
	}
	return n
}
