package engine

import (
	"strconv"
	"strings"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

// GenotypeCall is a decoded diploid GT field: two allele indices plus the
// phasing separator that joined them. Index 0 is the reference allele;
// index n refers to the n-th alternate allele of the record.
type GenotypeCall struct {
	Alleles [2]int
	Phased  bool
}

// DecodeGenotype parses a raw GT value ("0/1", "1|1", "./."). The second
// return is false for uncallable genotypes: missing tokens, non-numeric
// indices, or anything that is not a two-allele call. Uncallable markers
// are excluded from diplotype resolution and counted, never treated as
// reference.
func DecodeGenotype(gt string) (GenotypeCall, bool) {
	gt = strings.TrimSpace(gt)
	if gt == "" {
		return GenotypeCall{}, false
	}

	phased := strings.Contains(gt, "|")
	var parts []string
	if phased {
		parts = strings.Split(gt, "|")
	} else {
		parts = strings.Split(gt, "/")
	}
	if len(parts) != 2 {
		return GenotypeCall{}, false
	}

	var call GenotypeCall
	call.Phased = phased
	for i, p := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || idx < 0 {
			return GenotypeCall{}, false
		}
		call.Alleles[i] = idx
	}
	return call, true
}

// ZygosityFor classifies the call relative to one alternate allele index.
// Phasing is recorded on the call but does not change zygosity. A "1/2"
// genotype registers as heterozygous for each implicated alternate
// independently.
func (c GenotypeCall) ZygosityFor(altIndex int) domain.Zygosity {
	n := 0
	if c.Alleles[0] == altIndex {
		n++
	}
	if c.Alleles[1] == altIndex {
		n++
	}
	switch n {
	case 2:
		return domain.HomozygousVariant
	case 1:
		return domain.Heterozygous
	default:
		return domain.HomozygousReference
	}
}
