package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

func TestDecodeGenotype(t *testing.T) {
	tests := []struct {
		name     string
		gt       string
		want     GenotypeCall
		callable bool
	}{
		{"het unphased", "0/1", GenotypeCall{Alleles: [2]int{0, 1}}, true},
		{"hom variant unphased", "1/1", GenotypeCall{Alleles: [2]int{1, 1}}, true},
		{"hom reference", "0/0", GenotypeCall{Alleles: [2]int{0, 0}}, true},
		{"het phased", "0|1", GenotypeCall{Alleles: [2]int{0, 1}, Phased: true}, true},
		{"multi-allelic het", "1/2", GenotypeCall{Alleles: [2]int{1, 2}}, true},
		{"whitespace trimmed", " 0/1 ", GenotypeCall{Alleles: [2]int{0, 1}}, true},
		{"missing both", "./.", GenotypeCall{}, false},
		{"missing one", "./1", GenotypeCall{}, false},
		{"empty", "", GenotypeCall{}, false},
		{"haploid", "1", GenotypeCall{}, false},
		{"triploid", "0/1/1", GenotypeCall{}, false},
		{"negative index", "-1/1", GenotypeCall{}, false},
		{"garbage", "A/B", GenotypeCall{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, ok := DecodeGenotype(tt.gt)
			assert.Equal(t, tt.callable, ok)
			if tt.callable {
				assert.Equal(t, tt.want, call)
			}
		})
	}
}

func TestZygosityFor(t *testing.T) {
	tests := []struct {
		name     string
		gt       string
		altIndex int
		want     domain.Zygosity
	}{
		{"het for alt 1", "0/1", 1, domain.Heterozygous},
		{"hom variant for alt 1", "1/1", 1, domain.HomozygousVariant},
		{"hom reference for alt 1", "0/0", 1, domain.HomozygousReference},
		{"phased hom variant", "1|1", 1, domain.HomozygousVariant},
		{"multi-allelic het for alt 1", "1/2", 1, domain.Heterozygous},
		{"multi-allelic het for alt 2", "1/2", 2, domain.Heterozygous},
		{"alt 2 absent", "0/1", 2, domain.HomozygousReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, ok := DecodeGenotype(tt.gt)
			assert.True(t, ok)
			assert.Equal(t, tt.want, call.ZygosityFor(tt.altIndex))
		})
	}
}
