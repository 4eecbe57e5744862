package engine

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/reference"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	tables, err := reference.Load()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(tables, logger)
}

func detected(allele string, zygosity domain.Zygosity) domain.DetectedVariant {
	return domain.DetectedVariant{
		Marker:   domain.MarkerDefinition{StarAllele: allele},
		Zygosity: zygosity,
	}
}

func TestResolveDiplotype(t *testing.T) {
	tests := []struct {
		name      string
		gene      string
		evidence  []domain.DetectedVariant
		want      [2]string
		ambiguous bool
	}{
		{
			name:     "no evidence stays wild type",
			gene:     "CYP2D6",
			evidence: nil,
			want:     [2]string{"*1", "*1"},
		},
		{
			name:     "single heterozygous claims one slot",
			gene:     "CYP2D6",
			evidence: []domain.DetectedVariant{detected("*4", domain.Heterozygous)},
			want:     [2]string{"*4", "*1"},
		},
		{
			name:     "homozygous claims both slots",
			gene:     "CYP2D6",
			evidence: []domain.DetectedVariant{detected("*4", domain.HomozygousVariant)},
			want:     [2]string{"*4", "*4"},
		},
		{
			name: "two heterozygous fill both slots most severe first",
			gene: "CYP2D6",
			evidence: []domain.DetectedVariant{
				detected("*41", domain.Heterozygous),
				detected("*4", domain.Heterozygous),
			},
			want: [2]string{"*4", "*41"},
		},
		{
			name: "homozygous plus heterozygous is ambiguous",
			gene: "CYP2D6",
			evidence: []domain.DetectedVariant{
				detected("*4", domain.HomozygousVariant),
				detected("*10", domain.Heterozygous),
			},
			want:      [2]string{"*4", "*4"},
			ambiguous: true,
		},
		{
			name: "three heterozygous keeps the two most severe",
			gene: "CYP2D6",
			evidence: []domain.DetectedVariant{
				detected("*17", domain.Heterozygous),
				detected("*10", domain.Heterozygous),
				detected("*4", domain.Heterozygous),
			},
			// *4 has no function; *10 and *17 tie on decreased function
			// and *10 wins the name tiebreak
			want:      [2]string{"*4", "*10"},
			ambiguous: true,
		},
		{
			name: "homozygous reference markers claim nothing",
			gene: "CYP2D6",
			evidence: []domain.DetectedVariant{
				detected("*4", domain.HomozygousReference),
			},
			want: [2]string{"*1", "*1"},
		},
		{
			name: "duplicate heterozygous evidence is deduplicated",
			gene: "CYP2D6",
			evidence: []domain.DetectedVariant{
				detected("*4", domain.Heterozygous),
				detected("*4", domain.Heterozygous),
			},
			want: [2]string{"*4", "*1"},
		},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ambiguous := e.resolveDiplotype(tt.gene, tt.evidence)
			assert.Equal(t, tt.gene, d.Gene)
			assert.Equal(t, tt.want, d.Alleles)
			assert.Equal(t, tt.ambiguous, ambiguous)
		})
	}
}

func TestResolveDiplotypeIsDeterministic(t *testing.T) {
	e := newTestEngine(t)
	evidence := []domain.DetectedVariant{
		detected("*10", domain.Heterozygous),
		detected("*17", domain.Heterozygous),
		detected("*41", domain.Heterozygous),
	}

	first, _ := e.resolveDiplotype("CYP2D6", evidence)
	for i := 0; i < 10; i++ {
		again, _ := e.resolveDiplotype("CYP2D6", evidence)
		assert.Equal(t, first, again)
	}
}
