package vcf

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

const sampleHeader = "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tNA12878"

func vcfContent(lines ...string) string {
	all := append([]string{"##fileformat=VCFv4.2", sampleHeader}, lines...)
	return strings.Join(all, "\n") + "\n"
}

func TestParseEmptyContent(t *testing.T) {
	for _, content := range []string{"", "\n\n\n", "   \n\t\n"} {
		_, err := Parse(content)
		require.Error(t, err)
		assert.True(t, domain.IsFormatError(err))
		assert.True(t, errors.Is(err, domain.ErrNoData))
	}
}

func TestParseMissingHeader(t *testing.T) {
	content := "##fileformat=VCFv4.2\n22\t42128945\trs3892097\tC\tT\t99\tPASS\t.\tGT\t0/1\n"

	_, err := Parse(content)
	require.Error(t, err)
	assert.True(t, domain.IsFormatError(err))
	assert.True(t, errors.Is(err, domain.ErrMissingHeader))
}

func TestParseHeaderOnly(t *testing.T) {
	f, err := Parse(vcfContent())
	require.NoError(t, err)

	assert.Equal(t, "VCFv4.2", f.FileFormat)
	assert.Equal(t, "NA12878", f.Sample)
	assert.Empty(t, f.Records)
	assert.Equal(t, 2, f.Stats.LinesScanned)
	assert.Equal(t, 0, f.Stats.RecordsParsed)
}

func TestParseRecordFields(t *testing.T) {
	f, err := Parse(vcfContent(
		"chr22\t42128945\trs3892097\tc\tt\t99\tPASS\tDP=30\tDP:GT\t30:0/1",
	))
	require.NoError(t, err)
	require.Len(t, f.Records, 1)

	rec := f.Records[0]
	assert.Equal(t, "22", rec.Chromosome, "chr prefix is stripped")
	assert.Equal(t, int64(42128945), rec.Position)
	assert.Equal(t, "rs3892097", rec.ID)
	assert.Equal(t, "C", rec.Reference, "bases are uppercased")
	assert.Equal(t, []string{"T"}, rec.Alternates)
	assert.Equal(t, "99", rec.Quality)
	assert.Equal(t, "PASS", rec.Filter)
	assert.Equal(t, "0/1", rec.Genotype, "GT found via FORMAT key order")
}

func TestParseDotFieldsBecomeEmpty(t *testing.T) {
	f, err := Parse(vcfContent(
		"22\t42128945\t.\tC\tT\t.\t.\t.\tGT\t1|1",
	))
	require.NoError(t, err)
	require.Len(t, f.Records, 1)

	rec := f.Records[0]
	assert.Empty(t, rec.ID)
	assert.Empty(t, rec.Quality)
	assert.Empty(t, rec.Filter)
	assert.Equal(t, "1|1", rec.Genotype)
}

func TestParseMultiAllelicAlt(t *testing.T) {
	f, err := Parse(vcfContent(
		"22\t42128945\trs3892097\tC\tT,g\t99\tPASS\t.\tGT\t1/2",
	))
	require.NoError(t, err)
	require.Len(t, f.Records, 1)
	assert.Equal(t, []string{"T", "G"}, f.Records[0].Alternates)
}

func TestParseRejectsMalformedLines(t *testing.T) {
	f, err := Parse(vcfContent(
		"22\t42128945\trs3892097\tC\tT\t99\tPASS\t.\tGT\t0/1", // good
		"22\tnot-a-number\trs1\tC\tT\t99\tPASS\t.",             // bad position
		"22\t0\trs2\tC\tT\t99\tPASS\t.",                        // position below 1
		"22\t42128946\trs3",                                    // too few columns
	))
	require.NoError(t, err)

	assert.Len(t, f.Records, 1)
	assert.Equal(t, 1, f.Stats.RecordsParsed)
	assert.Equal(t, 3, f.Stats.RecordsRejected)
	assert.Equal(t, 6, f.Stats.LinesScanned)
}

func TestParseWithoutSampleColumns(t *testing.T) {
	f, err := Parse(vcfContent(
		"22\t42128945\trs3892097\tC\tT\t99\tPASS\tDP=30",
	))
	require.NoError(t, err)
	require.Len(t, f.Records, 1)
	assert.Empty(t, f.Records[0].Genotype)
}

func TestParseFormatWithoutGT(t *testing.T) {
	f, err := Parse(vcfContent(
		"22\t42128945\trs3892097\tC\tT\t99\tPASS\t.\tDP:AD\t30:12",
	))
	require.NoError(t, err)
	require.Len(t, f.Records, 1)
	assert.Empty(t, f.Records[0].Genotype)
}

func TestParseIsDeterministic(t *testing.T) {
	content := vcfContent(
		"22\t42128945\trs3892097\tC\tT\t99\tPASS\t.\tGT\t0/1",
		"10\t94781859\trs4244285\tG\tA\t80\tPASS\t.\tGT\t1/1",
		"22\tbroken",
	)

	first, err := Parse(content)
	require.NoError(t, err)
	second, err := Parse(content)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
