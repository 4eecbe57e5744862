// Package vcf reads Variant Call Format (v4.2) content into variant
// records. The reader is deliberately tolerant: comment lines and blank
// lines are skipped, short or unparsable data lines are rejected and
// counted per line, and only a payload with no usable header at all fails
// the whole parse. Content arrives already read into memory (uploads are
// size-capped upstream), so parsing is a single pure pass: re-parsing the
// same content restarts from scratch and yields identical output.
package vcf

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

// Mandatory VCF columns: CHROM POS ID REF ALT QUAL FILTER INFO.
const mandatoryColumns = 8

// ScanStats counts what the reader saw. Feeds QualityMetrics.
type ScanStats struct {
	LinesScanned    int
	RecordsParsed   int
	RecordsRejected int
}

// File is the parsed result: header metadata plus the surviving records.
type File struct {
	FileFormat string // from the ##fileformat line, e.g. "VCFv4.2"
	Sample     string // first sample name on the #CHROM header, if any
	Records    []domain.VariantRecord
	Stats      ScanStats
}

// Parse reads VCF content. It returns a FormatError only when the content
// is empty or the mandatory #CHROM header line is missing; malformed data
// lines are counted in Stats and skipped.
func Parse(content string) (*File, error) {
	f := &File{}
	headerSeen := false

	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		f.Stats.LinesScanned++

		if strings.HasPrefix(line, "##") {
			if v, ok := strings.CutPrefix(line, "##fileformat="); ok {
				f.FileFormat = strings.TrimSpace(v)
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			// #CHROM POS ID REF ALT QUAL FILTER INFO [FORMAT SAMPLE...]
			headerSeen = true
			cols := strings.Split(line, "\t")
			if len(cols) > mandatoryColumns+1 {
				f.Sample = cols[mandatoryColumns+1]
			}
			continue
		}

		rec, ok := parseRecord(line, lineNo)
		if !ok {
			f.Stats.RecordsRejected++
			continue
		}
		f.Stats.RecordsParsed++
		f.Records = append(f.Records, rec)
	}

	if f.Stats.LinesScanned == 0 {
		return nil, domain.NewFormatError("empty upload", domain.ErrNoData)
	}
	if !headerSeen {
		return nil, domain.NewFormatError("not a VCF file", domain.ErrMissingHeader)
	}
	return f, nil
}

// parseRecord converts one data line. A short column count or an
// unparsable position rejects the line, never the file.
func parseRecord(line string, lineNo int) (domain.VariantRecord, bool) {
	cols := strings.Split(line, "\t")
	if len(cols) < mandatoryColumns {
		return domain.VariantRecord{}, false
	}

	pos, err := strconv.ParseInt(cols[1], 10, 64)
	if err != nil || pos < 1 {
		return domain.VariantRecord{}, false
	}

	rec := domain.VariantRecord{
		Chromosome: normalizeChromosome(cols[0]),
		Position:   pos,
		ID:         dotToEmpty(cols[2]),
		Reference:  strings.ToUpper(cols[3]),
		Alternates: splitAlternates(cols[4]),
		Quality:    dotToEmpty(cols[5]),
		Filter:     dotToEmpty(cols[6]),
		Line:       lineNo,
	}

	// The genotype call lives in the first sample column, positioned by
	// the GT key of the FORMAT column. Files without sample data simply
	// yield records with no genotype; those markers count as uncallable
	// downstream.
	if len(cols) > mandatoryColumns+1 {
		rec.Genotype = extractGenotype(cols[mandatoryColumns], cols[mandatoryColumns+1])
	}

	return rec, true
}

func normalizeChromosome(chrom string) string {
	chrom = strings.TrimSpace(chrom)
	if len(chrom) > 3 && strings.EqualFold(chrom[:3], "chr") {
		chrom = chrom[3:]
	}
	return chrom
}

func dotToEmpty(s string) string {
	if s == "." {
		return ""
	}
	return s
}

func splitAlternates(alt string) []string {
	if alt == "" || alt == "." {
		return nil
	}
	parts := strings.Split(alt, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" && p != "." {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}

// extractGenotype pulls the GT value out of a sample column using the
// FORMAT column key order.
func extractGenotype(format, sample string) string {
	keys := strings.Split(format, ":")
	values := strings.Split(sample, ":")
	for i, key := range keys {
		if key == "GT" && i < len(values) {
			return values[i]
		}
	}
	return ""
}
