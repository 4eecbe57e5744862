// Package reference holds the static clinical lookup tables the engine
// depends on: gene regions, marker definitions, star-allele functions,
// diplotype phenotype maps and the CPIC-aligned risk matrix.
//
// Tables are built once by Load, validated fail-fast, and immutable
// afterwards. They are injected into the engine as an explicit dependency
// so tests can substitute reduced tables; concurrent unsynchronized reads
// are safe.
//
// Genomic coordinates are GRCh38.
package reference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

type markerKey struct {
	Chromosome string
	Position   int64
	Reference  string
	Alternate  string
}

type riskKey struct {
	Gene      string
	Phenotype domain.Phenotype
	Drug      string
}

// Tables is the full set of immutable reference data.
type Tables struct {
	regions    []domain.GeneRegion
	markers    map[markerKey]domain.MarkerDefinition
	functions  map[string]map[string]domain.AlleleFunction // gene -> star allele -> function
	phenotypes map[string]map[string]domain.Phenotype      // gene -> canonical pair -> phenotype
	risk       map[riskKey]domain.RiskAssessment
	drugGene   map[string]string
	genes      []string
	drugs      []string
}

// geneRegions covers the six supported pharmacogenes. Regions must be
// non-overlapping; Load fails fast otherwise.
var geneRegions = []domain.GeneRegion{
	{Gene: "CYP2D6", Chromosome: "22", Start: 42125000, End: 42131000},
	{Gene: "CYP2C19", Chromosome: "10", Start: 94761000, End: 94865000},
	{Gene: "CYP2C9", Chromosome: "10", Start: 94938658, End: 94990091},
	{Gene: "SLCO1B1", Chromosome: "12", Start: 21130000, End: 21239000},
	{Gene: "TPMT", Chromosome: "6", Start: 18128545, End: 18155374},
	{Gene: "DPYD", Chromosome: "1", Start: 97077743, End: 97921059},
}

// markerDefinitions is the curated rsID lookup table. Exactly one entry may
// exist per (chromosome, position, ref, alt); duplicates are a
// data-integrity error caught at load time.
var markerDefinitions = []domain.MarkerDefinition{
	// CYP2D6
	{RSID: "rs35742686", Gene: "CYP2D6", Chromosome: "22", Position: 42128242, Reference: "GA", Alternate: "G", StarAllele: "*3"},
	{RSID: "rs3892097", Gene: "CYP2D6", Chromosome: "22", Position: 42128945, Reference: "C", Alternate: "T", StarAllele: "*4"},
	{RSID: "rs5030655", Gene: "CYP2D6", Chromosome: "22", Position: 42128174, Reference: "TA", Alternate: "T", StarAllele: "*6"},
	{RSID: "rs1065852", Gene: "CYP2D6", Chromosome: "22", Position: 42130692, Reference: "G", Alternate: "A", StarAllele: "*10"},
	{RSID: "rs28371706", Gene: "CYP2D6", Chromosome: "22", Position: 42129770, Reference: "G", Alternate: "A", StarAllele: "*17"},
	{RSID: "rs28371725", Gene: "CYP2D6", Chromosome: "22", Position: 42127941, Reference: "C", Alternate: "T", StarAllele: "*41"},
	// CYP2C19
	{RSID: "rs4244285", Gene: "CYP2C19", Chromosome: "10", Position: 94781859, Reference: "G", Alternate: "A", StarAllele: "*2"},
	{RSID: "rs4986893", Gene: "CYP2C19", Chromosome: "10", Position: 94780653, Reference: "G", Alternate: "A", StarAllele: "*3"},
	{RSID: "rs12248560", Gene: "CYP2C19", Chromosome: "10", Position: 94761900, Reference: "C", Alternate: "T", StarAllele: "*17"},
	// CYP2C9
	{RSID: "rs1799853", Gene: "CYP2C9", Chromosome: "10", Position: 94942290, Reference: "C", Alternate: "T", StarAllele: "*2"},
	{RSID: "rs1057910", Gene: "CYP2C9", Chromosome: "10", Position: 94981296, Reference: "A", Alternate: "C", StarAllele: "*3"},
	// SLCO1B1
	{RSID: "rs4149056", Gene: "SLCO1B1", Chromosome: "12", Position: 21178615, Reference: "T", Alternate: "C", StarAllele: "*5"},
	// TPMT
	{RSID: "rs1800462", Gene: "TPMT", Chromosome: "6", Position: 18143955, Reference: "C", Alternate: "G", StarAllele: "*2"},
	{RSID: "rs1800460", Gene: "TPMT", Chromosome: "6", Position: 18139228, Reference: "C", Alternate: "T", StarAllele: "*3B"},
	{RSID: "rs1142345", Gene: "TPMT", Chromosome: "6", Position: 18130918, Reference: "T", Alternate: "C", StarAllele: "*3C"},
	// DPYD
	{RSID: "rs3918290", Gene: "DPYD", Chromosome: "1", Position: 97450058, Reference: "C", Alternate: "T", StarAllele: "*2A"},
	{RSID: "rs55886062", Gene: "DPYD", Chromosome: "1", Position: 97515839, Reference: "A", Alternate: "C", StarAllele: "*13"},
}

// alleleFunctions assigns each named star allele its CPIC function
// category. The wild-type "*1" is implicit and normal for every gene.
var alleleFunctions = map[string]map[string]domain.AlleleFunction{
	"CYP2D6": {
		"*3":  domain.FunctionNone,
		"*4":  domain.FunctionNone,
		"*6":  domain.FunctionNone,
		"*10": domain.FunctionDecreased,
		"*17": domain.FunctionDecreased,
		"*41": domain.FunctionDecreased,
	},
	"CYP2C19": {
		"*2":  domain.FunctionNone,
		"*3":  domain.FunctionNone,
		"*17": domain.FunctionIncreased,
	},
	"CYP2C9": {
		"*2": domain.FunctionDecreased,
		"*3": domain.FunctionNone,
	},
	"SLCO1B1": {
		"*5": domain.FunctionDecreased,
	},
	"TPMT": {
		"*2":  domain.FunctionNone,
		"*3B": domain.FunctionNone,
		"*3C": domain.FunctionNone,
	},
	"DPYD": {
		"*2A": domain.FunctionNone,
		"*13": domain.FunctionNone,
	},
}

// drugGeneMap fixes the primary decision gene per supported drug.
var drugGeneMap = map[string]string{
	"CODEINE":      "CYP2D6",
	"WARFARIN":     "CYP2C9",
	"CLOPIDOGREL":  "CYP2C19",
	"SIMVASTATIN":  "SLCO1B1",
	"AZATHIOPRINE": "TPMT",
	"FLUOROURACIL": "DPYD",
}

// Load builds and validates the full reference table set. Any integrity
// violation (overlapping regions, duplicate marker keys, markers outside
// their gene region, alleles without a function entry) is a configuration
// error and fails here, never at analysis time.
func Load() (*Tables, error) {
	t := &Tables{
		regions:    geneRegions,
		markers:    make(map[markerKey]domain.MarkerDefinition, len(markerDefinitions)),
		functions:  alleleFunctions,
		phenotypes: make(map[string]map[string]domain.Phenotype, len(geneRegions)),
		risk:       make(map[riskKey]domain.RiskAssessment),
		drugGene:   drugGeneMap,
	}

	if err := validateRegions(t.regions); err != nil {
		return nil, err
	}

	regionByGene := make(map[string]domain.GeneRegion, len(t.regions))
	for _, r := range t.regions {
		t.genes = append(t.genes, r.Gene)
		regionByGene[r.Gene] = r
	}
	sort.Strings(t.genes)

	for _, m := range markerDefinitions {
		key := markerKey{m.Chromosome, m.Position, m.Reference, m.Alternate}
		if prior, dup := t.markers[key]; dup {
			return nil, fmt.Errorf("marker table integrity: %s and %s share locus %s:%d %s>%s",
				prior.RSID, m.RSID, m.Chromosome, m.Position, m.Reference, m.Alternate)
		}
		region, ok := regionByGene[m.Gene]
		if !ok {
			return nil, fmt.Errorf("marker table integrity: %s references unknown gene %s", m.RSID, m.Gene)
		}
		if !region.Contains(m.Chromosome, m.Position) {
			return nil, fmt.Errorf("marker table integrity: %s at %s:%d lies outside the %s region",
				m.RSID, m.Chromosome, m.Position, m.Gene)
		}
		if _, ok := t.functions[m.Gene][m.StarAllele]; !ok {
			return nil, fmt.Errorf("marker table integrity: %s allele %s has no function entry for %s",
				m.RSID, m.StarAllele, m.Gene)
		}
		t.markers[key] = m
	}

	for gene := range t.functions {
		if _, ok := regionByGene[gene]; !ok {
			return nil, fmt.Errorf("allele function table references unknown gene %s", gene)
		}
		t.phenotypes[gene] = buildPhenotypeMap(t.functions[gene])
	}

	for drug, gene := range t.drugGene {
		if _, ok := regionByGene[gene]; !ok {
			return nil, fmt.Errorf("drug map: %s references unknown gene %s", drug, gene)
		}
		t.drugs = append(t.drugs, drug)
	}
	sort.Strings(t.drugs)

	if err := t.loadRiskMatrix(); err != nil {
		return nil, err
	}

	return t, nil
}

func validateRegions(regions []domain.GeneRegion) error {
	for i, a := range regions {
		if a.Start > a.End {
			return fmt.Errorf("gene region %s: start %d after end %d", a.Gene, a.Start, a.End)
		}
		for _, b := range regions[i+1:] {
			if a.Overlaps(b) {
				return fmt.Errorf("gene regions %s and %s overlap on chromosome %s", a.Gene, b.Gene, a.Chromosome)
			}
		}
	}
	return nil
}

// pairKey canonicalizes an unordered allele pair for map lookup.
func pairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "|" + b
}

// SupportedGenes returns the fixed gene list, sorted.
func (t *Tables) SupportedGenes() []string {
	out := make([]string, len(t.genes))
	copy(out, t.genes)
	return out
}

// SupportedDrugs returns the fixed drug list, sorted.
func (t *Tables) SupportedDrugs() []string {
	out := make([]string, len(t.drugs))
	copy(out, t.drugs)
	return out
}

// PrimaryGene returns the decision gene for a drug.
func (t *Tables) PrimaryGene(drug string) (string, bool) {
	gene, ok := t.drugGene[strings.ToUpper(drug)]
	return gene, ok
}

// RegionFor returns the gene region owning a locus, if any. Regions are
// non-overlapping so at most one region can match.
func (t *Tables) RegionFor(chromosome string, position int64) (domain.GeneRegion, bool) {
	for _, r := range t.regions {
		if r.Contains(chromosome, position) {
			return r, true
		}
	}
	return domain.GeneRegion{}, false
}

// MarkerAt performs the exact (chromosome, position, ref, alt) lookup.
func (t *Tables) MarkerAt(chromosome string, position int64, ref, alt string) (domain.MarkerDefinition, bool) {
	m, ok := t.markers[markerKey{chromosome, position, ref, alt}]
	return m, ok
}

// AlleleFunction returns the function category of a star allele for a
// gene. The wild-type allele is normal for every gene.
func (t *Tables) AlleleFunction(gene, allele string) domain.AlleleFunction {
	if allele == domain.WildTypeAllele {
		return domain.FunctionNormal
	}
	if fn, ok := t.functions[gene][allele]; ok {
		return fn
	}
	return domain.FunctionNormal
}

// SeverityRank returns the diplotype tie-break weight for an allele.
func (t *Tables) SeverityRank(gene, allele string) int {
	return t.AlleleFunction(gene, allele).SeverityRank()
}

// PhenotypeFor maps an exact unordered diplotype to its phenotype.
// Unmapped diplotypes report Indeterminate rather than failing.
func (t *Tables) PhenotypeFor(d domain.Diplotype) domain.Phenotype {
	if byPair, ok := t.phenotypes[d.Gene]; ok {
		if p, ok := byPair[pairKey(d.Alleles[0], d.Alleles[1])]; ok {
			return p
		}
	}
	return domain.PhenotypeIndeterminate
}
