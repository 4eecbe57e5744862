package domain

import "context"

// Classifier is the single functional contract the engine exposes to the
// surrounding service layer. Parsing, filtering, resolution and risk
// lookup happen once per call; only the risk lookup repeats per drug.
type Classifier interface {
	// Classify analyzes in-memory VCF content for the requested drugs.
	// It fails only when the content is unusable as VCF (FormatError);
	// every other condition degrades into the returned reports.
	Classify(fileContent string, drugs []string, patientID string) ([]AnalysisReport, error)
}

// ReportStore persists analysis reports. Persistence is best-effort at the
// service boundary: the engine itself holds no state between runs.
type ReportStore interface {
	Save(ctx context.Context, report *AnalysisReport) error
	ListByPatient(ctx context.Context, patientID string, limit int) ([]AnalysisReport, error)
	Close() error
}

// Explainer produces the natural-language explanation block for a
// completed report. Implementations may call a remote text-generation
// service; the engine core only leaves the slot for the result.
type Explainer interface {
	Explain(ctx context.Context, report *AnalysisReport) (*Explanation, error)
}
