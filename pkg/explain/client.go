package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

// RemoteExplainer calls an external text-generation service. Calls run
// through a client-side rate limiter and a circuit breaker; any failure
// falls back to the deterministic template so an analysis never loses
// its explanation to a flaky upstream.
type RemoteExplainer struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	limiter  *rate.Limiter
	retries  int
	fallback *TemplateExplainer
	log      *logrus.Logger
}

// RemoteConfig configures the remote explainer.
type RemoteConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RateLimit  float64
	RetryCount int
}

// NewRemoteExplainer creates a remote explainer with template fallback.
func NewRemoteExplainer(cfg RemoteConfig, logger *logrus.Logger) *RemoteExplainer {
	settings := gobreaker.Settings{
		Name:        "explain-remote",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 5.0
	}

	return &RemoteExplainer{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
		breaker:  gobreaker.NewCircuitBreaker(settings),
		limiter:  rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		retries:  cfg.RetryCount,
		fallback: NewTemplateExplainer(),
		log:      logger,
	}
}

// explainRequest is the wire format sent to the generation service.
type explainRequest struct {
	Drug      string   `json:"drug"`
	Gene      string   `json:"gene"`
	Phenotype string   `json:"phenotype"`
	Diplotype string   `json:"diplotype"`
	RiskLabel string   `json:"risk_label"`
	Action    string   `json:"action"`
	CPIC      string   `json:"cpic_reference"`
	RSIDs     []string `json:"rsids"`
}

type explainResponse struct {
	Summary              string `json:"summary"`
	Mechanism            string `json:"mechanism"`
	ClinicalSignificance string `json:"clinical_significance"`
}

// Explain implements domain.Explainer.
func (r *RemoteExplainer) Explain(ctx context.Context, report *domain.AnalysisReport) (*domain.Explanation, error) {
	exp, err := r.tryRemote(ctx, report)
	if err == nil {
		return exp, nil
	}

	r.log.WithError(err).WithFields(logrus.Fields{
		"drug": report.Drug,
		"gene": report.Risk.Gene,
	}).Warn("Remote explanation failed, falling back to template")
	return r.fallback.Explain(ctx, report)
}

func (r *RemoteExplainer) tryRemote(ctx context.Context, report *domain.AnalysisReport) (*domain.Explanation, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		result, err := r.breaker.Execute(func() (interface{}, error) {
			return r.call(ctx, report)
		})
		if err != nil {
			lastErr = err
			if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
				// Breaker is open; retrying immediately would be pointless.
				return nil, err
			}
			continue
		}
		return result.(*domain.Explanation), nil
	}
	return nil, lastErr
}

func (r *RemoteExplainer) call(ctx context.Context, report *domain.AnalysisReport) (*domain.Explanation, error) {
	rsids := make([]string, 0, len(report.Profile.DetectedVariants))
	for _, v := range report.Profile.DetectedVariants {
		rsids = append(rsids, v.Marker.RSID)
	}

	body, err := json.Marshal(explainRequest{
		Drug:      report.Drug,
		Gene:      report.Risk.Gene,
		Phenotype: report.Profile.Phenotype.String(),
		Diplotype: report.Profile.Diplotype.String(),
		RiskLabel: report.Risk.RiskLabel.String(),
		Action:    report.Risk.RecommendedAction,
		CPIC:      report.Risk.CPICReference,
		RSIDs:     rsids,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/explanations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling explanation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("explanation service returned status %d", resp.StatusCode)
	}

	var out explainResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if out.Summary == "" {
		return nil, fmt.Errorf("explanation service returned empty summary")
	}

	return &domain.Explanation{
		Summary:              out.Summary,
		Mechanism:            out.Mechanism,
		ClinicalSignificance: out.ClinicalSignificance,
	}, nil
}
