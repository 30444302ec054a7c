package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lifecoach/internal/models"
)

// NERExtractor identifies commitments through an external named-entity
// recognition service. The model is loaded once on the service side; this
// client is constructed once at startup and shared across requests, with a
// rate limiter protecting the inference endpoint.
type NERExtractor struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	fallback   CommitmentExtractor // used when the endpoint is unreachable
}

// NewNERExtractor creates a model-backed extractor. fallback may be nil, in
// which case endpoint failures yield an empty result.
func NewNERExtractor(baseURL string, timeout time.Duration, fallback CommitmentExtractor) *NERExtractor {
	return &NERExtractor{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		// 5 req/s with a small burst; the NER model is a shared resource
		limiter:  rate.NewLimiter(rate.Limit(5), 10),
		fallback: fallback,
	}
}

// nerRequest is the payload sent to the inference endpoint
type nerRequest struct {
	Text          string    `json:"text"`
	ReferenceTime time.Time `json:"referenceTime"`
}

// nerEntity is one extracted entity span
type nerEntity struct {
	Text  string  `json:"text"`
	Label string  `json:"label"` // TIME, DATE, PERSON, GPE, LOC, FAC
	Score float64 `json:"score"`
}

type nerResponse struct {
	Entities []nerEntity `json:"entities"`
}

// IdentifyCommitments sends the communication text to the NER service and
// assembles commitments from the returned entity spans. Candidates without a
// resolvable time entity are omitted. Transport failures fall back to the
// rule-based extractor when one is configured.
func (e *NERExtractor) IdentifyCommitments(ctx context.Context, comm models.Communication) ([]models.Commitment, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("ner rate limit wait: %w", err)
	}

	entities, err := e.extractEntities(ctx, comm)
	if err != nil {
		if e.fallback != nil {
			return e.fallback.IdentifyCommitments(ctx, comm)
		}
		return nil, fmt.Errorf("ner extraction failed: %w", err)
	}

	return e.assembleCommitments(comm, entities), nil
}

func (e *NERExtractor) extractEntities(ctx context.Context, comm models.Communication) ([]nerEntity, error) {
	body, err := json.Marshal(nerRequest{
		Text:          comm.Content,
		ReferenceTime: comm.Timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ner service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result nerResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse ner response: %w", err)
	}

	return result.Entities, nil
}

// assembleCommitments groups entity spans into a single commitment per
// detected time expression
func (e *NERExtractor) assembleCommitments(comm models.Communication, entities []nerEntity) []models.Commitment {
	var locations []string
	var times []time.Time

	for _, entity := range entities {
		switch entity.Label {
		case "TIME", "DATE":
			when, ok := resolveTimeExpression(entity.Text, comm.Timestamp)
			if !ok {
				// Unresolvable time span: drop the candidate, never guess
				continue
			}
			times = append(times, when)
		case "GPE", "LOC", "FAC":
			locations = append(locations, entity.Text)
		}
	}

	commitments := make([]models.Commitment, 0, len(times))
	for i, when := range times {
		c := models.Commitment{
			When: when,
			Who:  comm.Sender,
			What: describeAction(comm.Content, ""),
		}
		if i < len(locations) {
			c.Where = locations[i]
		} else if len(locations) > 0 {
			c.Where = locations[len(locations)-1]
		}
		if travel, ok := extractTravelHint(comm.Content); ok {
			c.EstimatedTravelTime = &travel
		}
		commitments = append(commitments, c)
	}

	return commitments
}
