package models

import (
	"time"
)

// Commitment represents an obligation extracted from a communication:
// who has to do what, when, and optionally where.
type Commitment struct {
	When  time.Time `json:"when"` // absolute instant the obligor must act at
	Who   string    `json:"who"`
	What  string    `json:"what"`
	Where string    `json:"where,omitempty"`

	// Lead-time hints supplied by the extractor (e.g. "20 minutes travel").
	// Nil means unknown; fallbacks come from configuration.
	EstimatedTravelTime *time.Duration `json:"estimatedTravelTime,omitempty"`
	EstimatedPrepTime   *time.Duration `json:"estimatedPrepTime,omitempty"`
}

// HasLocation reports whether the commitment implies travel
func (c *Commitment) HasLocation() bool {
	return c.Where != ""
}

// DepartureTime calculates when the user needs to start preparing to make
// the commitment on time. Extractor-provided travel and prep estimates take
// precedence over the configured fallbacks.
func (c *Commitment) DepartureTime(travelFallback, prepFallback time.Duration) time.Time {
	travel := travelFallback
	if c.EstimatedTravelTime != nil {
		travel = *c.EstimatedTravelTime
	}
	prep := prepFallback
	if c.EstimatedPrepTime != nil {
		prep = *c.EstimatedPrepTime
	}
	return c.When.Add(-travel - prep)
}

// CommitmentResponse is the API representation of a commitment embedded in
// a reminder
type CommitmentResponse struct {
	When  time.Time `json:"when"`
	Who   string    `json:"who"`
	What  string    `json:"what"`
	Where string    `json:"where,omitempty"`
}

// ToResponse converts a Commitment to its API representation
func (c *Commitment) ToResponse() CommitmentResponse {
	return CommitmentResponse{
		When:  c.When,
		Who:   c.Who,
		What:  c.What,
		Where: c.Where,
	}
}
