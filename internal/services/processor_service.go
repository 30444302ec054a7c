package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lifecoach/internal/logging"
	"lifecoach/internal/models"
)

// ProcessResult is the outcome of processing one communication
type ProcessResult struct {
	Reminders []*models.Reminder
	Skipped   int // commitments dropped as unresolvable
}

// CommunicationProcessor orchestrates extraction and derivation for one
// inbound communication. Safe for concurrent use: the extractor is a shared
// injected capability and derivation is pure.
type CommunicationProcessor struct {
	extractor  CommitmentExtractor
	derivation *DerivationService
	travel     *TravelService
	metrics    *Metrics
}

// NewCommunicationProcessor creates a processor with an injected extractor
func NewCommunicationProcessor(
	extractor CommitmentExtractor,
	derivation *DerivationService,
	travel *TravelService,
	metrics *Metrics,
) *CommunicationProcessor {
	return &CommunicationProcessor{
		extractor:  extractor,
		derivation: derivation,
		travel:     travel,
		metrics:    metrics,
	}
}

// ProcessCommunication extracts commitments from the communication and
// derives reminders for each. A commitment that fails derivation is skipped
// and counted so one malformed extraction never suppresses valid reminders
// from the same message. Commitments keep the extractor's order; reminders
// keep per-commitment derivation order.
func (p *CommunicationProcessor) ProcessCommunication(ctx context.Context, comm models.Communication) (*ProcessResult, error) {
	logger := logging.WithCommunication(comm.ID, comm.Sender, comm.Recipient)
	start := time.Now()

	commitments, err := p.extractor.IdentifyCommitments(ctx, comm)
	if err != nil {
		return nil, fmt.Errorf("commitment extraction failed: %w", err)
	}

	result := &ProcessResult{}
	for _, c := range commitments {
		// Learn measured travel leads, fill in cached ones
		if c.HasLocation() {
			if c.EstimatedTravelTime != nil {
				p.travel.Remember(c.Where, *c.EstimatedTravelTime)
			} else if lead := p.travel.EstimateLead(c.Where); lead > 0 {
				c.EstimatedTravelTime = &lead
			}
		}

		reminders, err := p.derivation.FromCommitment(comm, c)
		if err != nil {
			if errors.Is(err, models.ErrInvalidCommitment) {
				result.Skipped++
				if p.metrics != nil {
					p.metrics.RecordCommitmentSkipped("invalid_when")
				}
				logger.Warn("skipping unresolvable commitment", "what", c.What)
				continue
			}
			return nil, err
		}
		result.Reminders = append(result.Reminders, reminders...)
	}

	if p.metrics != nil {
		p.metrics.RecordCommunicationProcessed(time.Since(start).Seconds())
		p.metrics.RecordCommitmentsExtracted(len(commitments))
		for _, r := range result.Reminders {
			p.metrics.RecordReminderDerived(string(r.Priority))
		}
	}

	log.Printf("📨 Processed communication %s: %d commitments, %d reminders, %d skipped",
		comm.ID, len(commitments), len(result.Reminders), result.Skipped)

	return result, nil
}
