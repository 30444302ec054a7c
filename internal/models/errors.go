package models

import "errors"

var (
	// ErrInvalidCommitment indicates a commitment whose time could not be
	// resolved to an absolute instant. Recovered per-commitment by the
	// processor: the offending candidate is skipped, the batch continues.
	ErrInvalidCommitment = errors.New("commitment time is not resolvable to an absolute instant")

	// ErrInvalidDuration indicates a non-positive snooze duration
	ErrInvalidDuration = errors.New("duration must be positive")

	// ErrEmptyContent indicates a communication with no text to analyze
	ErrEmptyContent = errors.New("communication content is empty")

	// ErrMissingParticipant indicates a communication without sender or recipient
	ErrMissingParticipant = errors.New("communication requires sender and recipient")

	// ErrReminderNotFound indicates a lookup for an unknown reminder ID
	ErrReminderNotFound = errors.New("reminder not found")
)
