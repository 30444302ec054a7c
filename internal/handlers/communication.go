package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"lifecoach/internal/models"
	"lifecoach/internal/services"
)

// CommunicationHandler handles inbound communication processing requests
type CommunicationHandler struct {
	processor *services.CommunicationProcessor
	reminders *services.ReminderService
	notifier  *services.NotifierService
	archive   *services.ArchiveService // nil when Mongo is not configured
}

// NewCommunicationHandler creates a new communication handler
func NewCommunicationHandler(
	processor *services.CommunicationProcessor,
	reminders *services.ReminderService,
	notifier *services.NotifierService,
	archive *services.ArchiveService,
) *CommunicationHandler {
	return &CommunicationHandler{
		processor: processor,
		reminders: reminders,
		notifier:  notifier,
		archive:   archive,
	}
}

// HandleProcess processes one communication synchronously and returns the
// derived reminders
// POST /api/communications
func (h *CommunicationHandler) HandleProcess(c *fiber.Ctx) error {
	var req models.ProcessCommunicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	comm := req.ToCommunication()

	result, err := h.processor.ProcessCommunication(c.Context(), comm)
	if err != nil {
		log.Printf("❌ [COMM] Failed to process communication %s: %v", comm.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to process communication"})
	}

	if err := h.reminders.SaveCommunication(c.Context(), comm); err != nil {
		log.Printf("❌ [COMM] Failed to persist communication %s: %v", comm.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to persist communication"})
	}
	if err := h.reminders.SaveReminders(c.Context(), comm.ID, result.Reminders); err != nil {
		log.Printf("❌ [COMM] Failed to persist reminders for %s: %v", comm.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to persist reminders"})
	}

	// Hand-offs below are best effort: the reminders are already durable
	if h.notifier != nil {
		for _, r := range result.Reminders {
			if err := h.notifier.PublishReminder(c.Context(), services.EventReminderDerived, comm.ID, r); err != nil {
				log.Printf("⚠️  [COMM] Failed to publish reminder %s: %v", r.ID, err)
			}
		}
	}

	if h.archive != nil {
		go func(comm models.Communication, reminders []*models.Reminder) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.archive.Archive(ctx, comm, reminders); err != nil {
				log.Printf("⚠️  [COMM] Archive failed for %s: %v", comm.ID, err)
			}
		}(comm, result.Reminders)
	}

	response := models.ProcessCommunicationResponse{
		CommunicationID: comm.ID,
		Processed:       true,
		Skipped:         result.Skipped,
		Reminders:       make([]*models.ReminderResponse, 0, len(result.Reminders)),
	}
	for _, r := range result.Reminders {
		response.Reminders = append(response.Reminders, r.ToResponse())
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}
