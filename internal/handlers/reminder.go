package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"lifecoach/internal/models"
	"lifecoach/internal/services"
)

// ReminderHandler handles reminder lifecycle requests
type ReminderHandler struct {
	reminders *services.ReminderService
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminders *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

// HandleList returns reminders ordered by fire time
// GET /api/reminders?includeAcknowledged=true&limit=50
func (h *ReminderHandler) HandleList(c *fiber.Ctx) error {
	includeAcknowledged := c.QueryBool("includeAcknowledged", false)
	limit := c.QueryInt("limit", 100)

	reminders, err := h.reminders.List(c.Context(), includeAcknowledged, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list reminders"})
	}

	return c.JSON(fiber.Map{"reminders": toResponses(reminders)})
}

// HandleDue returns all currently due, unacknowledged reminders
// GET /api/reminders/due
func (h *ReminderHandler) HandleDue(c *fiber.Ctx) error {
	reminders, err := h.reminders.Due(c.Context(), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to query due reminders"})
	}

	return c.JSON(fiber.Map{"reminders": toResponses(reminders)})
}

// HandleGet returns a single reminder
// GET /api/reminders/:id
func (h *ReminderHandler) HandleGet(c *fiber.Ctx) error {
	reminder, err := h.reminders.Get(c.Context(), c.Params("id"))
	if err != nil {
		return reminderError(c, err)
	}
	return c.JSON(reminder.ToResponse())
}

// HandleAcknowledge marks a reminder as seen. Idempotent.
// POST /api/reminders/:id/acknowledge
func (h *ReminderHandler) HandleAcknowledge(c *fiber.Ctx) error {
	reminder, err := h.reminders.Acknowledge(c.Context(), c.Params("id"))
	if err != nil {
		return reminderError(c, err)
	}
	return c.JSON(reminder.ToResponse())
}

// HandleSnooze postpones a reminder
// POST /api/reminders/:id/snooze
func (h *ReminderHandler) HandleSnooze(c *fiber.Ctx) error {
	var req models.SnoozeReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	duration := time.Duration(req.Minutes) * time.Minute
	reminder, err := h.reminders.Snooze(c.Context(), c.Params("id"), duration)
	if err != nil {
		return reminderError(c, err)
	}
	return c.JSON(reminder.ToResponse())
}

func reminderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrReminderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reminder not found"})
	case errors.Is(err, models.ErrInvalidDuration):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

func toResponses(reminders []*models.Reminder) []*models.ReminderResponse {
	responses := make([]*models.ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		responses = append(responses, r.ToResponse())
	}
	return responses
}
