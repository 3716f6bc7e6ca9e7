package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nichelab/brandbrain/internal/activity"
)

type ActivityHandler struct {
	log *activity.Log
}

func NewActivityHandler(log *activity.Log) *ActivityHandler {
	return &ActivityHandler{log: log}
}

func (h *ActivityHandler) ListEntries(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.log.Entries())
}
