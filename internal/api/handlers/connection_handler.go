package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nichelab/brandbrain/internal/service"
	"github.com/nichelab/brandbrain/internal/transfer"
)

type ConnectionHandler struct {
	s service.NicheService
}

func NewConnectionHandler(service service.NicheService) *ConnectionHandler {
	return &ConnectionHandler{s: service}
}

func (h *ConnectionHandler) Connect(c *fiber.Ctx) error {
	var req transfer.ConnectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	conn, err := h.s.Connect(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(conn)
}

func (h *ConnectionHandler) Disconnect(c *fiber.Ctx) error {
	var req transfer.DisconnectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.Disconnect(c.Context(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
