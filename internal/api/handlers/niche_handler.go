package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nichelab/brandbrain/internal/service"
	"github.com/nichelab/brandbrain/internal/transfer"
)

type NicheHandler struct {
	s service.NicheService
}

func NewNicheHandler(service service.NicheService) *NicheHandler {
	return &NicheHandler{s: service}
}

func (h *NicheHandler) SetupNiche(c *fiber.Ctx) error {
	var req transfer.NicheSetup
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	niche, err := h.s.Setup(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(niche)
}

func (h *NicheHandler) GetNicheInfo(c *fiber.Ctx) error {
	niche, err := h.s.Info(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load niche",
		})
	}
	if niche == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Niche is not configured",
		})
	}

	return c.Status(fiber.StatusOK).JSON(niche)
}
