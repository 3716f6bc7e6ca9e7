package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/nichelab/brandbrain/configs"
	"github.com/nichelab/brandbrain/internal/service"
	"github.com/nichelab/brandbrain/internal/transfer"
	"github.com/nichelab/brandbrain/pkg/utils"
)

const sessionDuration = 24 * time.Hour

type SessionHandler struct {
	cfg config.Config
	s   service.ApiKeyService
}

func NewSessionHandler(cfg config.Config, s service.ApiKeyService) *SessionHandler {
	return &SessionHandler{cfg: cfg, s: s}
}

// NewSession exchanges a valid API key for a session cookie so the
// browser client doesn't carry the key on every request.
func (h *SessionHandler) NewSession(c *fiber.Ctx) error {
	var req transfer.SessionRequest
	if err := c.BodyParser(&req); err != nil || req.APIKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "api_key is required",
		})
	}

	if err := h.s.Validate(c.Context(), req.APIKey); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, sessionDuration)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to create session",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		MaxAge:   int(sessionDuration.Seconds()),
	})

	return c.SendStatus(fiber.StatusOK)
}
