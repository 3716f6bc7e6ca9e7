package handlers

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/nichelab/brandbrain/internal/activity"
	"github.com/nichelab/brandbrain/internal/models"
	"github.com/nichelab/brandbrain/internal/service"
	"github.com/nichelab/brandbrain/internal/transfer"
)

type GenerationHandler struct {
	ns  service.NicheService
	gs  service.GenerationService
	ps  service.PostService
	log *activity.Log

	generating atomic.Bool
}

func NewGenerationHandler(ns service.NicheService, gs service.GenerationService, ps service.PostService, log *activity.Log) *GenerationHandler {
	return &GenerationHandler{
		ns:  ns,
		gs:  gs,
		ps:  ps,
		log: log,
	}
}

// GenerateBatch produces a new draft batch. A single in-flight flag
// rejects concurrent duplicate requests.
func (h *GenerationHandler) GenerateBatch(c *fiber.Ctx) error {
	if !h.generating.CompareAndSwap(false, true) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Generation already in progress",
		})
	}
	defer h.generating.Store(false)

	niche, err := h.ns.Info(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load niche",
		})
	}
	if niche == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Niche is not configured",
		})
	}

	h.log.Info(fmt.Sprintf("AI starting content curation for niche: %s...", niche.Name))

	drafts, err := h.gs.GenerateDrafts(c.Context(), niche)
	if err != nil {
		h.log.Error("Failed to generate content drafts. Please check API connectivity.")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.ps.Prepend(c.Context(), drafts); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to store drafts",
		})
	}

	h.log.Success(fmt.Sprintf("Successfully curated %d content ideas.", len(drafts)))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"active_tab": "drafts",
		"count":      len(drafts),
		"posts":      drafts,
	})
}

// GenerateMedia produces the media asset matching the post's media type
// and attaches it. The post is only updated when generation succeeds.
func (h *GenerationHandler) GenerateMedia(c *fiber.Ctx) error {
	var req transfer.PostIDRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	post, err := h.ps.Get(c.Context(), req.PostID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var mediaURL string
	switch post.MediaType {
	case models.MediaTypeImage:
		mediaURL, err = h.gs.GenerateImage(c.Context(), post.Topic)
	case models.MediaTypeVideo:
		mediaURL, err = h.gs.GenerateVideo(c.Context(), post.Topic)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Post is text-only",
		})
	}

	if err != nil {
		h.log.Error(fmt.Sprintf("Media generation failed for %q: %s", post.Topic, err.Error()))

		var genErr *service.GenerationError
		if errors.As(err, &genErr) && genErr.Permission {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.ps.SetMediaURL(c.Context(), post.ID, mediaURL); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to attach media",
		})
	}

	h.log.Success(fmt.Sprintf("Generated %s for %q.", post.MediaType, post.Topic))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"media_url": mediaURL,
	})
}
