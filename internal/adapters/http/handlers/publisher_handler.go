package handlers

import (
	"errors"
	"strconv"

	"bookhive/internal/core/services"
	"bookhive/internal/pkg/pagination"
	"bookhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PublisherHandler handles publisher endpoints
type PublisherHandler struct {
	publisherService *services.PublisherService
}

// NewPublisherHandler creates a new publisher handler
func NewPublisherHandler(publisherService *services.PublisherService) *PublisherHandler {
	return &PublisherHandler{publisherService: publisherService}
}

// ListPublishers handles listing publishers
// @Summary List publishers
// @Description List publishers with pagination
// @Tags Publishers
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /publishers [get]
func (h *PublisherHandler) ListPublishers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	publishers, total, err := h.publisherService.ListPublishers(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list publishers")
	}

	return response.Success(c, "Publishers retrieved successfully", pagination.NewResponse(publishers, params, total))
}

// GetPublisher handles getting a publisher by ID
// @Summary Get publisher
// @Description Get a publisher by ID
// @Tags Publishers
// @Produce json
// @Param id path int true "Publisher ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /publishers/{id} [get]
func (h *PublisherHandler) GetPublisher(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid publisher ID")
	}

	publisher, err := h.publisherService.GetPublisherByID(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPublisherNotFoundSvc):
			return response.NotFound(c, "Publisher not found")
		default:
			return response.InternalServerError(c, "Failed to get publisher")
		}
	}

	return response.Success(c, "Publisher retrieved successfully", publisher)
}

// CreatePublisher handles publisher creation
// @Summary Create publisher
// @Description Create a new publisher (librarian or admin)
// @Tags Publishers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreatePublisherInput true "Publisher data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /publishers [post]
func (h *PublisherHandler) CreatePublisher(c *fiber.Ctx) error {
	var input services.CreatePublisherInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	publisher, err := h.publisherService.CreatePublisher(c.Context(), &input)
	if err != nil {
		return response.InternalServerError(c, "Failed to create publisher")
	}

	return response.Created(c, "Publisher created successfully", publisher)
}

// UpdatePublisher handles publisher update
// @Summary Update publisher
// @Description Update a publisher (librarian or admin)
// @Tags Publishers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Publisher ID"
// @Param body body services.UpdatePublisherInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /publishers/{id} [put]
func (h *PublisherHandler) UpdatePublisher(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid publisher ID")
	}

	var input services.UpdatePublisherInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	publisher, err := h.publisherService.UpdatePublisher(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPublisherNotFoundSvc):
			return response.NotFound(c, "Publisher not found")
		default:
			return response.InternalServerError(c, "Failed to update publisher")
		}
	}

	return response.Success(c, "Publisher updated successfully", publisher)
}

// DeletePublisher handles publisher deletion
// @Summary Delete publisher
// @Description Delete a publisher (admin only)
// @Tags Publishers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Publisher ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /publishers/{id} [delete]
func (h *PublisherHandler) DeletePublisher(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid publisher ID")
	}

	if err := h.publisherService.DeletePublisher(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrPublisherNotFoundSvc):
			return response.NotFound(c, "Publisher not found")
		default:
			return response.InternalServerError(c, "Failed to delete publisher")
		}
	}

	return response.Success(c, "Publisher deleted successfully", nil)
}
