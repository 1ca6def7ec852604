package handlers

import (
	"errors"
	"strconv"

	"bookhive/internal/core/services"
	"bookhive/internal/pkg/pagination"
	"bookhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthorHandler handles author endpoints
type AuthorHandler struct {
	authorService *services.AuthorService
}

// NewAuthorHandler creates a new author handler
func NewAuthorHandler(authorService *services.AuthorService) *AuthorHandler {
	return &AuthorHandler{authorService: authorService}
}

// ListAuthors handles listing authors
// @Summary List authors
// @Description List authors with pagination
// @Tags Authors
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /authors [get]
func (h *AuthorHandler) ListAuthors(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	authors, total, err := h.authorService.ListAuthors(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list authors")
	}

	return response.Success(c, "Authors retrieved successfully", pagination.NewResponse(authors, params, total))
}

// GetAuthor handles getting an author by ID
// @Summary Get author
// @Description Get an author by ID
// @Tags Authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /authors/{id} [get]
func (h *AuthorHandler) GetAuthor(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid author ID")
	}

	author, err := h.authorService.GetAuthorByID(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthorNotFoundSvc):
			return response.NotFound(c, "Author not found")
		default:
			return response.InternalServerError(c, "Failed to get author")
		}
	}

	return response.Success(c, "Author retrieved successfully", author)
}

// CreateAuthor handles author creation
// @Summary Create author
// @Description Create a new author (librarian or admin)
// @Tags Authors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateAuthorInput true "Author data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /authors [post]
func (h *AuthorHandler) CreateAuthor(c *fiber.Ctx) error {
	var input services.CreateAuthorInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	author, err := h.authorService.CreateAuthor(c.Context(), &input)
	if err != nil {
		return response.InternalServerError(c, "Failed to create author")
	}

	return response.Created(c, "Author created successfully", author)
}

// UpdateAuthor handles author update
// @Summary Update author
// @Description Update an author (librarian or admin)
// @Tags Authors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Param body body services.UpdateAuthorInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /authors/{id} [put]
func (h *AuthorHandler) UpdateAuthor(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid author ID")
	}

	var input services.UpdateAuthorInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	author, err := h.authorService.UpdateAuthor(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthorNotFoundSvc):
			return response.NotFound(c, "Author not found")
		default:
			return response.InternalServerError(c, "Failed to update author")
		}
	}

	return response.Success(c, "Author updated successfully", author)
}

// DeleteAuthor handles author deletion
// @Summary Delete author
// @Description Delete an author (admin only)
// @Tags Authors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /authors/{id} [delete]
func (h *AuthorHandler) DeleteAuthor(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid author ID")
	}

	if err := h.authorService.DeleteAuthor(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrAuthorNotFoundSvc):
			return response.NotFound(c, "Author not found")
		default:
			return response.InternalServerError(c, "Failed to delete author")
		}
	}

	return response.Success(c, "Author deleted successfully", nil)
}
