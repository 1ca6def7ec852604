package handlers

import (
	"errors"
	"strconv"

	"bookhive/internal/core/services"
	"bookhive/internal/pkg/pagination"
	"bookhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BorrowHandler handles borrow and return endpoints
type BorrowHandler struct {
	borrowService *services.BorrowService
}

// NewBorrowHandler creates a new borrow handler
func NewBorrowHandler(borrowService *services.BorrowService) *BorrowHandler {
	return &BorrowHandler{borrowService: borrowService}
}

// BorrowBook handles borrowing a book
// @Summary Borrow book
// @Description Borrow a book for a user. Fails with 409 when the book is not available.
// @Tags Borrow
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param bookId path int true "Book ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /borrow/{userId}/{bookId} [post]
func (h *BorrowHandler) BorrowBook(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	bookID, err := strconv.ParseUint(c.Params("bookId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	record, err := h.borrowService.BorrowBook(c.Context(), uint(userID), uint(bookID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, services.ErrUserNotFoundSvc):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrBookUnavailable):
			return response.Conflict(c, "Book is not available for borrowing")
		default:
			return response.InternalServerError(c, "Failed to borrow book")
		}
	}

	return response.Created(c, "Book borrowed successfully", record)
}

// ReturnBook handles returning a borrowed book
// @Summary Return book
// @Description Close a borrow record and make the book available again. Returning a record twice fails with 409.
// @Tags Borrow
// @Produce json
// @Security BearerAuth
// @Param recordId path int true "Borrow record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /borrow/return/{recordId} [post]
func (h *BorrowHandler) ReturnBook(c *fiber.Ctx) error {
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	record, err := h.borrowService.ReturnBook(c.Context(), uint(recordID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRecordNotFound):
			return response.NotFound(c, "Borrow record not found")
		case errors.Is(err, services.ErrRecordAlreadyReturned):
			return response.Conflict(c, "Borrow record has already been returned")
		default:
			return response.InternalServerError(c, "Failed to return book")
		}
	}

	return response.Success(c, "Book returned successfully", record)
}

// GetRecord handles getting a borrow record by ID
// @Summary Get borrow record
// @Description Get a borrow record by its ID
// @Tags Borrow
// @Produce json
// @Security BearerAuth
// @Param recordId path int true "Borrow record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /borrow/records/{recordId} [get]
func (h *BorrowHandler) GetRecord(c *fiber.Ctx) error {
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	record, err := h.borrowService.GetRecord(c.Context(), uint(recordID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRecordNotFound):
			return response.NotFound(c, "Borrow record not found")
		default:
			return response.InternalServerError(c, "Failed to get borrow record")
		}
	}

	return response.Success(c, "Borrow record retrieved successfully", record)
}

// ListRecords handles listing all borrow records
// @Summary List borrow records
// @Description List all borrow records with pagination (librarian or admin)
// @Tags Borrow
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /borrow/records [get]
func (h *BorrowHandler) ListRecords(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	records, total, err := h.borrowService.ListRecords(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list borrow records")
	}

	return response.Success(c, "Borrow records retrieved successfully", pagination.NewResponse(records, params, total))
}

// ListUserRecords handles listing borrow records for one user
// @Summary List user's borrow records
// @Description List borrow records of a specific user with pagination
// @Tags Borrow
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /borrow/users/{userId}/records [get]
func (h *BorrowHandler) ListUserRecords(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	params := pagination.GetParams(c)

	records, total, err := h.borrowService.ListUserRecords(c.Context(), uint(userID), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list borrow records")
	}

	return response.Success(c, "Borrow records retrieved successfully", pagination.NewResponse(records, params, total))
}
