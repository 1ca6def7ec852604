package handlers

import (
	"errors"
	"strconv"

	"bookhive/internal/core/services"
	"bookhive/internal/pkg/pagination"
	"bookhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles book catalog endpoints
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// ListBooks handles listing books
// @Summary List books
// @Description List books with pagination and optional sorting
// @Tags Books
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param sort_by query string false "Sort field (title, isbn, price, created_at)"
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *BookHandler) ListBooks(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	books, total, err := h.bookService.ListBooks(c.Context(), params.Offset, params.Limit, params.SortBy)
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully", pagination.NewResponse(books, params, total))
}

// GetBook handles getting a book by ID
// @Summary Get book
// @Description Get a book by its ID
// @Tags Books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *BookHandler) GetBook(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.bookService.GetBookByID(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to get book")
		}
	}

	return response.Success(c, "Book retrieved successfully", book)
}

// GetBookByISBN handles getting a book by ISBN
// @Summary Get book by ISBN
// @Description Get a book by its ISBN
// @Tags Books
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/isbn/{isbn} [get]
func (h *BookHandler) GetBookByISBN(c *fiber.Ctx) error {
	isbn := c.Params("isbn")
	if isbn == "" {
		return response.BadRequest(c, "ISBN is required")
	}

	book, err := h.bookService.GetBookByISBN(c.Context(), isbn)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to get book")
		}
	}

	return response.Success(c, "Book retrieved successfully", book)
}

// CreateBook handles book creation
// @Summary Create book
// @Description Create a new book (librarian or admin)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateBookInput true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books [post]
func (h *BookHandler) CreateBook(c *fiber.Ctx) error {
	var input services.CreateBookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Title == "" {
		return response.BadRequest(c, "Title is required")
	}
	if input.ISBN == "" {
		return response.BadRequest(c, "ISBN is required")
	}
	if input.AuthorID == 0 {
		return response.BadRequest(c, "Author ID is required")
	}
	if input.PublisherID == 0 {
		return response.BadRequest(c, "Publisher ID is required")
	}

	book, err := h.bookService.CreateBook(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrISBNAlreadyExists):
			return response.Conflict(c, "A book with this ISBN already exists")
		case errors.Is(err, services.ErrAuthorNotFound):
			return response.BadRequest(c, "Author not found")
		case errors.Is(err, services.ErrPublisherNotFound):
			return response.BadRequest(c, "Publisher not found")
		default:
			return response.InternalServerError(c, "Failed to create book")
		}
	}

	return response.Created(c, "Book created successfully", book)
}

// UpdateBook handles book update
// @Summary Update book
// @Description Update a book's metadata (status is managed by borrow/return)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param body body services.UpdateBookInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [put]
func (h *BookHandler) UpdateBook(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	var input services.UpdateBookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.UpdateBook(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, services.ErrAuthorNotFound):
			return response.BadRequest(c, "Author not found")
		case errors.Is(err, services.ErrPublisherNotFound):
			return response.BadRequest(c, "Publisher not found")
		default:
			return response.InternalServerError(c, "Failed to update book")
		}
	}

	return response.Success(c, "Book updated successfully", book)
}

// DeleteBook handles book deletion
// @Summary Delete book
// @Description Delete a book (rejected while the book is borrowed)
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.bookService.DeleteBook(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, services.ErrBookBorrowed):
			return response.Conflict(c, "Book is currently borrowed and cannot be deleted")
		default:
			return response.InternalServerError(c, "Failed to delete book")
		}
	}

	return response.Success(c, "Book deleted successfully", nil)
}
