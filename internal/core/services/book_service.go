package services

import (
	"context"
	"errors"
	"log"
	"time"

	"bookhive/internal/adapters/persistence/models"
	"bookhive/internal/adapters/persistence/repositories"
	"bookhive/internal/core/domain"

	jsoniter "github.com/json-iterator/go"
	"gorm.io/gorm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Book service errors
var (
	ErrBookNotFound      = errors.New("book not found")
	ErrISBNAlreadyExists = errors.New("isbn already exists")
	ErrAuthorNotFound    = errors.New("author not found")
	ErrPublisherNotFound = errors.New("publisher not found")
	ErrBookBorrowed      = errors.New("book is currently borrowed")
)

// BookService handles book catalog business logic. Reads by ID go
// through the cache (cache-aside); every mutation evicts the book's
// cache entry after the database write.
type BookService struct {
	bookRepo      repositories.BookRepository
	authorRepo    repositories.AuthorRepository
	publisherRepo repositories.PublisherRepository
	cache         CacheStore
}

// NewBookService creates a new book service
func NewBookService(
	bookRepo repositories.BookRepository,
	authorRepo repositories.AuthorRepository,
	publisherRepo repositories.PublisherRepository,
	cache CacheStore,
) *BookService {
	return &BookService{
		bookRepo:      bookRepo,
		authorRepo:    authorRepo,
		publisherRepo: publisherRepo,
		cache:         cache,
	}
}

// CreateBookInput represents create book input
type CreateBookInput struct {
	Title           string     `json:"title" validate:"required,min=1,max=200"`
	ISBN            string     `json:"isbn" validate:"required,min=10,max=17"`
	Description     string     `json:"description,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	PageCount       int        `json:"page_count,omitempty"`
	Price           float64    `json:"price,omitempty"`
	CoverImageURL   string     `json:"cover_image_url,omitempty"`
	AuthorID        uint       `json:"author_id" validate:"required"`
	PublisherID     uint       `json:"publisher_id" validate:"required"`
}

// UpdateBookInput represents update book input
type UpdateBookInput struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	PublicationDate *time.Time `json:"publication_date"`
	PageCount       *int       `json:"page_count"`
	Price           *float64   `json:"price"`
	CoverImageURL   *string    `json:"cover_image_url"`
	AuthorID        *uint      `json:"author_id"`
	PublisherID     *uint      `json:"publisher_id"`
}

// ListBooks lists books with pagination and optional sort field
func (s *BookService) ListBooks(ctx context.Context, offset, limit int, sortBy string) ([]*models.BookResponse, int64, error) {
	books, total, err := s.bookRepo.List(ctx, offset, limit, sortBy)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.BookResponse, len(books))
	for i, book := range books {
		responses[i] = book.ToResponse()
	}

	return responses, total, nil
}

// GetBookByID gets a book by ID through the cache. On a miss the book
// is read from the database and, if found, cached with a bounded TTL.
// Absent books are never cached.
func (s *BookService) GetBookByID(ctx context.Context, id uint) (*models.BookResponse, error) {
	key := bookCacheKey(id)

	if data, err := s.cache.Get(ctx, key); err != nil {
		log.Printf("⚠️ Cache get failed for %s: %v", key, err)
	} else if data != nil {
		var cached models.BookResponse
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		// Corrupt entry: fall through to the database read
	}

	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	response := book.ToResponse()
	if data, err := json.Marshal(response); err == nil {
		if err := s.cache.Put(ctx, key, data, bookCacheTTL); err != nil {
			log.Printf("⚠️ Cache put failed for %s: %v", key, err)
		}
	}

	return response, nil
}

// GetBookByISBN gets a book by its ISBN
func (s *BookService) GetBookByISBN(ctx context.Context, isbn string) (*models.BookResponse, error) {
	book, err := s.bookRepo.GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book.ToResponse(), nil
}

// CreateBook creates a new book
func (s *BookService) CreateBook(ctx context.Context, input *CreateBookInput) (*models.BookResponse, error) {
	exists, err := s.bookRepo.ExistsByISBN(ctx, input.ISBN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrISBNAlreadyExists
	}

	authorExists, err := s.authorRepo.ExistsByID(ctx, input.AuthorID)
	if err != nil {
		return nil, err
	}
	if !authorExists {
		return nil, ErrAuthorNotFound
	}

	publisherExists, err := s.publisherRepo.ExistsByID(ctx, input.PublisherID)
	if err != nil {
		return nil, err
	}
	if !publisherExists {
		return nil, ErrPublisherNotFound
	}

	book := &models.Book{
		Title:           input.Title,
		ISBN:            input.ISBN,
		Description:     input.Description,
		PublicationDate: input.PublicationDate,
		PageCount:       input.PageCount,
		Price:           input.Price,
		Status:          domain.BookStatusAvailable,
		CoverImageURL:   input.CoverImageURL,
		AuthorID:        input.AuthorID,
		PublisherID:     input.PublisherID,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	log.Printf("✅ Book created: %s (ISBN: %s)", book.Title, book.ISBN)
	return book.ToResponse(), nil
}

// UpdateBook updates a book. Status is not settable here: availability
// only changes through borrow/return. The cache entry is evicted after
// the write.
func (s *BookService) UpdateBook(ctx context.Context, id uint, input *UpdateBookInput) (*models.BookResponse, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.PublicationDate != nil {
		book.PublicationDate = input.PublicationDate
	}
	if input.PageCount != nil {
		book.PageCount = *input.PageCount
	}
	if input.Price != nil {
		book.Price = *input.Price
	}
	if input.CoverImageURL != nil {
		book.CoverImageURL = *input.CoverImageURL
	}

	if input.AuthorID != nil {
		exists, err := s.authorRepo.ExistsByID(ctx, *input.AuthorID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrAuthorNotFound
		}
		book.AuthorID = *input.AuthorID
	}

	if input.PublisherID != nil {
		exists, err := s.publisherRepo.ExistsByID(ctx, *input.PublisherID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrPublisherNotFound
		}
		book.PublisherID = *input.PublisherID
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	s.evict(ctx, id)
	return book.ToResponse(), nil
}

// DeleteBook deletes a book. A borrowed book cannot be deleted.
func (s *BookService) DeleteBook(ctx context.Context, id uint) error {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	if book.Status == domain.BookStatusBorrowed {
		return ErrBookBorrowed
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.evict(ctx, id)
	return nil
}

func (s *BookService) evict(ctx context.Context, bookID uint) {
	if err := s.cache.Evict(ctx, bookCacheKey(bookID)); err != nil {
		log.Printf("⚠️ Failed to evict cache for book %d: %v (stale until TTL)", bookID, err)
	}
}
