package services

import (
	"context"
	"errors"
	"time"

	"bookhive/internal/adapters/persistence/models"
	"bookhive/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Author service errors
var (
	ErrAuthorNotFoundSvc      = errors.New("author not found")
	ErrAuthorEmailAlreadyUsed = errors.New("author email already exists")
)

// AuthorService handles author management business logic
type AuthorService struct {
	authorRepo repositories.AuthorRepository
}

// NewAuthorService creates a new author service
func NewAuthorService(authorRepo repositories.AuthorRepository) *AuthorService {
	return &AuthorService{authorRepo: authorRepo}
}

// CreateAuthorInput represents create author input
type CreateAuthorInput struct {
	Name      string     `json:"name" validate:"required,min=2,max=100"`
	Email     string     `json:"email,omitempty" validate:"omitempty,email"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Biography string     `json:"biography,omitempty"`
}

// UpdateAuthorInput represents update author input
type UpdateAuthorInput struct {
	Name      *string    `json:"name"`
	Email     *string    `json:"email"`
	BirthDate *time.Time `json:"birth_date"`
	Biography *string    `json:"biography"`
}

// ListAuthors lists authors with pagination
func (s *AuthorService) ListAuthors(ctx context.Context, offset, limit int) ([]*models.Author, int64, error) {
	return s.authorRepo.List(ctx, offset, limit)
}

// GetAuthorByID gets an author by ID
func (s *AuthorService) GetAuthorByID(ctx context.Context, id uint) (*models.Author, error) {
	author, err := s.authorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFoundSvc
		}
		return nil, err
	}
	return author, nil
}

// CreateAuthor creates a new author
func (s *AuthorService) CreateAuthor(ctx context.Context, input *CreateAuthorInput) (*models.Author, error) {
	author := &models.Author{
		Name:      input.Name,
		Email:     input.Email,
		BirthDate: input.BirthDate,
		Biography: input.Biography,
	}

	if err := s.authorRepo.Create(ctx, author); err != nil {
		return nil, err
	}

	return author, nil
}

// UpdateAuthor updates an author
func (s *AuthorService) UpdateAuthor(ctx context.Context, id uint, input *UpdateAuthorInput) (*models.Author, error) {
	author, err := s.authorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFoundSvc
		}
		return nil, err
	}

	if input.Name != nil {
		author.Name = *input.Name
	}
	if input.Email != nil {
		author.Email = *input.Email
	}
	if input.BirthDate != nil {
		author.BirthDate = input.BirthDate
	}
	if input.Biography != nil {
		author.Biography = *input.Biography
	}

	if err := s.authorRepo.Update(ctx, author); err != nil {
		return nil, err
	}

	return author, nil
}

// DeleteAuthor deletes an author
func (s *AuthorService) DeleteAuthor(ctx context.Context, id uint) error {
	exists, err := s.authorRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAuthorNotFoundSvc
	}

	return s.authorRepo.Delete(ctx, id)
}
