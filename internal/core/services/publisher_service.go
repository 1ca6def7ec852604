package services

import (
	"context"
	"errors"

	"bookhive/internal/adapters/persistence/models"
	"bookhive/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Publisher service errors
var (
	ErrPublisherNotFoundSvc = errors.New("publisher not found")
)

// PublisherService handles publisher management business logic
type PublisherService struct {
	publisherRepo repositories.PublisherRepository
}

// NewPublisherService creates a new publisher service
func NewPublisherService(publisherRepo repositories.PublisherRepository) *PublisherService {
	return &PublisherService{publisherRepo: publisherRepo}
}

// CreatePublisherInput represents create publisher input
type CreatePublisherInput struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Address         string `json:"address,omitempty"`
	ContactEmail    string `json:"contact_email,omitempty" validate:"omitempty,email"`
	EstablishedYear int    `json:"established_year,omitempty"`
}

// UpdatePublisherInput represents update publisher input
type UpdatePublisherInput struct {
	Name            *string `json:"name"`
	Address         *string `json:"address"`
	ContactEmail    *string `json:"contact_email"`
	EstablishedYear *int    `json:"established_year"`
}

// ListPublishers lists publishers with pagination
func (s *PublisherService) ListPublishers(ctx context.Context, offset, limit int) ([]*models.Publisher, int64, error) {
	return s.publisherRepo.List(ctx, offset, limit)
}

// GetPublisherByID gets a publisher by ID
func (s *PublisherService) GetPublisherByID(ctx context.Context, id uint) (*models.Publisher, error) {
	publisher, err := s.publisherRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPublisherNotFoundSvc
		}
		return nil, err
	}
	return publisher, nil
}

// CreatePublisher creates a new publisher
func (s *PublisherService) CreatePublisher(ctx context.Context, input *CreatePublisherInput) (*models.Publisher, error) {
	publisher := &models.Publisher{
		Name:            input.Name,
		Address:         input.Address,
		ContactEmail:    input.ContactEmail,
		EstablishedYear: input.EstablishedYear,
	}

	if err := s.publisherRepo.Create(ctx, publisher); err != nil {
		return nil, err
	}

	return publisher, nil
}

// UpdatePublisher updates a publisher
func (s *PublisherService) UpdatePublisher(ctx context.Context, id uint, input *UpdatePublisherInput) (*models.Publisher, error) {
	publisher, err := s.publisherRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPublisherNotFoundSvc
		}
		return nil, err
	}

	if input.Name != nil {
		publisher.Name = *input.Name
	}
	if input.Address != nil {
		publisher.Address = *input.Address
	}
	if input.ContactEmail != nil {
		publisher.ContactEmail = *input.ContactEmail
	}
	if input.EstablishedYear != nil {
		publisher.EstablishedYear = *input.EstablishedYear
	}

	if err := s.publisherRepo.Update(ctx, publisher); err != nil {
		return nil, err
	}

	return publisher, nil
}

// DeletePublisher deletes a publisher
func (s *PublisherService) DeletePublisher(ctx context.Context, id uint) error {
	exists, err := s.publisherRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPublisherNotFoundSvc
	}

	return s.publisherRepo.Delete(ctx, id)
}
