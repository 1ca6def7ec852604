package repositories

import (
	"context"

	"bookhive/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// publisherRepository implements PublisherRepository interface
type publisherRepository struct {
	db *gorm.DB
}

// NewPublisherRepository creates a new publisher repository
func NewPublisherRepository(db *gorm.DB) PublisherRepository {
	return &publisherRepository{db: db}
}

// Create creates a new publisher
func (r *publisherRepository) Create(ctx context.Context, publisher *models.Publisher) error {
	return r.db.WithContext(ctx).Create(publisher).Error
}

// GetByID gets a publisher by ID
func (r *publisherRepository) GetByID(ctx context.Context, id uint) (*models.Publisher, error) {
	var publisher models.Publisher
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&publisher).Error
	if err != nil {
		return nil, err
	}
	return &publisher, nil
}

// Update updates a publisher
func (r *publisherRepository) Update(ctx context.Context, publisher *models.Publisher) error {
	return r.db.WithContext(ctx).Save(publisher).Error
}

// Delete soft deletes a publisher
func (r *publisherRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Publisher{}, id).Error
}

// List lists publishers with pagination
func (r *publisherRepository) List(ctx context.Context, offset, limit int) ([]*models.Publisher, int64, error) {
	var publishers []*models.Publisher
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Publisher{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Order("name").Offset(offset).Limit(limit).Find(&publishers).Error; err != nil {
		return nil, 0, err
	}

	return publishers, total, nil
}

// ExistsByID checks if a publisher exists
func (r *publisherRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Publisher{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
