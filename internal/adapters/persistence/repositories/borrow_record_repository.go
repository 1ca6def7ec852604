package repositories

import (
	"context"
	"time"

	"bookhive/internal/adapters/persistence/models"
	"bookhive/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// borrowRecordRepository implements BorrowRecordRepository interface
type borrowRecordRepository struct {
	db *gorm.DB
}

// NewBorrowRecordRepository creates a new borrow record repository
func NewBorrowRecordRepository(db *gorm.DB) BorrowRecordRepository {
	return &borrowRecordRepository{db: db}
}

// Create creates a new borrow record
func (r *borrowRecordRepository) Create(ctx context.Context, record *models.BorrowRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID gets a borrow record by ID
func (r *borrowRecordRepository) GetByID(ctx context.Context, id uint) (*models.BorrowRecord, error) {
	var record models.BorrowRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByIDForUpdate gets a borrow record by ID with a row-level write lock
func (r *borrowRecordRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.BorrowRecord, error) {
	var record models.BorrowRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Update updates a borrow record
func (r *borrowRecordRepository) Update(ctx context.Context, record *models.BorrowRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// List lists borrow records with pagination, newest first
func (r *borrowRecordRepository) List(ctx context.Context, offset, limit int) ([]*models.BorrowRecord, int64, error) {
	var records []*models.BorrowRecord
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.BorrowRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("borrow_date DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListByUser lists borrow records of one user with pagination
func (r *borrowRecordRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.BorrowRecord, int64, error) {
	var records []*models.BorrowRecord
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.BorrowRecord{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("borrow_date DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListOpenBorrowedBefore lists open records borrowed before the cutoff (overdue sweep)
func (r *borrowRecordRepository) ListOpenBorrowedBefore(ctx context.Context, cutoff time.Time) ([]*models.BorrowRecord, error) {
	var records []*models.BorrowRecord
	err := r.db.WithContext(ctx).
		Where("status = ? AND borrow_date < ?", domain.BorrowStatusBorrowed, cutoff).
		Order("borrow_date").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountOpenByBook counts open borrow records for a book
func (r *borrowRecordRepository) CountOpenByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BorrowRecord{}).
		Where("book_id = ? AND status = ?", bookID, domain.BorrowStatusBorrowed).
		Count(&count).Error
	return count, err
}
