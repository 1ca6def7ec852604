package repositories

import (
	"context"
	"time"

	"bookhive/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// AuthorRepository defines author repository interface
type AuthorRepository interface {
	Create(ctx context.Context, author *models.Author) error
	GetByID(ctx context.Context, id uint) (*models.Author, error)
	Update(ctx context.Context, author *models.Author) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Author, int64, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// PublisherRepository defines publisher repository interface
type PublisherRepository interface {
	Create(ctx context.Context, publisher *models.Publisher) error
	GetByID(ctx context.Context, id uint) (*models.Publisher, error)
	Update(ctx context.Context, publisher *models.Publisher) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Publisher, int64, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// BookRepository defines book repository interface.
// GetByIDForUpdate takes a row-level write lock (SELECT ... FOR UPDATE)
// and must be called inside a transaction when used to revalidate the
// book status before a borrow/return commit.
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int, sortBy string) ([]*models.Book, int64, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
}

// BorrowRecordRepository defines borrow record repository interface
type BorrowRecordRepository interface {
	Create(ctx context.Context, record *models.BorrowRecord) error
	GetByID(ctx context.Context, id uint) (*models.BorrowRecord, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.BorrowRecord, error)
	Update(ctx context.Context, record *models.BorrowRecord) error
	List(ctx context.Context, offset, limit int) ([]*models.BorrowRecord, int64, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.BorrowRecord, int64, error)
	ListOpenBorrowedBefore(ctx context.Context, cutoff time.Time) ([]*models.BorrowRecord, error)
	CountOpenByBook(ctx context.Context, bookID uint) (int64, error)
}
