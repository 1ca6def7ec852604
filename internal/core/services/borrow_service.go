package services

import (
	"context"
	"errors"
	"log"
	"time"

	"bookhive/internal/adapters/persistence/models"
	"bookhive/internal/adapters/persistence/repositories"
	"bookhive/internal/core/domain"

	"gorm.io/gorm"
)

// Borrow service errors
var (
	ErrBookUnavailable       = errors.New("book is not available")
	ErrRecordNotFound        = errors.New("borrow record not found")
	ErrRecordAlreadyReturned = errors.New("borrow record already returned")
)

// BorrowService owns the book-availability state machine and the borrow
// record lifecycle. A book's status and its open record always change
// together inside one database transaction; the book row lock is the
// serialization point for racing borrowers. Every committed status
// change evicts the book's cache entry afterwards, never before.
type BorrowService struct {
	txm        repositories.TxManager
	bookRepo   repositories.BookRepository
	userRepo   repositories.UserRepository
	recordRepo repositories.BorrowRecordRepository
	cache      CacheStore
}

// NewBorrowService creates a new borrow service
func NewBorrowService(
	txm repositories.TxManager,
	bookRepo repositories.BookRepository,
	userRepo repositories.UserRepository,
	recordRepo repositories.BorrowRecordRepository,
	cache CacheStore,
) *BorrowService {
	return &BorrowService{
		txm:        txm,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		recordRepo: recordRepo,
		cache:      cache,
	}
}

// BorrowBook creates a borrow record for the user and marks the book
// BORROWED, atomically. Precondition order: book exists, book available,
// user exists. The availability check is repeated under the row lock so
// that of N concurrent borrowers exactly one wins.
func (s *BorrowService) BorrowBook(ctx context.Context, userID, bookID uint) (*models.BorrowRecord, error) {
	// Fast-fail prechecks before opening a transaction
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if book.Status != domain.BookStatusAvailable {
		return nil, ErrBookUnavailable
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}

	var record *models.BorrowRecord
	err = s.txm.RunInTx(ctx, func(tx repositories.Tx) error {
		locked, err := tx.Books().GetByIDForUpdate(ctx, bookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		// Revalidate under the lock: a racing borrower may have won
		// between the precheck and here.
		if locked.Status != domain.BookStatusAvailable {
			return ErrBookUnavailable
		}

		locked.Status = domain.BookStatusBorrowed
		if err := tx.Books().Update(ctx, locked); err != nil {
			return err
		}

		record = &models.BorrowRecord{
			UserID:     userID,
			BookID:     bookID,
			BorrowDate: time.Now(),
			Status:     domain.BorrowStatusBorrowed,
		}
		return tx.BorrowRecords().Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Book borrowed [book: %d, user: %d, record: %d]", bookID, userID, record.ID)

	s.evictBook(ctx, bookID)
	return record, nil
}

// ReturnBook closes a borrow record and marks the book AVAILABLE,
// atomically. Returning an already-returned record is rejected, not a
// no-op.
func (s *BorrowService) ReturnBook(ctx context.Context, recordID uint) (*models.BorrowRecord, error) {
	record, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if record.Status == domain.BorrowStatusReturned {
		return nil, ErrRecordAlreadyReturned
	}

	var returned *models.BorrowRecord
	err = s.txm.RunInTx(ctx, func(tx repositories.Tx) error {
		rec, err := tx.BorrowRecords().GetByIDForUpdate(ctx, recordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}

		if rec.Status == domain.BorrowStatusReturned {
			return ErrRecordAlreadyReturned
		}

		book, err := tx.Books().GetByIDForUpdate(ctx, rec.BookID)
		if err != nil {
			return err
		}

		now := time.Now()
		rec.ReturnDate = &now
		rec.Status = domain.BorrowStatusReturned

		book.Status = domain.BookStatusAvailable
		if err := tx.Books().Update(ctx, book); err != nil {
			return err
		}
		if err := tx.BorrowRecords().Update(ctx, rec); err != nil {
			return err
		}

		returned = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Book returned [book: %d, record: %d]", returned.BookID, returned.ID)

	s.evictBook(ctx, returned.BookID)
	return returned, nil
}

// GetRecord gets a borrow record by ID
func (s *BorrowService) GetRecord(ctx context.Context, recordID uint) (*models.BorrowRecord, error) {
	record, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

// ListRecords lists all borrow records with pagination
func (s *BorrowService) ListRecords(ctx context.Context, offset, limit int) ([]*models.BorrowRecord, int64, error) {
	return s.recordRepo.List(ctx, offset, limit)
}

// ListUserRecords lists borrow records of one user with pagination
func (s *BorrowService) ListUserRecords(ctx context.Context, userID uint, offset, limit int) ([]*models.BorrowRecord, int64, error) {
	return s.recordRepo.ListByUser(ctx, userID, offset, limit)
}

// evictBook drops the cached book snapshot after a committed status
// change. A failed eviction is tolerated: the entry may serve one stale
// read until its TTL expires, the database remains authoritative.
func (s *BorrowService) evictBook(ctx context.Context, bookID uint) {
	if err := s.cache.Evict(ctx, bookCacheKey(bookID)); err != nil {
		log.Printf("⚠️ Failed to evict cache for book %d: %v (stale until TTL)", bookID, err)
	}
}
