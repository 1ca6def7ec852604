package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookhive/internal/adapters/persistence/models"
	"bookhive/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type borrowFixture struct {
	db         *memDB
	cache      *fakeCache
	txm        *fakeTxManager
	recordRepo *fakeRecordRepo
	service    *BorrowService
}

func newBorrowFixture() *borrowFixture {
	db := newMemDB()
	db.putUser(models.User{ID: 1, Username: "alice", Email: "alice@example.com", IsActive: true})
	db.putUser(models.User{ID: 2, Username: "bob", Email: "bob@example.com", IsActive: true})
	db.putBook(models.Book{
		ID:          101,
		Title:       "Nineteen Eighty-Four",
		ISBN:        "978-0451524935",
		Status:      domain.BookStatusAvailable,
		AuthorID:    1,
		PublisherID: 1,
	})

	cache := newFakeCache()
	txm := &fakeTxManager{db: db}
	recordRepo := &fakeRecordRepo{db: db}
	service := NewBorrowService(
		txm,
		&fakeBookRepo{db: db},
		&fakeUserRepo{db: db},
		recordRepo,
		cache,
	)

	return &borrowFixture{db: db, cache: cache, txm: txm, recordRepo: recordRepo, service: service}
}

func TestBorrowBook_Success(t *testing.T) {
	f := newBorrowFixture()
	ctx := context.Background()

	record, err := f.service.BorrowBook(ctx, 1, 101)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, uint(1), record.UserID)
	assert.Equal(t, uint(101), record.BookID)
	assert.Equal(t, domain.BorrowStatusBorrowed, record.Status)
	assert.Nil(t, record.ReturnDate)
	assert.False(t, record.BorrowDate.IsZero())

	book, err := f.db.getBook(101)
	require.NoError(t, err)
	assert.Equal(t, domain.BookStatusBorrowed, book.Status)
}

func TestBorrowBook_BookNotFound(t *testing.T) {
	f := newBorrowFixture()

	record, err := f.service.BorrowBook(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.Nil(t, record)
}

func TestBorrowBook_UserNotFound(t *testing.T) {
	f := newBorrowFixture()

	record, err := f.service.BorrowBook(context.Background(), 999, 101)
	assert.ErrorIs(t, err, ErrUserNotFoundSvc)
	assert.Nil(t, record)

	// A failed precondition must not flip the book
	book, err := f.db.getBook(101)
	require.NoError(t, err)
	assert.Equal(t, domain.BookStatusAvailable, book.Status)
}

func TestBorrowBook_BookUnavailable(t *testing.T) {
	f := newBorrowFixture()
	ctx := context.Background()

	_, err := f.service.BorrowBook(ctx, 1, 101)
	require.NoError(t, err)

	record, err := f.service.BorrowBook(ctx, 2, 101)
	assert.ErrorIs(t, err, ErrBookUnavailable)
	assert.Nil(t, record)

	// Only the winner's record exists
	records, total, err := f.service.ListRecords(ctx, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, uint(1), records[0].UserID)
}

func TestBorrowBook_ConcurrentBorrowersOneWins(t *testing.T) {
	f := newBorrowFixture()
	ctx := context.Background()

	const borrowers = 16
	for i := 3; i < 3+borrowers; i++ {
		f.db.putUser(models.User{ID: uint(i), IsActive: true})
	}

	var wg sync.WaitGroup
	results := make(chan error, borrowers)
	for i := 0; i < borrowers; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := f.service.BorrowBook(ctx, userID, 101)
			results <- err
		}(uint(3 + i))
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		switch err {
		case nil:
			successes++
		case ErrBookUnavailable:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, borrowers-1, conflicts)

	// Exactly one open record for the book
	open, err := f.recordRepo.CountOpenByBook(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)
}

func TestBorrowBook_EvictsCacheAfterCommit(t *testing.T) {
	f := newBorrowFixture()
	ctx := context.Background()

	key := bookCacheKey(101)
	require.NoError(t, f.cache.Put(ctx, key, []byte(`{"id":101}`), time.Minute))

	_, err := f.service.BorrowBook(ctx, 1, 101)
	require.NoError(t, err)

	assert.False(t, f.cache.has(key))
	assert.Equal(t, 1, f.cache.evictCount(key))
}

func TestBorrowBook_FailedBorrowDoesNotEvict(t *testing.T) {
	f := newBorrowFixture()
	ctx := context.Background()

	key := bookCacheKey(101)
	require.NoError(t, f.cache.Put(ctx, key, []byte(`{"id":101}`), time.Minute))

	_, err := f.service.BorrowBook(ctx, 999, 101)
	assert.ErrorIs(t, err, ErrUserNotFoundSvc)

	assert.True(t, f.cache.has(key))
	assert.Equal(t, 0, f.cache.evictCount(key))
}

func TestBorrowBook_EvictionFailureTolerated(t *testing.T) {
	f := newBorrowFixture()
	f.cache.failEvict = true
	ctx := context.Background()

	record, err := f.service.BorrowBook(ctx, 1, 101)
	require.NoError(t, err)
	require.NotNil(t, record)

	// The borrow committed even though the eviction failed
	book, err := f.db.getBook(101)
	require.NoError(t, err)
	assert.Equal(t, domain.BookStatusBorrowed, book.Status)
	assert.Equal(t, 1, f.cache.evictCount(bookCacheKey(101)))
}

func TestBorrowBook_PersistenceFailureRollsBackAndDoesNotEvict(t *testing.T) {
	f := newBorrowFixture()
	ctx := context.Background()

	key := bookCacheKey(101)
	require.NoError(t, f.cache.Put(ctx, key, []byte(`{"id":101}`), time.Minute))

	// The record insert fails after the book row was already flipped
	// inside the transaction: everything must roll back together.
	insertErr := errors.New("insert failed")
	f.txm.recordCreateErr = insertErr

	record, err := f.service.BorrowBook(ctx, 1, 101)
	assert.ErrorIs(t, err, insertErr)
	assert.Nil(t, record)

	book, err := f.db.getBook(101)
	require.NoError(t, err)
	assert.Equal(t, domain.BookStatusAvailable, book.Status)

	open, err := f.recordRepo.CountOpenByBook(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(0), open)

	// No commit, no eviction: the cached snapshot is untouched
	assert.True(t, f.cache.has(key))
	assert.Equal(t, 0, f.cache.evictCount(key))
}

func TestReturnBook_PersistenceFailureRollsBackAndDoesNotEvict(t *testing.T) {
	f := newBorrowFixture()
	ctx := context.Background()

	record, err := f.service.BorrowBook(ctx, 1, 101)
	require.NoError(t, err)
	require.Equal(t, 1, f.cache.evictCount(bookCacheKey(101)))

	updateErr := errors.New("update failed")
	f.txm.recordUpdateErr = updateErr

	returned, err := f.service.ReturnBook(ctx, record.ID)
	assert.ErrorIs(t, err, updateErr)
	assert.Nil(t, returned)

	// The book flip inside the transaction was rolled back too
	book, err := f.db.getBook(101)
	require.NoError(t, err)
	assert.Equal(t, domain.BookStatusBorrowed, book.Status)

	stored, err := f.db.getRecord(record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BorrowStatusBorrowed, stored.Status)
	assert.Nil(t, stored.ReturnDate)

	// Only the borrow's eviction happened, none for the failed return
	assert.Equal(t, 1, f.cache.evictCount(bookCacheKey(101)))

	// The record is still returnable once the store recovers
	f.txm.recordUpdateErr = nil
	returned, err = f.service.ReturnBook(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BorrowStatusReturned, returned.Status)
}

func TestReturnBook_Success(t *testing.T) {
	f := newBorrowFixture()
	ctx := context.Background()

	record, err := f.service.BorrowBook(ctx, 1, 101)
	require.NoError(t, err)

	returned, err := f.service.ReturnBook(ctx, record.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.BorrowStatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.False(t, returned.ReturnDate.Before(returned.BorrowDate))

	book, err := f.db.getBook(101)
	require.NoError(t, err)
	assert.Equal(t, domain.BookStatusAvailable, book.Status)
}

func TestReturnBook_RecordNotFound(t *testing.T) {
	f := newBorrowFixture()

	returned, err := f.service.ReturnBook(context.Background(), 999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.Nil(t, returned)
}

func TestReturnBook_AlreadyReturned(t *testing.T) {
	f := newBorrowFixture()
	ctx := context.Background()

	record, err := f.service.BorrowBook(ctx, 1, 101)
	require.NoError(t, err)

	_, err = f.service.ReturnBook(ctx, record.ID)
	require.NoError(t, err)

	// Second return of the same record is rejected, not a no-op
	returned, err := f.service.ReturnBook(ctx, record.ID)
	assert.ErrorIs(t, err, ErrRecordAlreadyReturned)
	assert.Nil(t, returned)

	// The book stays available
	book, err := f.db.getBook(101)
	require.NoError(t, err)
	assert.Equal(t, domain.BookStatusAvailable, book.Status)
}

func TestReturnBook_EvictsCacheAfterCommit(t *testing.T) {
	f := newBorrowFixture()
	ctx := context.Background()

	record, err := f.service.BorrowBook(ctx, 1, 101)
	require.NoError(t, err)

	key := bookCacheKey(101)
	require.NoError(t, f.cache.Put(ctx, key, []byte(`{"id":101,"status":"BORROWED"}`), time.Minute))

	_, err = f.service.ReturnBook(ctx, record.ID)
	require.NoError(t, err)

	assert.False(t, f.cache.has(key))
}

func TestBorrowReturn_RoundTrip(t *testing.T) {
	f := newBorrowFixture()
	ctx := context.Background()

	first, err := f.service.BorrowBook(ctx, 1, 101)
	require.NoError(t, err)

	_, err = f.service.ReturnBook(ctx, first.ID)
	require.NoError(t, err)

	// The same book is borrowable again, by another user
	second, err := f.service.BorrowBook(ctx, 2, 101)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, uint(2), second.UserID)

	// History keeps both records
	_, total, err := f.service.ListRecords(ctx, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// Per-user history
	aliceRecords, aliceTotal, err := f.service.ListUserRecords(ctx, 1, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), aliceTotal)
	assert.Equal(t, first.ID, aliceRecords[0].ID)
}

func TestGetRecord(t *testing.T) {
	f := newBorrowFixture()
	ctx := context.Background()

	record, err := f.service.BorrowBook(ctx, 1, 101)
	require.NoError(t, err)

	got, err := f.service.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	_, err = f.service.GetRecord(ctx, 12345)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
