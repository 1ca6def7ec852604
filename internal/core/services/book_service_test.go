package services

import (
	"context"
	"testing"
	"time"

	"bookhive/internal/adapters/persistence/models"
	"bookhive/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookFixture struct {
	db       *memDB
	bookRepo *fakeBookRepo
	cache    *fakeCache
	service  *BookService
}

func newBookFixture() *bookFixture {
	db := newMemDB()
	db.putBook(models.Book{
		ID:          101,
		Title:       "Animal Farm",
		ISBN:        "978-0452284241",
		Price:       7.99,
		Status:      domain.BookStatusAvailable,
		AuthorID:    1,
		PublisherID: 1,
	})

	bookRepo := &fakeBookRepo{db: db}
	cache := newFakeCache()
	service := NewBookService(
		bookRepo,
		&fakeAuthorRepo{ids: map[uint]bool{1: true}},
		&fakePublisherRepo{ids: map[uint]bool{1: true}},
		cache,
	)

	return &bookFixture{db: db, bookRepo: bookRepo, cache: cache, service: service}
}

func TestGetBookByID_CacheMissThenHit(t *testing.T) {
	f := newBookFixture()
	ctx := context.Background()

	// Miss: read from the database, then populate the cache
	book, err := f.service.GetBookByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "Animal Farm", book.Title)
	assert.Equal(t, 1, f.bookRepo.getByIDN)
	assert.True(t, f.cache.has(bookCacheKey(101)))

	// Hit: served from the cache, no database read
	again, err := f.service.GetBookByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, book.ID, again.ID)
	assert.Equal(t, book.Title, again.Title)
	assert.Equal(t, 1, f.bookRepo.getByIDN)
}

func TestGetBookByID_NotFoundIsNotCached(t *testing.T) {
	f := newBookFixture()
	ctx := context.Background()

	_, err := f.service.GetBookByID(ctx, 999)
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.False(t, f.cache.has(bookCacheKey(999)))

	// Every lookup of a missing book hits the database
	_, err = f.service.GetBookByID(ctx, 999)
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.Equal(t, 2, f.bookRepo.getByIDN)
}

func TestGetBookByID_CorruptCacheEntryFallsThrough(t *testing.T) {
	f := newBookFixture()
	ctx := context.Background()

	require.NoError(t, f.cache.Put(ctx, bookCacheKey(101), []byte("{not json"), time.Minute))

	book, err := f.service.GetBookByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "Animal Farm", book.Title)
	assert.Equal(t, 1, f.bookRepo.getByIDN)
}

func TestCreateBook(t *testing.T) {
	f := newBookFixture()
	ctx := context.Background()

	input := &CreateBookInput{
		Title:       "Homage to Catalonia",
		ISBN:        "978-0156421171",
		Price:       12.50,
		AuthorID:    1,
		PublisherID: 1,
	}

	book, err := f.service.CreateBook(ctx, input)
	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, domain.BookStatusAvailable, book.Status)
}

func TestCreateBook_DuplicateISBN(t *testing.T) {
	f := newBookFixture()

	input := &CreateBookInput{
		Title:       "Animal Farm (reprint)",
		ISBN:        "978-0452284241",
		AuthorID:    1,
		PublisherID: 1,
	}

	book, err := f.service.CreateBook(context.Background(), input)
	assert.ErrorIs(t, err, ErrISBNAlreadyExists)
	assert.Nil(t, book)
}

func TestCreateBook_UnknownAuthorOrPublisher(t *testing.T) {
	f := newBookFixture()
	ctx := context.Background()

	_, err := f.service.CreateBook(ctx, &CreateBookInput{
		Title: "X", ISBN: "978-1", AuthorID: 42, PublisherID: 1,
	})
	assert.ErrorIs(t, err, ErrAuthorNotFound)

	_, err = f.service.CreateBook(ctx, &CreateBookInput{
		Title: "X", ISBN: "978-1", AuthorID: 1, PublisherID: 42,
	})
	assert.ErrorIs(t, err, ErrPublisherNotFound)
}

func TestUpdateBook_EvictsCache(t *testing.T) {
	f := newBookFixture()
	ctx := context.Background()

	// Warm the cache
	_, err := f.service.GetBookByID(ctx, 101)
	require.NoError(t, err)
	require.True(t, f.cache.has(bookCacheKey(101)))

	newTitle := "Animal Farm: A Fairy Story"
	book, err := f.service.UpdateBook(ctx, 101, &UpdateBookInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, book.Title)

	// Eviction happened after the write; next read repopulates
	assert.False(t, f.cache.has(bookCacheKey(101)))

	fresh, err := f.service.GetBookByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, newTitle, fresh.Title)
}

func TestUpdateBook_NotFound(t *testing.T) {
	f := newBookFixture()

	title := "Nope"
	_, err := f.service.UpdateBook(context.Background(), 999, &UpdateBookInput{Title: &title})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteBook_EvictsCache(t *testing.T) {
	f := newBookFixture()
	ctx := context.Background()

	_, err := f.service.GetBookByID(ctx, 101)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteBook(ctx, 101))
	assert.False(t, f.cache.has(bookCacheKey(101)))

	_, err = f.service.GetBookByID(ctx, 101)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteBook_RejectedWhileBorrowed(t *testing.T) {
	f := newBookFixture()
	ctx := context.Background()

	f.db.mu.Lock()
	b := f.db.books[101]
	b.Status = domain.BookStatusBorrowed
	f.db.books[101] = b
	f.db.mu.Unlock()

	err := f.service.DeleteBook(ctx, 101)
	assert.ErrorIs(t, err, ErrBookBorrowed)

	// Still there
	_, err = f.db.getBook(101)
	assert.NoError(t, err)
}

func TestGetBookByISBN(t *testing.T) {
	f := newBookFixture()
	ctx := context.Background()

	book, err := f.service.GetBookByISBN(ctx, "978-0452284241")
	require.NoError(t, err)
	assert.Equal(t, uint(101), book.ID)

	_, err = f.service.GetBookByISBN(ctx, "978-0000000000")
	assert.ErrorIs(t, err, ErrBookNotFound)
}
