package services

import (
	"context"
	"sync"
	"time"

	"bookhive/internal/adapters/persistence/models"
	"bookhive/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// memDB is an in-memory stand-in for the database. The single mutex is
// held for the whole of a fake transaction, which models what the row
// locks give us in MySQL: racing borrowers are serialized.
type memDB struct {
	mu      sync.Mutex
	users   map[uint]models.User
	books   map[uint]models.Book
	records map[uint]models.BorrowRecord
	nextID  uint
}

func newMemDB() *memDB {
	return &memDB{
		users:   make(map[uint]models.User),
		books:   make(map[uint]models.Book),
		records: make(map[uint]models.BorrowRecord),
		nextID:  1000,
	}
}

func (db *memDB) putUser(u models.User) { db.users[u.ID] = u }
func (db *memDB) putBook(b models.Book) { db.books[b.ID] = b }

func (db *memDB) getBook(id uint) (*models.Book, error) {
	b, ok := db.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := b
	return &cp, nil
}

func (db *memDB) getRecord(id uint) (*models.BorrowRecord, error) {
	r, ok := db.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := r
	return &cp, nil
}

// ---------------------------------------------------------------
// Repositories used outside transactions (lock per call)
// ---------------------------------------------------------------

type fakeUserRepo struct{ db *memDB }

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if user.ID == 0 {
		r.db.nextID++
		user.ID = r.db.nextID
	}
	r.db.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		cp := u
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

type fakeBookRepo struct {
	db       *memDB
	getByIDN int // reads served by the "database", cache hits bypass this
}

func (r *fakeBookRepo) Create(ctx context.Context, book *models.Book) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if book.ID == 0 {
		r.db.nextID++
		book.ID = r.db.nextID
	}
	r.db.books[book.ID] = *book
	return nil
}

func (r *fakeBookRepo) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.getByIDN++
	return r.db.getBook(id)
}

func (r *fakeBookRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Book, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeBookRepo) GetByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.books {
		if b.ISBN == isbn {
			cp := b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBookRepo) Update(ctx context.Context, book *models.Book) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.books[book.ID] = *book
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.books, id)
	return nil
}

func (r *fakeBookRepo) List(ctx context.Context, offset, limit int, sortBy string) ([]*models.Book, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.Book, 0, len(r.db.books))
	for _, b := range r.db.books {
		cp := b
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookRepo) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	_, err := r.GetByISBN(ctx, isbn)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

type fakeRecordRepo struct{ db *memDB }

func (r *fakeRecordRepo) Create(ctx context.Context, record *models.BorrowRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if record.ID == 0 {
		r.db.nextID++
		record.ID = r.db.nextID
	}
	r.db.records[record.ID] = *record
	return nil
}

func (r *fakeRecordRepo) GetByID(ctx context.Context, id uint) (*models.BorrowRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.getRecord(id)
}

func (r *fakeRecordRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.BorrowRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRecordRepo) Update(ctx context.Context, record *models.BorrowRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.records[record.ID] = *record
	return nil
}

func (r *fakeRecordRepo) List(ctx context.Context, offset, limit int) ([]*models.BorrowRecord, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.BorrowRecord, 0, len(r.db.records))
	for _, rec := range r.db.records {
		cp := rec
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRecordRepo) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.BorrowRecord, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.BorrowRecord, 0)
	for _, rec := range r.db.records {
		if rec.UserID == userID {
			cp := rec
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRecordRepo) ListOpenBorrowedBefore(ctx context.Context, cutoff time.Time) ([]*models.BorrowRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.BorrowRecord, 0)
	for _, rec := range r.db.records {
		if rec.IsOpen() && rec.BorrowDate.Before(cutoff) {
			cp := rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRecordRepo) CountOpenByBook(ctx context.Context, bookID uint) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, rec := range r.db.records {
		if rec.BookID == bookID && rec.IsOpen() {
			n++
		}
	}
	return n, nil
}

type fakeAuthorRepo struct{ ids map[uint]bool }

func (r *fakeAuthorRepo) Create(ctx context.Context, author *models.Author) error { return nil }
func (r *fakeAuthorRepo) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	if !r.ids[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Author{ID: id}, nil
}
func (r *fakeAuthorRepo) Update(ctx context.Context, author *models.Author) error { return nil }
func (r *fakeAuthorRepo) Delete(ctx context.Context, id uint) error               { return nil }
func (r *fakeAuthorRepo) List(ctx context.Context, offset, limit int) ([]*models.Author, int64, error) {
	return nil, 0, nil
}
func (r *fakeAuthorRepo) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return r.ids[id], nil
}

type fakePublisherRepo struct{ ids map[uint]bool }

func (r *fakePublisherRepo) Create(ctx context.Context, publisher *models.Publisher) error { return nil }
func (r *fakePublisherRepo) GetByID(ctx context.Context, id uint) (*models.Publisher, error) {
	if !r.ids[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Publisher{ID: id}, nil
}
func (r *fakePublisherRepo) Update(ctx context.Context, publisher *models.Publisher) error { return nil }
func (r *fakePublisherRepo) Delete(ctx context.Context, id uint) error                     { return nil }
func (r *fakePublisherRepo) List(ctx context.Context, offset, limit int) ([]*models.Publisher, int64, error) {
	return nil, 0, nil
}
func (r *fakePublisherRepo) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return r.ids[id], nil
}

// ---------------------------------------------------------------
// Fake transaction manager
// ---------------------------------------------------------------

// fakeTxManager holds the memDB mutex for the whole callback and rolls
// the maps back when the callback fails, so the service sees the same
// atomicity and serialization it would get from InnoDB. The error
// fields inject persistence failures mid-transaction.
type fakeTxManager struct {
	db              *memDB
	recordCreateErr error
	recordUpdateErr error
}

func (m *fakeTxManager) RunInTx(ctx context.Context, fn func(tx repositories.Tx) error) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	booksBefore := make(map[uint]models.Book, len(m.db.books))
	for k, v := range m.db.books {
		booksBefore[k] = v
	}
	recordsBefore := make(map[uint]models.BorrowRecord, len(m.db.records))
	for k, v := range m.db.records {
		recordsBefore[k] = v
	}

	if err := fn(&fakeTx{mgr: m}); err != nil {
		m.db.books = booksBefore
		m.db.records = recordsBefore
		return err
	}
	return nil
}

type fakeTx struct{ mgr *fakeTxManager }

func (t *fakeTx) Books() repositories.BookRepository {
	return &txBookRepo{db: t.mgr.db}
}

func (t *fakeTx) BorrowRecords() repositories.BorrowRecordRepository {
	return &txRecordRepo{db: t.mgr.db, createErr: t.mgr.recordCreateErr, updateErr: t.mgr.recordUpdateErr}
}

// txBookRepo runs with the memDB mutex already held by the manager
type txBookRepo struct{ db *memDB }

func (r *txBookRepo) Create(ctx context.Context, book *models.Book) error {
	if book.ID == 0 {
		r.db.nextID++
		book.ID = r.db.nextID
	}
	r.db.books[book.ID] = *book
	return nil
}

func (r *txBookRepo) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	return r.db.getBook(id)
}

func (r *txBookRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Book, error) {
	return r.db.getBook(id)
}

func (r *txBookRepo) GetByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *txBookRepo) Update(ctx context.Context, book *models.Book) error {
	r.db.books[book.ID] = *book
	return nil
}

func (r *txBookRepo) Delete(ctx context.Context, id uint) error {
	delete(r.db.books, id)
	return nil
}

func (r *txBookRepo) List(ctx context.Context, offset, limit int, sortBy string) ([]*models.Book, int64, error) {
	return nil, 0, nil
}

func (r *txBookRepo) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	return false, nil
}

type txRecordRepo struct {
	db        *memDB
	createErr error
	updateErr error
}

func (r *txRecordRepo) Create(ctx context.Context, record *models.BorrowRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	if record.ID == 0 {
		r.db.nextID++
		record.ID = r.db.nextID
	}
	r.db.records[record.ID] = *record
	return nil
}

func (r *txRecordRepo) GetByID(ctx context.Context, id uint) (*models.BorrowRecord, error) {
	return r.db.getRecord(id)
}

func (r *txRecordRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.BorrowRecord, error) {
	return r.db.getRecord(id)
}

func (r *txRecordRepo) Update(ctx context.Context, record *models.BorrowRecord) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.db.records[record.ID] = *record
	return nil
}

func (r *txRecordRepo) List(ctx context.Context, offset, limit int) ([]*models.BorrowRecord, int64, error) {
	return nil, 0, nil
}

func (r *txRecordRepo) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.BorrowRecord, int64, error) {
	return nil, 0, nil
}

func (r *txRecordRepo) ListOpenBorrowedBefore(ctx context.Context, cutoff time.Time) ([]*models.BorrowRecord, error) {
	return nil, nil
}

func (r *txRecordRepo) CountOpenByBook(ctx context.Context, bookID uint) (int64, error) {
	return 0, nil
}

// ---------------------------------------------------------------
// Fake cache
// ---------------------------------------------------------------

type fakeCache struct {
	mu        sync.Mutex
	entries   map[string][]byte
	puts      []string
	evictions []string
	failEvict bool
	evictErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (c *fakeCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.puts = append(c.puts, key)
	return nil
}

func (c *fakeCache) Evict(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictions = append(c.evictions, key)
	if c.failEvict {
		if c.evictErr != nil {
			return c.evictErr
		}
		return context.DeadlineExceeded
	}
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *fakeCache) evictCount(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, k := range c.evictions {
		if k == key {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------
// Fake refresh token store
// ---------------------------------------------------------------

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[uint]models.RefreshToken
	nextID uint
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[uint]models.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	token.ID = r.nextID
	r.tokens[token.ID] = *token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tok := range r.tokens {
		if tok.TokenHash == tokenHash {
			cp := tok
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) Revoke(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	tok.RevokedAt = &now
	r.tokens[id] = tok
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for id, tok := range r.tokens {
		if tok.TokenHash == tokenHash && tok.RevokedAt == nil {
			tok.RevokedAt = &now
			r.tokens[id] = tok
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for id, tok := range r.tokens {
		if tok.UserID == userID && tok.RevokedAt == nil {
			tok.RevokedAt = &now
			r.tokens[id] = tok
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, tok := range r.tokens {
		if time.Now().After(tok.ExpiresAt) {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) activeCount(userID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, tok := range r.tokens {
		if tok.UserID == userID && tok.RevokedAt == nil {
			n++
		}
	}
	return n
}
