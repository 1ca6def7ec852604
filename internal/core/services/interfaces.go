package services

import (
	"context"
	"fmt"
	"time"
)

// Note: BorrowService implementation is in borrow_service.go
// Note: BookService implementation is in book_service.go

// CacheStore is the key/value cache kept coherent with the database.
// Get returns (nil, nil) on a miss. Implementations must not cache
// absent values; callers only Put values that were actually found.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Evict(ctx context.Context, key string) error
}

// bookCacheTTL bounds how long a stale book snapshot can be served
// if an eviction is lost (state authority stays in the database).
const bookCacheTTL = 60 * time.Minute

// bookCacheKey builds the cache key for a book snapshot
func bookCacheKey(bookID uint) string {
	return fmt.Sprintf("books:%d", bookID)
}
