package domain

// Role represents user role in the system
type Role string

const (
	RoleUser      Role = "USER"
	RoleLibrarian Role = "LIBRARIAN"
	RoleAdmin     Role = "ADMIN"
)

// BookStatus represents the availability of a book.
// A book is BORROWED if and only if exactly one open borrow record
// references it; AVAILABLE otherwise. The status is only ever changed
// in the same transaction as the borrow record transition.
type BookStatus string

const (
	BookStatusAvailable BookStatus = "AVAILABLE"
	BookStatusBorrowed  BookStatus = "BORROWED"
)

// BorrowStatus represents the lifecycle state of a borrow record.
// A record is created as BORROWED and transitions once, irreversibly,
// to RETURNED.
type BorrowStatus string

const (
	BorrowStatusBorrowed BorrowStatus = "BORROWED"
	BorrowStatusReturned BorrowStatus = "RETURNED"
)
