package models

import (
	"time"

	"bookhive/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	FirstName string         `gorm:"size:100" json:"first_name"`
	LastName  string         `gorm:"size:100" json:"last_name"`
	Role      string         `gorm:"size:20;default:'USER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog Tables
// ============================================================

// Author represents authors table
type Author struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:100" json:"email"`
	BirthDate *time.Time     `json:"birth_date"`
	Biography string         `gorm:"size:500" json:"biography"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Author) TableName() string {
	return "authors"
}

// Publisher represents publishers table
type Publisher struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"size:100;not null" json:"name"`
	Address         string         `gorm:"size:255" json:"address"`
	ContactEmail    string         `gorm:"size:100" json:"contact_email"`
	EstablishedYear int            `json:"established_year"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Publisher) TableName() string {
	return "publishers"
}

// Book represents books table.
// Status is a projection of the open borrow record for this book and is
// only mutated inside the same transaction as the record transition.
type Book struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	Title           string            `gorm:"size:200;not null" json:"title"`
	ISBN            string            `gorm:"uniqueIndex;size:17;not null" json:"isbn"`
	Description     string            `gorm:"size:1000" json:"description"`
	PublicationDate *time.Time        `json:"publication_date"`
	PageCount       int               `json:"page_count"`
	Price           float64           `gorm:"type:decimal(10,2)" json:"price"`
	Status          domain.BookStatus `gorm:"size:20;not null;default:'AVAILABLE'" json:"status"`
	CoverImageURL   string            `gorm:"size:255" json:"cover_image_url"`
	AuthorID        uint              `gorm:"index;not null" json:"author_id"`
	PublisherID     uint              `gorm:"index;not null" json:"publisher_id"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
	Author          Author            `gorm:"foreignKey:AuthorID" json:"-"`
	Publisher       Publisher         `gorm:"foreignKey:PublisherID" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// BookResponse DTO (also the cached snapshot shape)
type BookResponse struct {
	ID              uint              `json:"id"`
	Title           string            `json:"title"`
	ISBN            string            `json:"isbn"`
	Description     string            `json:"description,omitempty"`
	PublicationDate *time.Time        `json:"publication_date,omitempty"`
	PageCount       int               `json:"page_count,omitempty"`
	Price           float64           `json:"price,omitempty"`
	Status          domain.BookStatus `json:"status"`
	CoverImageURL   string            `json:"cover_image_url,omitempty"`
	AuthorID        uint              `json:"author_id"`
	PublisherID     uint              `json:"publisher_id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (b *Book) ToResponse() *BookResponse {
	return &BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		Description:     b.Description,
		PublicationDate: b.PublicationDate,
		PageCount:       b.PageCount,
		Price:           b.Price,
		Status:          b.Status,
		CoverImageURL:   b.CoverImageURL,
		AuthorID:        b.AuthorID,
		PublisherID:     b.PublisherID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// ============================================================
// Borrow Tables
// ============================================================

// BorrowRecord represents borrow_records table.
// At most one record per book may be BORROWED at any time; the borrow
// engine enforces this through the book's status, not a DB constraint.
// Records are never deleted.
type BorrowRecord struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	UserID     uint                `gorm:"index;not null" json:"user_id"`
	BookID     uint                `gorm:"index;not null" json:"book_id"`
	BorrowDate time.Time           `gorm:"not null" json:"borrow_date"`
	ReturnDate *time.Time          `json:"return_date"`
	Status     domain.BorrowStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt  time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
	User       User                `gorm:"foreignKey:UserID" json:"-"`
	Book       Book                `gorm:"foreignKey:BookID" json:"-"`
}

func (BorrowRecord) TableName() string {
	return "borrow_records"
}

// IsOpen reports whether the record has not been returned yet
func (r *BorrowRecord) IsOpen() bool {
	return r.Status == domain.BorrowStatusBorrowed
}

// AutoMigrate migrates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Author{},
		&Publisher{},
		&Book{},
		&BorrowRecord{},
	)
}
