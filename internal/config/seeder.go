package config

import (
	"log"

	"bookhive/internal/adapters/persistence/models"
	"bookhive/internal/core/domain"
	"bookhive/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := s.seedCatalog(); err != nil {
		log.Printf("⚠️ Catalog seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:  "admin",
		Email:     "admin@bookhive.local",
		Password:  hashedPassword,
		FirstName: "System",
		LastName:  "Admin",
		Role:      string(domain.RoleAdmin),
		IsActive:  true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}

// seedCatalog seeds sample authors, publishers and books
func (s *Seeder) seedCatalog() error {
	var count int64
	s.db.Model(&models.Book{}).Count(&count)
	if count > 0 {
		return nil // Catalog already seeded
	}

	author := &models.Author{
		Name:      "George Orwell",
		Email:     "orwell@classics.example",
		Biography: "English novelist and essayist.",
	}
	if err := s.db.Create(author).Error; err != nil {
		return err
	}

	publisher := &models.Publisher{
		Name:            "Secker & Warburg",
		Address:         "London",
		EstablishedYear: 1935,
	}
	if err := s.db.Create(publisher).Error; err != nil {
		return err
	}

	books := []*models.Book{
		{
			Title:       "Nineteen Eighty-Four",
			ISBN:        "978-0451524935",
			Description: "Dystopian social science fiction.",
			PageCount:   328,
			Price:       9.99,
			Status:      domain.BookStatusAvailable,
			AuthorID:    author.ID,
			PublisherID: publisher.ID,
		},
		{
			Title:       "Animal Farm",
			ISBN:        "978-0452284241",
			Description: "A satirical allegorical novella.",
			PageCount:   112,
			Price:       7.99,
			Status:      domain.BookStatusAvailable,
			AuthorID:    author.ID,
			PublisherID: publisher.ID,
		},
	}

	for _, book := range books {
		if err := s.db.Create(book).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d sample books", len(books))
	return nil
}
