package routes

import (
	"time"

	"bookhive/internal/adapters/cache"
	"bookhive/internal/adapters/http/handlers"
	"bookhive/internal/adapters/http/middleware"
	"bookhive/internal/adapters/persistence/repositories"
	"bookhive/internal/config"
	"bookhive/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and registers all routes
func Setup(app *fiber.App, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	authorRepo := repositories.NewAuthorRepository(db)
	publisherRepo := repositories.NewPublisherRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	recordRepo := repositories.NewBorrowRecordRepository(db)
	txManager := repositories.NewTxManager(db)

	// Cache
	bookCache := cache.NewRedisCache(redisClient)

	// Services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	authorService := services.NewAuthorService(authorRepo)
	publisherService := services.NewPublisherService(publisherRepo)
	bookService := services.NewBookService(bookRepo, authorRepo, publisherRepo, bookCache)
	borrowService := services.NewBorrowService(txManager, bookRepo, userRepo, recordRepo, bookCache)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db, redisClient)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	authorHandler := handlers.NewAuthorHandler(authorService)
	publisherHandler := handlers.NewPublisherHandler(publisherService)
	bookHandler := handlers.NewBookHandler(bookService)
	borrowHandler := handlers.NewBorrowHandler(borrowService)

	// Health check
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	// Auth routes (stricter rate limit on credential endpoints)
	auth := api.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Public catalog reads (short browser cache on listings)
	books := api.Group("/books")
	books.Get("/", middleware.CacheControl(30*time.Second), bookHandler.ListBooks)
	books.Get("/isbn/:isbn", middleware.CacheControl(30*time.Second), bookHandler.GetBookByISBN)
	books.Get("/:id", middleware.CacheControl(30*time.Second), bookHandler.GetBook)

	authors := api.Group("/authors")
	authors.Get("/", middleware.CacheControl(60*time.Second), authorHandler.ListAuthors)
	authors.Get("/:id", middleware.CacheControl(60*time.Second), authorHandler.GetAuthor)

	publishers := api.Group("/publishers")
	publishers.Get("/", middleware.CacheControl(60*time.Second), publisherHandler.ListPublishers)
	publishers.Get("/:id", middleware.CacheControl(60*time.Second), publisherHandler.GetPublisher)

	// Catalog mutations (librarian or admin)
	books.Post("/", middleware.AuthMiddleware(cfg), middleware.LibrarianOrAdmin(), bookHandler.CreateBook)
	books.Put("/:id", middleware.AuthMiddleware(cfg), middleware.LibrarianOrAdmin(), bookHandler.UpdateBook)
	books.Delete("/:id", middleware.AuthMiddleware(cfg), middleware.LibrarianOrAdmin(), bookHandler.DeleteBook)

	authors.Post("/", middleware.AuthMiddleware(cfg), middleware.LibrarianOrAdmin(), authorHandler.CreateAuthor)
	authors.Put("/:id", middleware.AuthMiddleware(cfg), middleware.LibrarianOrAdmin(), authorHandler.UpdateAuthor)
	authors.Delete("/:id", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), authorHandler.DeleteAuthor)

	publishers.Post("/", middleware.AuthMiddleware(cfg), middleware.LibrarianOrAdmin(), publisherHandler.CreatePublisher)
	publishers.Put("/:id", middleware.AuthMiddleware(cfg), middleware.LibrarianOrAdmin(), publisherHandler.UpdatePublisher)
	publishers.Delete("/:id", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), publisherHandler.DeletePublisher)

	// Borrow/return (authenticated, never cached)
	borrow := api.Group("/borrow", middleware.AuthMiddleware(cfg), middleware.NoCacheHeaders())
	borrow.Get("/records", middleware.LibrarianOrAdmin(), borrowHandler.ListRecords)
	borrow.Get("/records/:recordId", borrowHandler.GetRecord)
	borrow.Get("/users/:userId/records", borrowHandler.ListUserRecords)
	borrow.Post("/return/:recordId", borrowHandler.ReturnBook)
	borrow.Post("/:userId/:bookId", borrowHandler.BorrowBook)

	// Profile routes (authenticated)
	profile := api.Group("/profile", middleware.AuthMiddleware(cfg))
	profile.Get("/", userHandler.GetProfile)
	profile.Put("/", userHandler.UpdateProfile)
	profile.Put("/password", userHandler.ChangePassword)

	// User management (admin only)
	users := api.Group("/users", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	users.Get("/", userHandler.ListUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)
}
