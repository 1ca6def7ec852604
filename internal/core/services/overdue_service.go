package services

import (
	"context"
	"log"
	"time"

	"bookhive/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// LoanPeriodDays is the standard loan period; open records older than
// this are reported by the daily sweep.
const LoanPeriodDays = 14

// OverdueService runs a daily cron sweep over open borrow records and
// reports the overdue ones. It only reads; it never mutates records or
// book status (that stays with the borrow engine).
type OverdueService struct {
	recordRepo repositories.BorrowRecordRepository
	cron       *cron.Cron
}

// NewOverdueService creates a new overdue service
func NewOverdueService(recordRepo repositories.BorrowRecordRepository) *OverdueService {
	return &OverdueService{
		recordRepo: recordRepo,
		cron:       cron.New(),
	}
}

// Start schedules the daily overdue sweep (08:30)
func (s *OverdueService) Start() {
	s.cron.AddFunc("30 8 * * *", s.Sweep)
	s.cron.Start()
	log.Println("🚀 OverdueService started (daily sweep at 08:30)")
}

// Stop stops the cron scheduler
func (s *OverdueService) Stop() {
	s.cron.Stop()
	log.Println("🛑 OverdueService stopped")
}

// Sweep reports all open records past the loan period
func (s *OverdueService) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -LoanPeriodDays)
	records, err := s.recordRepo.ListOpenBorrowedBefore(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Overdue sweep query error: %v", err)
		return
	}

	for _, record := range records {
		days := int(time.Since(record.BorrowDate).Hours() / 24)
		log.Printf("📅 Overdue: record %d (book %d, user %d) borrowed %d days ago",
			record.ID, record.BookID, record.UserID, days)
	}

	if len(records) > 0 {
		log.Printf("📅 Overdue sweep found %d overdue records", len(records))
	}
}
