package workers

import (
	"context"
	"time"

	"cardkey_backend/internal/email"
	"cardkey_backend/internal/logger"
	"cardkey_backend/internal/models"
	"cardkey_backend/internal/repositories"

	"gorm.io/gorm"
)

// ExpiryWorker reconciles card status with expire_at. Cards are also
// checked lazily at activation and redemption time; the sweep exists so
// listings and notifications do not wait for the next device call.
type ExpiryWorker struct {
	db           *gorm.DB
	cardRepo     repositories.CardKeyRepository
	userRepo     repositories.UserRepository
	rechargeRepo repositories.RechargeCardRepository
	mailer       email.Provider
	interval     time.Duration
}

func NewExpiryWorker(
	db *gorm.DB,
	cardRepo repositories.CardKeyRepository,
	userRepo repositories.UserRepository,
	rechargeRepo repositories.RechargeCardRepository,
	mailer email.Provider,
	sweepMinutes int,
) *ExpiryWorker {
	if sweepMinutes <= 0 {
		sweepMinutes = 60
	}
	return &ExpiryWorker{
		db:           db,
		cardRepo:     cardRepo,
		userRepo:     userRepo,
		rechargeRepo: rechargeRepo,
		mailer:       mailer,
		interval:     time.Duration(sweepMinutes) * time.Minute,
	}
}

func (w *ExpiryWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ExpiryWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("expiry worker stopped")
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep flips every overdue used card to expired and notifies owners,
// then retires overdue recharge codes. Exported so tests and admin
// tooling can trigger a pass directly.
func (w *ExpiryWorker) Sweep() {
	w.sweepCards()
	w.sweepRechargeCards()
}

func (w *ExpiryWorker) sweepCards() {
	cards, err := w.cardRepo.FindUsedExpiredBefore(w.db, time.Now())
	logger.WorkerLog("expiry", "find overdue cards", err)
	if err != nil {
		return
	}
	if len(cards) == 0 {
		return
	}

	expiredByOwner := make(map[string][]string)
	for i := range cards {
		card := &cards[i]
		if err := w.cardRepo.UpdateStatus(w.db, card.ID, models.CardStatusExpired); err != nil {
			logger.WorkerLog("expiry", "mark card expired", err)
			continue
		}
		if card.UserID != nil {
			expiredByOwner[*card.UserID] = append(expiredByOwner[*card.UserID], card.Code)
		}
	}
	logger.Info("expiry sweep finished", "expired", len(cards))

	// Notification failures never block the sweep.
	for ownerID, codes := range expiredByOwner {
		owner, err := w.userRepo.FindByID(w.db, ownerID)
		if err != nil {
			continue
		}
		go func(to string, codes []string) {
			if err := w.mailer.SendCardsExpired(to, codes); err != nil {
				logger.Warn("failed to send expiry notification", "to", to, "error", err.Error())
			}
		}(owner.Email, codes)
	}
}

// sweepRechargeCards retires unredeemed codes whose expiry has passed.
// No owner exists yet, so there is nothing to notify.
func (w *ExpiryWorker) sweepRechargeCards() {
	cards, err := w.rechargeRepo.FindUnusedExpiredBefore(w.db, time.Now())
	logger.WorkerLog("expiry", "find overdue recharge codes", err)
	if err != nil || len(cards) == 0 {
		return
	}

	for i := range cards {
		if err := w.rechargeRepo.UpdateStatus(w.db, cards[i].ID, models.RechargeCardStatusExpired); err != nil {
			logger.WorkerLog("expiry", "mark recharge code expired", err)
		}
	}
	logger.Info("recharge code sweep finished", "expired", len(cards))
}
