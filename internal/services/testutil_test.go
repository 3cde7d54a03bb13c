package services

import (
	"fmt"
	"testing"

	"cardkey_backend/internal/auth"
	"cardkey_backend/internal/database"
	"cardkey_backend/internal/email"
	"cardkey_backend/internal/keygen"
	"cardkey_backend/internal/models"
	"cardkey_backend/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires real repositories against an in-memory database so the
// service tests exercise the full settlement paths including
// transactions.
type testEnv struct {
	db *gorm.DB

	userRepo     repositories.UserRepository
	programRepo  repositories.ProgramRepository
	cardRepo     repositories.CardKeyRepository
	orderRepo    repositories.OrderRepository
	recordRepo   repositories.BalanceRecordRepository
	packageRepo  repositories.SubscriptionPackageRepository
	rechargeRepo repositories.RechargeCardRepository
	permRepo     repositories.AgentPermissionRepository

	pricing  PricingPolicy
	balance  BalanceService
	cards    CardService
	programs ProgramService
	recharge RechargeService
	packages PackageService
	users    UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// Every in-memory sqlite connection is its own database; keep the
	// pool at one connection so all queries see the migrated schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:           db,
		userRepo:     repositories.NewUserRepository(),
		programRepo:  repositories.NewProgramRepository(),
		cardRepo:     repositories.NewCardKeyRepository(),
		orderRepo:    repositories.NewOrderRepository(),
		recordRepo:   repositories.NewBalanceRecordRepository(),
		packageRepo:  repositories.NewSubscriptionPackageRepository(),
		rechargeRepo: repositories.NewRechargeCardRepository(),
		permRepo:     repositories.NewAgentPermissionRepository(),
	}

	env.pricing = NewPricingPolicy(env.packageRepo, env.permRepo)
	env.balance = NewBalanceService(env.userRepo, env.recordRepo)
	env.users = NewUserService(env.userRepo, &email.NoopSender{})
	env.programs = NewProgramService(env.programRepo, env.cardRepo, env.userRepo, env.permRepo, env.balance)
	env.cards = NewCardService(env.cardRepo, env.programRepo, env.userRepo, env.orderRepo, env.permRepo, env.pricing, env.balance, 1)
	env.recharge = NewRechargeService(env.rechargeRepo, env.userRepo, env.balance)
	env.packages = NewPackageService(env.packageRepo, env.userRepo)
	return env
}

var userSeq int

func (e *testEnv) seedUser(t *testing.T, role models.UserRole, balance float64) *models.UserProfile {
	t.Helper()

	userSeq++
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	user := &models.UserProfile{
		Username:     fmt.Sprintf("user%d", userSeq),
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		PasswordHash: hash,
		Role:         role,
		Balance:      balance,
	}
	require.NoError(t, e.userRepo.Create(e.db, user))
	return user
}

func (e *testEnv) seedProgram(t *testing.T, creatorID string, price float64) *models.Program {
	t.Helper()

	program := &models.Program{
		Name:        "Test Program",
		Price:       price,
		CostPrice:   price / 2,
		Status:      models.ProgramStatusActive,
		APIKey:      keygen.GenerateAPIKey(),
		MaxMachines: 2,
		CreatedBy:   creatorID,
	}
	require.NoError(t, e.programRepo.Create(e.db, program))
	return program
}

func (e *testEnv) seedCard(t *testing.T, card *models.CardKey) *models.CardKey {
	t.Helper()

	if card.Code == "" {
		card.Code = keygen.Generate()
	}
	if card.Status == "" {
		card.Status = models.CardStatusUnused
	}
	if card.MaxMachines == 0 {
		card.MaxMachines = 2
	}
	require.NoError(t, e.cardRepo.Create(e.db, card))
	return card
}

func (e *testEnv) grantPermission(t *testing.T, agentID, programID string, generate, view bool) {
	t.Helper()

	perm := &models.AgentPermission{
		AgentID:         agentID,
		ProgramID:       programID,
		CanGenerateKeys: generate,
		CanViewKeys:     view,
	}
	require.NoError(t, e.permRepo.Create(e.db, perm))
}

func (e *testEnv) userBalance(t *testing.T, userID string) float64 {
	t.Helper()

	user, err := e.userRepo.FindByID(e.db, userID)
	require.NoError(t, err)
	return user.Balance
}

func (e *testEnv) balanceRecords(t *testing.T, userID string) []models.BalanceRecord {
	t.Helper()

	records, _, err := e.recordRepo.FindByUser(e.db, userID, 100, 0)
	require.NoError(t, err)
	return records
}
