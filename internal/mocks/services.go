package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/service"
	"github.com/fintrack/fintrack-api/internal/store"
)

// MockUserService implements service.UserService with overridable functions.
// Unset functions fall back to not-found or zero values.
type MockUserService struct {
	RegisterFn       func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	GetFn            func(ctx context.Context, userID int64) (*domain.User, error)
	GetByEmailFn     func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn         func(ctx context.Context, userID int64, name, email, password string) (*domain.User, error)
	ChangePasswordFn func(ctx context.Context, userID int64, currentPassword, newPassword string) error
	SetActiveFn      func(ctx context.Context, userID int64, active bool) (*domain.User, error)
	SetRoleFn        func(ctx context.Context, userID int64, role domain.Role) (*domain.User, error)
	DeactivateFn     func(ctx context.Context, userID int64) error
	ListActiveFn     func(ctx context.Context) ([]*domain.User, error)
	ListByRoleFn     func(ctx context.Context, role domain.Role) ([]*domain.User, error)
	SearchByNameFn   func(ctx context.Context, name string) ([]*domain.User, error)
	CountActiveFn    func(ctx context.Context) (int64, error)
	EmailInUseFn     func(ctx context.Context, email string) (bool, error)
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, name, email, password, role)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserService) Update(ctx context.Context, userID int64, name, email, password string) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, userID, name, email, password)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if m.ChangePasswordFn != nil {
		return m.ChangePasswordFn(ctx, userID, currentPassword, newPassword)
	}
	return nil
}

func (m *MockUserService) SetActive(ctx context.Context, userID int64, active bool) (*domain.User, error) {
	if m.SetActiveFn != nil {
		return m.SetActiveFn(ctx, userID, active)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserService) SetRole(ctx context.Context, userID int64, role domain.Role) (*domain.User, error) {
	if m.SetRoleFn != nil {
		return m.SetRoleFn(ctx, userID, role)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserService) Deactivate(ctx context.Context, userID int64) error {
	if m.DeactivateFn != nil {
		return m.DeactivateFn(ctx, userID)
	}
	return nil
}

func (m *MockUserService) ListActive(ctx context.Context) ([]*domain.User, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	return nil, nil
}

func (m *MockUserService) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if m.ListByRoleFn != nil {
		return m.ListByRoleFn(ctx, role)
	}
	return nil, nil
}

func (m *MockUserService) SearchByName(ctx context.Context, name string) ([]*domain.User, error) {
	if m.SearchByNameFn != nil {
		return m.SearchByNameFn(ctx, name)
	}
	return nil, nil
}

func (m *MockUserService) CountActive(ctx context.Context) (int64, error) {
	if m.CountActiveFn != nil {
		return m.CountActiveFn(ctx)
	}
	return 0, nil
}

func (m *MockUserService) EmailInUse(ctx context.Context, email string) (bool, error) {
	if m.EmailInUseFn != nil {
		return m.EmailInUseFn(ctx, email)
	}
	return false, nil
}

// MockAccountService implements service.AccountService with overridable functions.
type MockAccountService struct {
	CreateFn                  func(ctx context.Context, ownerID int64, name string, accountType domain.AccountType, initialBalance decimal.Decimal, institution string) (*domain.Account, error)
	GetFn                     func(ctx context.Context, id, ownerID int64) (*domain.Account, error)
	ListFn                    func(ctx context.Context, ownerID int64) ([]*domain.Account, error)
	UpdateFn                  func(ctx context.Context, id, ownerID int64, name string, accountType domain.AccountType, initialBalance decimal.Decimal, institution string) (*domain.Account, error)
	DeleteFn                  func(ctx context.Context, id, ownerID int64) error
	ListByTypeFn              func(ctx context.Context, accountType domain.AccountType, ownerID int64) ([]*domain.Account, error)
	SearchByInstitutionFn     func(ctx context.Context, institution string, ownerID int64) ([]*domain.Account, error)
	SearchByNameFn            func(ctx context.Context, name string, ownerID int64) ([]*domain.Account, error)
	ListActiveFn              func(ctx context.Context, ownerID int64) ([]*domain.Account, error)
	ListWithoutTransactionsFn func(ctx context.Context, ownerID int64) ([]*domain.Account, error)
	CurrentBalanceFn          func(ctx context.Context, id, ownerID int64) (decimal.Decimal, error)
	TotalBalanceFn            func(ctx context.Context, ownerID int64) (decimal.Decimal, error)
	CountFn                   func(ctx context.Context, ownerID int64) (int64, error)
}

var _ service.AccountService = (*MockAccountService)(nil)

func (m *MockAccountService) Create(ctx context.Context, ownerID int64, name string, accountType domain.AccountType, initialBalance decimal.Decimal, institution string) (*domain.Account, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ownerID, name, accountType, initialBalance, institution)
	}
	return nil, store.ErrAccountNotFound
}

func (m *MockAccountService) Get(ctx context.Context, id, ownerID int64) (*domain.Account, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id, ownerID)
	}
	return nil, store.ErrAccountNotFound
}

func (m *MockAccountService) List(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockAccountService) Update(ctx context.Context, id, ownerID int64, name string, accountType domain.AccountType, initialBalance decimal.Decimal, institution string) (*domain.Account, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, ownerID, name, accountType, initialBalance, institution)
	}
	return nil, store.ErrAccountNotFound
}

func (m *MockAccountService) Delete(ctx context.Context, id, ownerID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, ownerID)
	}
	return nil
}

func (m *MockAccountService) ListByType(ctx context.Context, accountType domain.AccountType, ownerID int64) ([]*domain.Account, error) {
	if m.ListByTypeFn != nil {
		return m.ListByTypeFn(ctx, accountType, ownerID)
	}
	return nil, nil
}

func (m *MockAccountService) SearchByInstitution(ctx context.Context, institution string, ownerID int64) ([]*domain.Account, error) {
	if m.SearchByInstitutionFn != nil {
		return m.SearchByInstitutionFn(ctx, institution, ownerID)
	}
	return nil, nil
}

func (m *MockAccountService) SearchByName(ctx context.Context, name string, ownerID int64) ([]*domain.Account, error) {
	if m.SearchByNameFn != nil {
		return m.SearchByNameFn(ctx, name, ownerID)
	}
	return nil, nil
}

func (m *MockAccountService) ListActive(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockAccountService) ListWithoutTransactions(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	if m.ListWithoutTransactionsFn != nil {
		return m.ListWithoutTransactionsFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockAccountService) CurrentBalance(ctx context.Context, id, ownerID int64) (decimal.Decimal, error) {
	if m.CurrentBalanceFn != nil {
		return m.CurrentBalanceFn(ctx, id, ownerID)
	}
	return decimal.Zero, nil
}

func (m *MockAccountService) TotalBalance(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	if m.TotalBalanceFn != nil {
		return m.TotalBalanceFn(ctx, ownerID)
	}
	return decimal.Zero, nil
}

func (m *MockAccountService) Count(ctx context.Context, ownerID int64) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, ownerID)
	}
	return 0, nil
}

// MockCardService implements service.CardService with overridable functions.
type MockCardService struct {
	CreateFn           func(ctx context.Context, ownerID int64, name, brand string, totalLimit decimal.Decimal, closingDay, dueDay int) (*domain.Card, error)
	GetFn              func(ctx context.Context, id, ownerID int64) (*domain.Card, error)
	ListFn             func(ctx context.Context, ownerID int64) ([]*domain.Card, error)
	UpdateFn           func(ctx context.Context, id, ownerID int64, name, brand string, totalLimit decimal.Decimal, closingDay, dueDay int) (*domain.Card, error)
	DeleteFn           func(ctx context.Context, id, ownerID int64) error
	SearchByBrandFn    func(ctx context.Context, brand string, ownerID int64) ([]*domain.Card, error)
	SearchByNameFn     func(ctx context.Context, name string, ownerID int64) ([]*domain.Card, error)
	ListByClosingDayFn func(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error)
	ListByDueDayFn     func(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error)
	TotalLimitFn       func(ctx context.Context, ownerID int64) (decimal.Decimal, error)
	UtilizedLimitFn    func(ctx context.Context, id, ownerID int64) (decimal.Decimal, error)
	AvailableLimitFn   func(ctx context.Context, id, ownerID int64) (decimal.Decimal, error)
	CountFn            func(ctx context.Context, ownerID int64) (int64, error)
}

var _ service.CardService = (*MockCardService)(nil)

func (m *MockCardService) Create(ctx context.Context, ownerID int64, name, brand string, totalLimit decimal.Decimal, closingDay, dueDay int) (*domain.Card, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ownerID, name, brand, totalLimit, closingDay, dueDay)
	}
	return nil, store.ErrCardNotFound
}

func (m *MockCardService) Get(ctx context.Context, id, ownerID int64) (*domain.Card, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id, ownerID)
	}
	return nil, store.ErrCardNotFound
}

func (m *MockCardService) List(ctx context.Context, ownerID int64) ([]*domain.Card, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockCardService) Update(ctx context.Context, id, ownerID int64, name, brand string, totalLimit decimal.Decimal, closingDay, dueDay int) (*domain.Card, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, ownerID, name, brand, totalLimit, closingDay, dueDay)
	}
	return nil, store.ErrCardNotFound
}

func (m *MockCardService) Delete(ctx context.Context, id, ownerID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, ownerID)
	}
	return nil
}

func (m *MockCardService) SearchByBrand(ctx context.Context, brand string, ownerID int64) ([]*domain.Card, error) {
	if m.SearchByBrandFn != nil {
		return m.SearchByBrandFn(ctx, brand, ownerID)
	}
	return nil, nil
}

func (m *MockCardService) SearchByName(ctx context.Context, name string, ownerID int64) ([]*domain.Card, error) {
	if m.SearchByNameFn != nil {
		return m.SearchByNameFn(ctx, name, ownerID)
	}
	return nil, nil
}

func (m *MockCardService) ListByClosingDay(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error) {
	if m.ListByClosingDayFn != nil {
		return m.ListByClosingDayFn(ctx, day, ownerID)
	}
	return nil, nil
}

func (m *MockCardService) ListByDueDay(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error) {
	if m.ListByDueDayFn != nil {
		return m.ListByDueDayFn(ctx, day, ownerID)
	}
	return nil, nil
}

func (m *MockCardService) TotalLimit(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	if m.TotalLimitFn != nil {
		return m.TotalLimitFn(ctx, ownerID)
	}
	return decimal.Zero, nil
}

func (m *MockCardService) UtilizedLimit(ctx context.Context, id, ownerID int64) (decimal.Decimal, error) {
	if m.UtilizedLimitFn != nil {
		return m.UtilizedLimitFn(ctx, id, ownerID)
	}
	return decimal.Zero, nil
}

func (m *MockCardService) AvailableLimit(ctx context.Context, id, ownerID int64) (decimal.Decimal, error) {
	if m.AvailableLimitFn != nil {
		return m.AvailableLimitFn(ctx, id, ownerID)
	}
	return decimal.Zero, nil
}

func (m *MockCardService) Count(ctx context.Context, ownerID int64) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, ownerID)
	}
	return 0, nil
}

// MockTransactionService implements service.TransactionService with overridable functions.
type MockTransactionService struct {
	CreateFn               func(ctx context.Context, ownerID int64, in service.TransactionInput) (*domain.Transaction, error)
	GetFn                  func(ctx context.Context, id, ownerID int64) (*domain.Transaction, error)
	ListFn                 func(ctx context.Context, ownerID int64) ([]*domain.Transaction, error)
	UpdateFn               func(ctx context.Context, id, ownerID int64, in service.TransactionInput) (*domain.Transaction, error)
	DeleteFn               func(ctx context.Context, id, ownerID int64) error
	ListByAccountFn        func(ctx context.Context, accountID, ownerID int64) ([]*domain.Transaction, error)
	ListByCardFn           func(ctx context.Context, cardID, ownerID int64) ([]*domain.Transaction, error)
	ListByTypeFn           func(ctx context.Context, txnType domain.TransactionType, ownerID int64) ([]*domain.Transaction, error)
	ListByPeriodFn         func(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Transaction, error)
	ListRecurringFn        func(ctx context.Context, ownerID int64, recurring bool) ([]*domain.Transaction, error)
	SearchByDescriptionFn  func(ctx context.Context, description string, ownerID int64) ([]*domain.Transaction, error)
	TotalIncomeFn          func(ctx context.Context, ownerID int64) (decimal.Decimal, error)
	TotalExpenseFn         func(ctx context.Context, ownerID int64) (decimal.Decimal, error)
	TotalIncomeInPeriodFn  func(ctx context.Context, ownerID int64, from, to time.Time) (decimal.Decimal, error)
	TotalExpenseInPeriodFn func(ctx context.Context, ownerID int64, from, to time.Time) (decimal.Decimal, error)
	SummaryFn              func(ctx context.Context, ownerID int64) (*service.FinancialSummary, error)
	CountFn                func(ctx context.Context, ownerID int64) (int64, error)
}

var _ service.TransactionService = (*MockTransactionService)(nil)

func (m *MockTransactionService) Create(ctx context.Context, ownerID int64, in service.TransactionInput) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ownerID, in)
	}
	return nil, store.ErrTransactionNotFound
}

func (m *MockTransactionService) Get(ctx context.Context, id, ownerID int64) (*domain.Transaction, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id, ownerID)
	}
	return nil, store.ErrTransactionNotFound
}

func (m *MockTransactionService) List(ctx context.Context, ownerID int64) ([]*domain.Transaction, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockTransactionService) Update(ctx context.Context, id, ownerID int64, in service.TransactionInput) (*domain.Transaction, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, ownerID, in)
	}
	return nil, store.ErrTransactionNotFound
}

func (m *MockTransactionService) Delete(ctx context.Context, id, ownerID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, ownerID)
	}
	return nil
}

func (m *MockTransactionService) ListByAccount(ctx context.Context, accountID, ownerID int64) ([]*domain.Transaction, error) {
	if m.ListByAccountFn != nil {
		return m.ListByAccountFn(ctx, accountID, ownerID)
	}
	return nil, nil
}

func (m *MockTransactionService) ListByCard(ctx context.Context, cardID, ownerID int64) ([]*domain.Transaction, error) {
	if m.ListByCardFn != nil {
		return m.ListByCardFn(ctx, cardID, ownerID)
	}
	return nil, nil
}

func (m *MockTransactionService) ListByType(ctx context.Context, txnType domain.TransactionType, ownerID int64) ([]*domain.Transaction, error) {
	if m.ListByTypeFn != nil {
		return m.ListByTypeFn(ctx, txnType, ownerID)
	}
	return nil, nil
}

func (m *MockTransactionService) ListByPeriod(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Transaction, error) {
	if m.ListByPeriodFn != nil {
		return m.ListByPeriodFn(ctx, ownerID, from, to)
	}
	return nil, nil
}

func (m *MockTransactionService) ListRecurring(ctx context.Context, ownerID int64, recurring bool) ([]*domain.Transaction, error) {
	if m.ListRecurringFn != nil {
		return m.ListRecurringFn(ctx, ownerID, recurring)
	}
	return nil, nil
}

func (m *MockTransactionService) SearchByDescription(ctx context.Context, description string, ownerID int64) ([]*domain.Transaction, error) {
	if m.SearchByDescriptionFn != nil {
		return m.SearchByDescriptionFn(ctx, description, ownerID)
	}
	return nil, nil
}

func (m *MockTransactionService) TotalIncome(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	if m.TotalIncomeFn != nil {
		return m.TotalIncomeFn(ctx, ownerID)
	}
	return decimal.Zero, nil
}

func (m *MockTransactionService) TotalExpense(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	if m.TotalExpenseFn != nil {
		return m.TotalExpenseFn(ctx, ownerID)
	}
	return decimal.Zero, nil
}

func (m *MockTransactionService) TotalIncomeInPeriod(ctx context.Context, ownerID int64, from, to time.Time) (decimal.Decimal, error) {
	if m.TotalIncomeInPeriodFn != nil {
		return m.TotalIncomeInPeriodFn(ctx, ownerID, from, to)
	}
	return decimal.Zero, nil
}

func (m *MockTransactionService) TotalExpenseInPeriod(ctx context.Context, ownerID int64, from, to time.Time) (decimal.Decimal, error) {
	if m.TotalExpenseInPeriodFn != nil {
		return m.TotalExpenseInPeriodFn(ctx, ownerID, from, to)
	}
	return decimal.Zero, nil
}

func (m *MockTransactionService) Summary(ctx context.Context, ownerID int64) (*service.FinancialSummary, error) {
	if m.SummaryFn != nil {
		return m.SummaryFn(ctx, ownerID)
	}
	return &service.FinancialSummary{Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}, nil
}

func (m *MockTransactionService) Count(ctx context.Context, ownerID int64) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, ownerID)
	}
	return 0, nil
}
