package service_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/store"
)

// stubDriver is a minimal database/sql driver whose transactions always
// succeed. Service tests exercise transaction boundaries through it while
// the mock stores below stand in for the real queries.
type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("stub driver does not support statements")
}
func (stubConn) Close() error              { return nil }
func (stubConn) Begin() (driver.Tx, error) { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func init() {
	sql.Register("servicetest", stubDriver{})
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("servicetest", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// mockUserStore implements store.UserStore with overridable functions.
// Unset functions return zero values.
type mockUserStore struct {
	createFn                 func(ctx context.Context, user *domain.User) error
	getByIDFn                func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFn             func(ctx context.Context, email string) (*domain.User, error)
	updateFn                 func(ctx context.Context, user *domain.User) error
	existsByEmailFn          func(ctx context.Context, email string) (bool, error)
	existsByEmailExcludingFn func(ctx context.Context, email string, excludeID int64) (bool, error)
	listActiveFn             func(ctx context.Context) ([]*domain.User, error)
	listByRoleFn             func(ctx context.Context, role domain.Role) ([]*domain.User, error)
	searchByNameFn           func(ctx context.Context, name string) ([]*domain.User, error)
	countActiveFn            func(ctx context.Context) (int64, error)
	countOwnedFn             func(ctx context.Context, userID int64) (store.OwnedCounts, error)
}

var _ store.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserStore) ExistsByEmailExcluding(ctx context.Context, email string, excludeID int64) (bool, error) {
	if m.existsByEmailExcludingFn != nil {
		return m.existsByEmailExcludingFn(ctx, email, excludeID)
	}
	return false, nil
}

func (m *mockUserStore) ListActive(ctx context.Context) ([]*domain.User, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return nil, nil
}

func (m *mockUserStore) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if m.listByRoleFn != nil {
		return m.listByRoleFn(ctx, role)
	}
	return nil, nil
}

func (m *mockUserStore) SearchByName(ctx context.Context, name string) ([]*domain.User, error) {
	if m.searchByNameFn != nil {
		return m.searchByNameFn(ctx, name)
	}
	return nil, nil
}

func (m *mockUserStore) CountActive(ctx context.Context) (int64, error) {
	if m.countActiveFn != nil {
		return m.countActiveFn(ctx)
	}
	return 0, nil
}

func (m *mockUserStore) CountOwned(ctx context.Context, userID int64) (store.OwnedCounts, error) {
	if m.countOwnedFn != nil {
		return m.countOwnedFn(ctx, userID)
	}
	return store.OwnedCounts{}, nil
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// mockAccountStore implements store.AccountStore with overridable functions.
type mockAccountStore struct {
	createFn                  func(ctx context.Context, account *domain.Account) error
	getForOwnerFn             func(ctx context.Context, id, ownerID int64) (*domain.Account, error)
	listByOwnerFn             func(ctx context.Context, ownerID int64) ([]*domain.Account, error)
	countByOwnerFn            func(ctx context.Context, ownerID int64) (int64, error)
	updateFn                  func(ctx context.Context, account *domain.Account) error
	deleteFn                  func(ctx context.Context, id, ownerID int64) error
	listByTypeFn              func(ctx context.Context, accountType domain.AccountType, ownerID int64) ([]*domain.Account, error)
	searchByInstitutionFn     func(ctx context.Context, institution string, ownerID int64) ([]*domain.Account, error)
	searchByNameFn            func(ctx context.Context, name string, ownerID int64) ([]*domain.Account, error)
	listActiveFn              func(ctx context.Context, ownerID int64) ([]*domain.Account, error)
	listWithoutTransactionsFn func(ctx context.Context, ownerID int64) ([]*domain.Account, error)
	existsByNameFn            func(ctx context.Context, name string, ownerID int64) (bool, error)
	existsByNameExcludingFn   func(ctx context.Context, name string, ownerID, excludeID int64) (bool, error)
	hasTransactionsFn         func(ctx context.Context, accountID int64) (bool, error)
}

var _ store.AccountStore = (*mockAccountStore)(nil)

func (m *mockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.createFn != nil {
		return m.createFn(ctx, account)
	}
	return nil
}

func (m *mockAccountStore) GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Account, error) {
	if m.getForOwnerFn != nil {
		return m.getForOwnerFn(ctx, id, ownerID)
	}
	return nil, store.ErrAccountNotFound
}

func (m *mockAccountStore) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockAccountStore) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	if m.countByOwnerFn != nil {
		return m.countByOwnerFn(ctx, ownerID)
	}
	return 0, nil
}

func (m *mockAccountStore) Update(ctx context.Context, account *domain.Account) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, account)
	}
	return nil
}

func (m *mockAccountStore) Delete(ctx context.Context, id, ownerID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, ownerID)
	}
	return nil
}

func (m *mockAccountStore) ListByType(ctx context.Context, accountType domain.AccountType, ownerID int64) ([]*domain.Account, error) {
	if m.listByTypeFn != nil {
		return m.listByTypeFn(ctx, accountType, ownerID)
	}
	return nil, nil
}

func (m *mockAccountStore) SearchByInstitution(ctx context.Context, institution string, ownerID int64) ([]*domain.Account, error) {
	if m.searchByInstitutionFn != nil {
		return m.searchByInstitutionFn(ctx, institution, ownerID)
	}
	return nil, nil
}

func (m *mockAccountStore) SearchByName(ctx context.Context, name string, ownerID int64) ([]*domain.Account, error) {
	if m.searchByNameFn != nil {
		return m.searchByNameFn(ctx, name, ownerID)
	}
	return nil, nil
}

func (m *mockAccountStore) ListActive(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockAccountStore) ListWithoutTransactions(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	if m.listWithoutTransactionsFn != nil {
		return m.listWithoutTransactionsFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockAccountStore) ExistsByName(ctx context.Context, name string, ownerID int64) (bool, error) {
	if m.existsByNameFn != nil {
		return m.existsByNameFn(ctx, name, ownerID)
	}
	return false, nil
}

func (m *mockAccountStore) ExistsByNameExcluding(ctx context.Context, name string, ownerID, excludeID int64) (bool, error) {
	if m.existsByNameExcludingFn != nil {
		return m.existsByNameExcludingFn(ctx, name, ownerID, excludeID)
	}
	return false, nil
}

func (m *mockAccountStore) HasTransactions(ctx context.Context, accountID int64) (bool, error) {
	if m.hasTransactionsFn != nil {
		return m.hasTransactionsFn(ctx, accountID)
	}
	return false, nil
}

func (m *mockAccountStore) WithTx(tx *sql.Tx) store.AccountStore { return m }

// mockCardStore implements store.CardStore with overridable functions.
type mockCardStore struct {
	createFn                func(ctx context.Context, card *domain.Card) error
	getForOwnerFn           func(ctx context.Context, id, ownerID int64) (*domain.Card, error)
	listByOwnerFn           func(ctx context.Context, ownerID int64) ([]*domain.Card, error)
	countByOwnerFn          func(ctx context.Context, ownerID int64) (int64, error)
	updateFn                func(ctx context.Context, card *domain.Card) error
	deleteFn                func(ctx context.Context, id, ownerID int64) error
	searchByBrandFn         func(ctx context.Context, brand string, ownerID int64) ([]*domain.Card, error)
	searchByNameFn          func(ctx context.Context, name string, ownerID int64) ([]*domain.Card, error)
	listByClosingDayFn      func(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error)
	listByDueDayFn          func(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error)
	existsByNameFn          func(ctx context.Context, name string, ownerID int64) (bool, error)
	existsByNameExcludingFn func(ctx context.Context, name string, ownerID, excludeID int64) (bool, error)
	totalLimitByOwnerFn     func(ctx context.Context, ownerID int64) (decimal.Decimal, error)
}

var _ store.CardStore = (*mockCardStore)(nil)

func (m *mockCardStore) Create(ctx context.Context, card *domain.Card) error {
	if m.createFn != nil {
		return m.createFn(ctx, card)
	}
	return nil
}

func (m *mockCardStore) GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Card, error) {
	if m.getForOwnerFn != nil {
		return m.getForOwnerFn(ctx, id, ownerID)
	}
	return nil, store.ErrCardNotFound
}

func (m *mockCardStore) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Card, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockCardStore) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	if m.countByOwnerFn != nil {
		return m.countByOwnerFn(ctx, ownerID)
	}
	return 0, nil
}

func (m *mockCardStore) Update(ctx context.Context, card *domain.Card) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, card)
	}
	return nil
}

func (m *mockCardStore) Delete(ctx context.Context, id, ownerID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, ownerID)
	}
	return nil
}

func (m *mockCardStore) SearchByBrand(ctx context.Context, brand string, ownerID int64) ([]*domain.Card, error) {
	if m.searchByBrandFn != nil {
		return m.searchByBrandFn(ctx, brand, ownerID)
	}
	return nil, nil
}

func (m *mockCardStore) SearchByName(ctx context.Context, name string, ownerID int64) ([]*domain.Card, error) {
	if m.searchByNameFn != nil {
		return m.searchByNameFn(ctx, name, ownerID)
	}
	return nil, nil
}

func (m *mockCardStore) ListByClosingDay(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error) {
	if m.listByClosingDayFn != nil {
		return m.listByClosingDayFn(ctx, day, ownerID)
	}
	return nil, nil
}

func (m *mockCardStore) ListByDueDay(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error) {
	if m.listByDueDayFn != nil {
		return m.listByDueDayFn(ctx, day, ownerID)
	}
	return nil, nil
}

func (m *mockCardStore) ExistsByName(ctx context.Context, name string, ownerID int64) (bool, error) {
	if m.existsByNameFn != nil {
		return m.existsByNameFn(ctx, name, ownerID)
	}
	return false, nil
}

func (m *mockCardStore) ExistsByNameExcluding(ctx context.Context, name string, ownerID, excludeID int64) (bool, error) {
	if m.existsByNameExcludingFn != nil {
		return m.existsByNameExcludingFn(ctx, name, ownerID, excludeID)
	}
	return false, nil
}

func (m *mockCardStore) TotalLimitByOwner(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	if m.totalLimitByOwnerFn != nil {
		return m.totalLimitByOwnerFn(ctx, ownerID)
	}
	return decimal.Zero, nil
}

func (m *mockCardStore) WithTx(tx *sql.Tx) store.CardStore { return m }

// mockTransactionStore implements store.TransactionStore with overridable functions.
type mockTransactionStore struct {
	createFn              func(ctx context.Context, txn *domain.Transaction) error
	getForOwnerFn         func(ctx context.Context, id, ownerID int64) (*domain.Transaction, error)
	listByOwnerFn         func(ctx context.Context, ownerID int64) ([]*domain.Transaction, error)
	countByOwnerFn        func(ctx context.Context, ownerID int64) (int64, error)
	updateFn              func(ctx context.Context, txn *domain.Transaction) error
	deleteFn              func(ctx context.Context, id, ownerID int64) error
	listByAccountFn       func(ctx context.Context, accountID int64) ([]*domain.Transaction, error)
	listByCardFn          func(ctx context.Context, cardID int64) ([]*domain.Transaction, error)
	listByTypeFn          func(ctx context.Context, txnType domain.TransactionType, ownerID int64) ([]*domain.Transaction, error)
	listByPeriodFn        func(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Transaction, error)
	listRecurringFn       func(ctx context.Context, ownerID int64, recurring bool) ([]*domain.Transaction, error)
	searchByDescriptionFn func(ctx context.Context, description string, ownerID int64) ([]*domain.Transaction, error)
	sumByTypeFn           func(ctx context.Context, txnType domain.TransactionType, ownerID int64) (decimal.Decimal, error)
	sumByTypeInPeriodFn   func(ctx context.Context, txnType domain.TransactionType, ownerID int64, from, to time.Time) (decimal.Decimal, error)
}

var _ store.TransactionStore = (*mockTransactionStore)(nil)

func (m *mockTransactionStore) Create(ctx context.Context, txn *domain.Transaction) error {
	if m.createFn != nil {
		return m.createFn(ctx, txn)
	}
	return nil
}

func (m *mockTransactionStore) GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Transaction, error) {
	if m.getForOwnerFn != nil {
		return m.getForOwnerFn(ctx, id, ownerID)
	}
	return nil, store.ErrTransactionNotFound
}

func (m *mockTransactionStore) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Transaction, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTransactionStore) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	if m.countByOwnerFn != nil {
		return m.countByOwnerFn(ctx, ownerID)
	}
	return 0, nil
}

func (m *mockTransactionStore) Update(ctx context.Context, txn *domain.Transaction) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, txn)
	}
	return nil
}

func (m *mockTransactionStore) Delete(ctx context.Context, id, ownerID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, ownerID)
	}
	return nil
}

func (m *mockTransactionStore) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Transaction, error) {
	if m.listByAccountFn != nil {
		return m.listByAccountFn(ctx, accountID)
	}
	return nil, nil
}

func (m *mockTransactionStore) ListByCard(ctx context.Context, cardID int64) ([]*domain.Transaction, error) {
	if m.listByCardFn != nil {
		return m.listByCardFn(ctx, cardID)
	}
	return nil, nil
}

func (m *mockTransactionStore) ListByType(ctx context.Context, txnType domain.TransactionType, ownerID int64) ([]*domain.Transaction, error) {
	if m.listByTypeFn != nil {
		return m.listByTypeFn(ctx, txnType, ownerID)
	}
	return nil, nil
}

func (m *mockTransactionStore) ListByPeriod(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Transaction, error) {
	if m.listByPeriodFn != nil {
		return m.listByPeriodFn(ctx, ownerID, from, to)
	}
	return nil, nil
}

func (m *mockTransactionStore) ListRecurring(ctx context.Context, ownerID int64, recurring bool) ([]*domain.Transaction, error) {
	if m.listRecurringFn != nil {
		return m.listRecurringFn(ctx, ownerID, recurring)
	}
	return nil, nil
}

func (m *mockTransactionStore) SearchByDescription(ctx context.Context, description string, ownerID int64) ([]*domain.Transaction, error) {
	if m.searchByDescriptionFn != nil {
		return m.searchByDescriptionFn(ctx, description, ownerID)
	}
	return nil, nil
}

func (m *mockTransactionStore) SumByType(ctx context.Context, txnType domain.TransactionType, ownerID int64) (decimal.Decimal, error) {
	if m.sumByTypeFn != nil {
		return m.sumByTypeFn(ctx, txnType, ownerID)
	}
	return decimal.Zero, nil
}

func (m *mockTransactionStore) SumByTypeInPeriod(ctx context.Context, txnType domain.TransactionType, ownerID int64, from, to time.Time) (decimal.Decimal, error) {
	if m.sumByTypeInPeriodFn != nil {
		return m.sumByTypeInPeriodFn(ctx, txnType, ownerID, from, to)
	}
	return decimal.Zero, nil
}

func (m *mockTransactionStore) WithTx(tx *sql.Tx) store.TransactionStore { return m }

// mockHasher implements auth.PasswordHasher and auth.PasswordVerifier with
// a reversible fake hash, keeping password tests fast.
type mockHasher struct {
	hashErr error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashErr != nil {
		return "", m.hashErr
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}
