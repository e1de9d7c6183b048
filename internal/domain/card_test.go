package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewCard(t *testing.T) {
	limit := decimal.NewFromInt(5000)

	card, err := NewCard("Cartao Roxo", "Mastercard", limit, 5, 15, 1)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.Name != "Cartao Roxo" {
		t.Errorf("Expected name %q, got %q", "Cartao Roxo", card.Name)
	}

	if card.Brand != "Mastercard" {
		t.Errorf("Expected brand %q, got %q", "Mastercard", card.Brand)
	}

	if !card.TotalLimit.Equal(limit) {
		t.Errorf("Expected total limit %s, got %s", limit, card.TotalLimit)
	}

	if card.ClosingDay != 5 || card.DueDay != 15 {
		t.Errorf("Expected closing/due days 5/15, got %d/%d", card.ClosingDay, card.DueDay)
	}
}

func TestNewCardValidationErrors(t *testing.T) {
	limit := decimal.NewFromInt(1000)

	cases := []struct {
		name       string
		cardName   string
		brand      string
		limit      decimal.Decimal
		closingDay int
		dueDay     int
		userID     int64
		wantErr    error
	}{
		{"empty name", "", "Visa", limit, 5, 15, 1, ErrEmptyCardName},
		{"short name", "C", "Visa", limit, 5, 15, 1, ErrCardNameLength},
		{"empty brand", "Cartao", "", limit, 5, 15, 1, ErrEmptyBrand},
		{"short brand", "Cartao", "V", limit, 5, 15, 1, ErrBrandLength},
		{"zero limit", "Cartao", "Visa", decimal.Zero, 5, 15, 1, ErrNonPositiveLimit},
		{"negative limit", "Cartao", "Visa", decimal.NewFromInt(-10), 5, 15, 1, ErrNonPositiveLimit},
		{"closing day low", "Cartao", "Visa", limit, 0, 15, 1, ErrClosingDayRange},
		{"closing day high", "Cartao", "Visa", limit, 32, 15, 1, ErrClosingDayRange},
		{"due day low", "Cartao", "Visa", limit, 5, 0, 1, ErrDueDayRange},
		{"due day high", "Cartao", "Visa", limit, 5, 32, 1, ErrDueDayRange},
		{"missing owner", "Cartao", "Visa", limit, 5, 15, 0, ErrCardOwnerRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCard(tc.cardName, tc.brand, tc.limit, tc.closingDay, tc.dueDay, tc.userID)
			if err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUtilizedLimitSumsAllTypes(t *testing.T) {
	card, err := NewCard("Cartao Roxo", "Mastercard", decimal.NewFromInt(5000), 5, 15, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cardID := int64(7)
	date := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	txns := []*Transaction{
		{Description: "Compra online", Value: decimal.NewFromInt(300), Date: date, Type: TransactionTypeExpense, AccountID: 1, CardID: &cardID, UserID: 1},
		{Description: "Estorno", Value: decimal.NewFromInt(50), Date: date, Type: TransactionTypeIncome, AccountID: 1, CardID: &cardID, UserID: 1},
	}

	// Income on a card still counts toward the utilized figure.
	want := decimal.NewFromInt(350)
	got := card.UtilizedLimit(txns)
	if !got.Equal(want) {
		t.Errorf("Expected utilized limit %s, got %s", want, got)
	}
}

func TestAvailableLimit(t *testing.T) {
	card, err := NewCard("Cartao Roxo", "Mastercard", decimal.NewFromInt(1000), 5, 15, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cardID := int64(7)
	date := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	txns := []*Transaction{
		{Description: "Compra grande", Value: decimal.NewFromInt(1200), Date: date, Type: TransactionTypeExpense, AccountID: 1, CardID: &cardID, UserID: 1},
	}

	// Overspending yields a negative available limit; no clamping.
	want := decimal.NewFromInt(-200)
	got := card.AvailableLimit(txns)
	if !got.Equal(want) {
		t.Errorf("Expected available limit %s, got %s", want, got)
	}
}

func TestAvailableLimitNoTransactions(t *testing.T) {
	card, err := NewCard("Cartao Roxo", "Mastercard", decimal.NewFromInt(1000), 5, 15, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got := card.AvailableLimit(nil)
	if !got.Equal(card.TotalLimit) {
		t.Errorf("Expected available limit %s, got %s", card.TotalLimit, got)
	}
}
