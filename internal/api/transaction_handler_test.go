package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/mocks"
	"github.com/fintrack/fintrack-api/internal/service"
	"github.com/fintrack/fintrack-api/internal/store"
)

func TestTransactionCreateEndpoint(t *testing.T) {
	t.Parallel()

	ownerID := int64(42)
	cardID := int64(3)

	tests := []struct {
		name       string
		payload    map[string]interface{}
		serviceErr error
		wantStatus int
		wantCard   bool
	}{
		{
			name: "expense on account",
			payload: map[string]interface{}{
				"descricao": "Mercado",
				"valor":     "350.75",
				"data":      "2024-03-10",
				"tipo":      "DESPESA",
				"contaId":   1,
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "expense on card",
			payload: map[string]interface{}{
				"descricao": "Assinatura",
				"valor":     "49.90",
				"data":      "2024-03-01",
				"tipo":      "DESPESA",
				"contaId":   1,
				"cartaoId":  cardID,
			},
			wantStatus: http.StatusCreated,
			wantCard:   true,
		},
		{
			name: "malformed date",
			payload: map[string]interface{}{
				"descricao": "Mercado",
				"valor":     "350.75",
				"data":      "10/03/2024",
				"tipo":      "DESPESA",
				"contaId":   1,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown type",
			payload: map[string]interface{}{
				"descricao": "Mercado",
				"valor":     "350.75",
				"data":      "2024-03-10",
				"tipo":      "TRANSFERENCIA",
				"contaId":   1,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing account",
			payload: map[string]interface{}{
				"descricao": "Mercado",
				"valor":     "350.75",
				"data":      "2024-03-10",
				"tipo":      "DESPESA",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "account belongs to someone else",
			payload: map[string]interface{}{
				"descricao": "Mercado",
				"valor":     "350.75",
				"data":      "2024-03-10",
				"tipo":      "DESPESA",
				"contaId":   1,
			},
			serviceErr: store.ErrAccountNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txnService := &mocks.MockTransactionService{
				CreateFn: func(ctx context.Context, owner int64, in service.TransactionInput) (*domain.Transaction, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &domain.Transaction{
						ID:          1,
						Description: in.Description,
						Value:       in.Value,
						Date:        in.Date,
						Type:        in.Type,
						Recurring:   in.Recurring,
						AccountID:   in.AccountID,
						CardID:      in.CardID,
						UserID:      owner,
					}, nil
				},
			}
			handler := NewTransactionHandler(txnService, nil)

			body, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			handler.Create(recorder, authedRequest("POST", "/transacoes", body, ownerID, nil))

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusCreated {
				var txn domain.Transaction
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&txn))
				assert.Equal(t, int64(1), txn.ID)
				assert.Equal(t, ownerID, txn.UserID)
				if tt.wantCard {
					require.NotNil(t, txn.CardID)
					assert.Equal(t, cardID, *txn.CardID)
				} else {
					assert.Nil(t, txn.CardID)
				}
			}
		})
	}
}

func TestTransactionListByPeriodEndpoint(t *testing.T) {
	t.Parallel()

	ownerID := int64(42)
	txnService := &mocks.MockTransactionService{
		ListByPeriodFn: func(ctx context.Context, owner int64, from, to time.Time) ([]*domain.Transaction, error) {
			return []*domain.Transaction{
				{ID: 1, Description: "Salário", Date: from.AddDate(0, 0, 1), UserID: owner},
			}, nil
		},
	}
	handler := NewTransactionHandler(txnService, nil)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"valid period", "?inicio=2024-03-01&fim=2024-03-31", http.StatusOK},
		{"inverted period", "?inicio=2024-03-31&fim=2024-03-01", http.StatusBadRequest},
		{"missing fim", "?inicio=2024-03-01", http.StatusBadRequest},
		{"malformed inicio", "?inicio=01-03-2024&fim=2024-03-31", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			req := authedRequest("GET", "/transacoes/periodo"+tt.query, nil, ownerID, nil)
			handler.ListByPeriod(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestTransactionListScopesEndpoints(t *testing.T) {
	t.Parallel()

	ownerID := int64(42)

	t.Run("by account", func(t *testing.T) {
		txnService := &mocks.MockTransactionService{
			ListByAccountFn: func(ctx context.Context, accountID, owner int64) ([]*domain.Transaction, error) {
				return []*domain.Transaction{{ID: 1, AccountID: accountID, UserID: owner}}, nil
			},
		}
		handler := NewTransactionHandler(txnService, nil)

		recorder := httptest.NewRecorder()
		req := authedRequest("GET", "/transacoes/conta/9", nil, ownerID, map[string]string{"contaId": "9"})
		handler.ListByAccount(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var txns []*domain.Transaction
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&txns))
		require.Len(t, txns, 1)
		assert.Equal(t, int64(9), txns[0].AccountID)
	})

	t.Run("by account not owned", func(t *testing.T) {
		txnService := &mocks.MockTransactionService{
			ListByAccountFn: func(ctx context.Context, accountID, owner int64) ([]*domain.Transaction, error) {
				return nil, store.ErrAccountNotFound
			},
		}
		handler := NewTransactionHandler(txnService, nil)

		recorder := httptest.NewRecorder()
		req := authedRequest("GET", "/transacoes/conta/9", nil, ownerID, map[string]string{"contaId": "9"})
		handler.ListByAccount(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("by type", func(t *testing.T) {
		txnService := &mocks.MockTransactionService{
			ListByTypeFn: func(ctx context.Context, txnType domain.TransactionType, owner int64) ([]*domain.Transaction, error) {
				return []*domain.Transaction{{ID: 1, Type: txnType, UserID: owner}}, nil
			},
		}
		handler := NewTransactionHandler(txnService, nil)

		recorder := httptest.NewRecorder()
		req := authedRequest("GET", "/transacoes/tipo/RECEITA", nil, ownerID, map[string]string{"tipo": "RECEITA"})
		handler.ListByType(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("by unknown type", func(t *testing.T) {
		handler := NewTransactionHandler(&mocks.MockTransactionService{}, nil)

		recorder := httptest.NewRecorder()
		req := authedRequest("GET", "/transacoes/tipo/ESTORNO", nil, ownerID, map[string]string{"tipo": "ESTORNO"})
		handler.ListByType(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestTransactionSummaryEndpoint(t *testing.T) {
	t.Parallel()

	ownerID := int64(42)
	txnService := &mocks.MockTransactionService{
		SummaryFn: func(ctx context.Context, owner int64) (*service.FinancialSummary, error) {
			return &service.FinancialSummary{
				Income:  decimal.NewFromInt(5000),
				Expense: decimal.NewFromInt(3200),
				Balance: decimal.NewFromInt(1800),
			}, nil
		},
	}
	handler := NewTransactionHandler(txnService, nil)

	recorder := httptest.NewRecorder()
	req := authedRequest("GET", "/transacoes/resumo-financeiro", nil, ownerID, nil)
	handler.Summary(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp service.FinancialSummary
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.True(t, resp.Income.Equal(decimal.NewFromInt(5000)))
	assert.True(t, resp.Expense.Equal(decimal.NewFromInt(3200)))
	assert.True(t, resp.Balance.Equal(decimal.NewFromInt(1800)))
}

func TestTransactionDeleteEndpoint(t *testing.T) {
	t.Parallel()

	ownerID := int64(42)

	t.Run("existing transaction", func(t *testing.T) {
		txnService := &mocks.MockTransactionService{
			DeleteFn: func(ctx context.Context, id, owner int64) error {
				return nil
			},
		}
		handler := NewTransactionHandler(txnService, nil)

		recorder := httptest.NewRecorder()
		req := authedRequest("DELETE", "/transacoes/5", nil, ownerID, map[string]string{"id": "5"})
		handler.Delete(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		txnService := &mocks.MockTransactionService{
			DeleteFn: func(ctx context.Context, id, owner int64) error {
				return store.ErrTransactionNotFound
			},
		}
		handler := NewTransactionHandler(txnService, nil)

		recorder := httptest.NewRecorder()
		req := authedRequest("DELETE", "/transacoes/5", nil, ownerID, map[string]string{"id": "5"})
		handler.Delete(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
