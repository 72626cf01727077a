package starling

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*APIClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(ClientConfig{
		BaseURL:     server.URL,
		AccessToken: "test-token",
	})
	return client, server
}

func TestAccounts(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		fmt.Fprint(w, `{"accounts":[{
			"accountUid":"a1b2",
			"accountType":"PRIMARY",
			"defaultCategory":"c3d4",
			"currency":"GBP",
			"createdAt":"2020-01-02T03:04:05.000Z",
			"name":"Personal"
		}]}`)
	})
	defer server.Close()

	accounts, err := client.Accounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "a1b2", accounts[0].UID)
	assert.Equal(t, AccountTypePrimary, accounts[0].AccountType)
	assert.Equal(t, "GBP", accounts[0].Currency)
	assert.Equal(t, "Personal", accounts[0].Name)
}

func TestBalance(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/a1b2/balance", r.URL.Path)
		fmt.Fprint(w, `{
			"clearedBalance":{"currency":"GBP","minorUnits":11000},
			"effectiveBalance":{"currency":"GBP","minorUnits":10000},
			"pendingTransactions":{"currency":"GBP","minorUnits":1000},
			"totalClearedBalance":{"currency":"GBP","minorUnits":11000},
			"acceptedOverdraft":{"currency":"GBP","minorUnits":0},
			"totalEffectiveBalance":{"currency":"GBP","minorUnits":10000}
		}`)
	})
	defer server.Close()

	balance, err := client.Balance("a1b2")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), balance.Effective.MinorUnits)
	assert.Equal(t, "GBP", balance.Effective.Currency)
	assert.Equal(t, "100.00", balance.Effective.String())
}

func TestTransactionsSince(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed/account/a1b2/category/c3d4", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("changesSince"))

		fmt.Fprint(w, `{"feedItems":[{
			"feedItemUid":"f1",
			"categoryUid":"c3d4",
			"amount":{"currency":"GBP","minorUnits":2000},
			"direction":"OUT",
			"transactionTime":"2024-03-01T12:00:00.000Z",
			"status":"SETTLED",
			"counterPartyType":"MERCHANT",
			"counterPartyUid":"cp1",
			"counterPartyName":"Shop",
			"reference":"COFFEE",
			"spendingCategory":"EATING_OUT"
		}]}`)
	})
	defer server.Close()

	items, err := client.TransactionsSince("a1b2", "c3d4", 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "f1", items[0].UID)
	assert.Equal(t, DirectionOut, items[0].Direction)
	assert.Equal(t, StatusSettled, items[0].Status)
	assert.Equal(t, int64(-2000), items[0].SignedAmount().MinorUnits)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "forbidden is authorization error",
			statusCode: http.StatusForbidden,
			body:       `{"error":"invalid_token"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrAuthorization)
			},
		},
		{
			name:       "unauthorized is authorization error",
			statusCode: http.StatusUnauthorized,
			body:       ``,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrAuthorization)
			},
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			body:       ``,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNotFound)
			},
		},
		{
			name:       "server error is APIError",
			statusCode: http.StatusInternalServerError,
			body:       `{"error":"boom","error_description":"it broke"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
				assert.Equal(t, "boom", apiErr.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				fmt.Fprint(w, tt.body)
			})
			defer server.Close()

			_, err := client.Accounts()
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestMalformedResponseIsParseError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"accounts": "not a list"}`)
	})
	defer server.Close()

	_, err := client.Accounts()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "body", parseErr.Field)
}

func TestMissingFieldIsParseError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"feedItems":[{
			"feedItemUid":"f1",
			"amount":{"currency":"GBP","minorUnits":100},
			"direction":"SIDEWAYS",
			"transactionTime":"2024-03-01T12:00:00.000Z",
			"status":"SETTLED"
		}]}`)
	})
	defer server.Close()

	_, err := client.TransactionsSince("a", "c", time.Hour)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "feedItems[0].direction", parseErr.Field)
}

func TestNetworkErrorIsSurfaced(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	server.Close() // close before the call to force a transport failure

	_, err := client.Accounts()
	require.Error(t, err)

	var parseErr *ParseError
	assert.False(t, errors.As(err, &parseErr))
	assert.NotErrorIs(t, err, ErrAuthorization)
}

func TestPascalCategory(t *testing.T) {
	tests := []struct {
		category string
		expected string
	}{
		{"EATING_OUT", "EatingOut"},
		{"INCOME", "Income"},
		{"BILLS_AND_SERVICES", "BillsAndServices"},
		{"DIY", "Diy"},
		{"NONE", "None"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.expected, PascalCategory(tt.category))
		})
	}
}

func TestIsIncomeCategory(t *testing.T) {
	assert.True(t, IsIncomeCategory("INCOME"))
	assert.True(t, IsIncomeCategory("OTHER_INCOME"))
	assert.False(t, IsIncomeCategory("GROCERIES"))
	assert.False(t, IsIncomeCategory(""))
}
