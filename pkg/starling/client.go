package starling

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production Starling API endpoint.
const DefaultBaseURL = "https://api.starlingbank.com/api/v2"

// Client is the read surface of the Starling API used by the sync job.
// APIClient talks to the live API; MockClient is the test double.
type Client interface {
	// Accounts lists the account holder's accounts.
	Accounts() ([]Account, error)

	// Balance returns the current balance snapshot for an account.
	Balance(accountUID string) (Balance, error)

	// TransactionsSince returns the feed items for an account category that
	// were created or updated within the given duration before now.
	TransactionsSince(accountUID, categoryUID string, since time.Duration) ([]FeedItem, error)
}

// ClientConfig configures an APIClient.
type ClientConfig struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration // default: 30 seconds
}

// APIClient is the live Starling API client.
type APIClient struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// NewClient creates a live API client from the given configuration.
func NewClient(config ClientConfig) *APIClient {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &APIClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		accessToken: config.AccessToken,
	}
}

// Accounts lists the account holder's accounts.
func (c *APIClient) Accounts() ([]Account, error) {
	var resp accountsResponse
	if err := c.get("/accounts", nil, &resp); err != nil {
		return nil, err
	}

	for i, account := range resp.Accounts {
		if err := validateAccount(account, fmt.Sprintf("accounts[%d]", i)); err != nil {
			return nil, err
		}
	}

	return resp.Accounts, nil
}

// Balance returns the current balance snapshot for an account.
func (c *APIClient) Balance(accountUID string) (Balance, error) {
	var balance Balance
	path := fmt.Sprintf("/accounts/%s/balance", url.PathEscape(accountUID))
	if err := c.get(path, nil, &balance); err != nil {
		return Balance{}, err
	}

	if balance.Effective.Currency == "" {
		return Balance{}, newParseError("effectiveBalance.currency", errors.New("missing currency"))
	}

	return balance, nil
}

// TransactionsSince returns the feed items for an account category created or
// updated since now minus the given duration.
func (c *APIClient) TransactionsSince(accountUID, categoryUID string, since time.Duration) ([]FeedItem, error) {
	changesSince := time.Now().UTC().Add(-since)

	query := url.Values{}
	query.Set("changesSince", changesSince.Format(time.RFC3339))

	path := fmt.Sprintf("/feed/account/%s/category/%s",
		url.PathEscape(accountUID), url.PathEscape(categoryUID))

	var resp feedResponse
	if err := c.get(path, query, &resp); err != nil {
		return nil, err
	}

	for i, item := range resp.FeedItems {
		if err := validateFeedItem(item, fmt.Sprintf("feedItems[%d]", i)); err != nil {
			return nil, err
		}
	}

	return resp.FeedItems, nil
}

// get performs an authorized GET request and decodes the JSON response into v.
func (c *APIClient) get(path string, query url.Values, v interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint = fmt.Sprintf("%s?%s", endpoint, query.Encode())
	}

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return newParseError("body", err)
	}

	return nil
}

// errorResponse is the error envelope returned by the Starling API.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// parseError maps a non-OK response to the error taxonomy.
func (c *APIClient) parseError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrAuthorization, resp.StatusCode)
	case http.StatusNotFound:
		return fmt.Errorf("%w (status %d)", ErrNotFound, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode}
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Description: string(body)}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        errResp.Error,
		Description: errResp.ErrorDescription,
	}
}

// validateAccount enforces the required account fields. A schema mismatch is
// a hard failure, never silently defaulted.
func validateAccount(account Account, path string) error {
	switch {
	case account.UID == "":
		return newParseError(path+".accountUid", errors.New("missing"))
	case account.DefaultCategory == "":
		return newParseError(path+".defaultCategory", errors.New("missing"))
	case account.Currency == "":
		return newParseError(path+".currency", errors.New("missing"))
	}
	return nil
}

// validateFeedItem enforces the required feed item fields. The tolerated
// optional fields (reference, userNote, counterPartyUid) default to empty.
func validateFeedItem(item FeedItem, path string) error {
	switch {
	case item.UID == "":
		return newParseError(path+".feedItemUid", errors.New("missing"))
	case item.TransactionTime.IsZero():
		return newParseError(path+".transactionTime", errors.New("missing"))
	case item.Direction != DirectionIn && item.Direction != DirectionOut:
		return newParseError(path+".direction", fmt.Errorf("unexpected value %q", item.Direction))
	case item.Status == "":
		return newParseError(path+".status", errors.New("missing"))
	case item.Amount.Currency == "":
		return newParseError(path+".amount.currency", errors.New("missing"))
	}
	return nil
}
