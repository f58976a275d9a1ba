package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bluff-board/internal/state"
)

const StatePath = "/state"

var ErrUnexpectedStatus = errors.New("unexpected status")

// Client fetches the public game state. It applies no timeout of its own; the
// http.Client passed in decides that.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) FetchState(ctx context.Context) (state.GameState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+StatePath, nil)
	if err != nil {
		return state.GameState{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return state.GameState{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return state.GameState{}, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return state.Decode(resp.Body)
}
