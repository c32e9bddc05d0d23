package ambient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rlin/ambienttracker/internal/retry"
)

const (
	defaultBaseURL = "https://api.ambientweather.net/v1"

	// end_date pins the query window; the API returns the most recent
	// record on or before it.
	endDate = "1723481785"
)

// Snapshot is one reading from a weather station, keyed by the API's sensor
// field names.
type Snapshot map[string]interface{}

// Client fetches device data from the Ambient Weather REST API.
// The API asks for at least 5 seconds between calls; the 5-minute polling
// cadence keeps us well clear of that.
type Client struct {
	apiKey         string
	applicationKey string
	baseURL        string
	httpClient     *http.Client

	maxAttempts int
	backoffBase time.Duration
}

// NewClient builds a client authenticated with the given API and
// application keys.
func NewClient(apiKey, applicationKey string) *Client {
	return &Client{
		apiKey:         apiKey,
		applicationKey: applicationKey,
		baseURL:        defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		maxAttempts: 4,
		backoffBase: 10 * time.Second,
	}
}

// DeviceData fetches the latest snapshot for the device with the given MAC
// address. Non-2xx responses and transport errors are retried identically
// with linear backoff; when the attempts run out the error is returned and
// the cycle has no data. Canceling the context aborts the retry chain.
func (c *Client) DeviceData(ctx context.Context, macAddress string) (Snapshot, error) {
	var body []byte
	err := retry.Do(ctx, "ambient fetch", c.maxAttempts, c.backoffBase, func(attempt int) error {
		b, err := c.fetchOnce(ctx, macAddress)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	var records []Snapshot
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decoding device data: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("device data response contained no records")
	}

	log.Debugf("station data: %v", records[0])
	return records[0], nil
}

func (c *Client) fetchOnce(ctx context.Context, macAddress string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.deviceURL(macAddress), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) deviceURL(macAddress string) string {
	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("applicationKey", c.applicationKey)
	q.Set("limit", "1")
	q.Set("end_date", endDate)
	return fmt.Sprintf("%s/devices/%s?%s", c.baseURL, macAddress, q.Encode())
}
