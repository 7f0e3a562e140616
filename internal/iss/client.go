package iss

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/matrixvis/internal/config"
)

var (
	ErrStatus   = errors.New("iss: unexpected status")
	ErrResponse = errors.New("iss: malformed response")
)

// Fix is one observed station position.
type Fix struct {
	Lat, Lon float64
	At       time.Time
}

type Client struct {
	http        *http.Client
	positionURL string
	timeURL     string
	timezone    string
}

func NewClient(cfg config.ISSConfig) *Client {
	return &Client{
		http:        &http.Client{Timeout: cfg.Timeout},
		positionURL: cfg.PositionURL,
		timeURL:     cfg.TimeURL,
		timezone:    cfg.Timezone,
	}
}

type positionResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	Position  struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"iss_position"`
}

// Position fetches the current sub-satellite point.
func (c *Client) Position(ctx context.Context) (Fix, error) {
	var resp positionResponse
	if err := c.getJSON(ctx, c.positionURL, &resp); err != nil {
		return Fix{}, err
	}

	lat, err := strconv.ParseFloat(resp.Position.Latitude, 64)
	if err != nil {
		return Fix{}, fmt.Errorf("%w: latitude %q", ErrResponse, resp.Position.Latitude)
	}
	lon, err := strconv.ParseFloat(resp.Position.Longitude, 64)
	if err != nil {
		return Fix{}, fmt.Errorf("%w: longitude %q", ErrResponse, resp.Position.Longitude)
	}

	at := time.Now()
	if resp.Timestamp > 0 {
		at = time.Unix(resp.Timestamp, 0)
	}
	return Fix{Lat: lat, Lon: lon, At: at}, nil
}

type timeResponse struct {
	TimeZone         string `json:"timeZone"`
	CurrentLocalTime string `json:"currentLocalTime"`
}

// LocalTime fetches wall clock time in the configured zone. The result
// carries the local reading in a UTC location; only its fields matter.
func (c *Client) LocalTime(ctx context.Context) (time.Time, error) {
	u, err := url.Parse(c.timeURL)
	if err != nil {
		return time.Time{}, err
	}
	q := u.Query()
	q.Set("timeZone", c.timezone)
	u.RawQuery = q.Encode()

	var resp timeResponse
	if err := c.getJSON(ctx, u.String(), &resp); err != nil {
		return time.Time{}, err
	}
	return ParseLocalTime(resp.CurrentLocalTime)
}

// ParseLocalTime parses an ISO local timestamp, dropping fractional seconds.
func ParseLocalTime(s string) (time.Time, error) {
	s, _, _ = strings.Cut(s, ".")
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrResponse, s)
	}
	return t, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s from %s", ErrStatus, resp.Status, rawURL)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrResponse, err)
	}
	return nil
}
