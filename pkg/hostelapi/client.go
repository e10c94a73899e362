package hostelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"hostel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Config struct {
	BaseURL     string
	StorageURL  string
	Placeholder string
	// Timeout of zero keeps the transport default.
	Timeout time.Duration
}

// Client talks to the hostel REST API. The bearer token of the caller is
// taken from the request context.
type Client struct {
	baseURL string
	http    *http.Client
	photos  PhotoResolver
	log     *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		photos:  PhotoResolver{StorageURL: cfg.StorageURL, Placeholder: cfg.Placeholder},
		log:     log.With(zap.String("client", "hostelapi")),
	}
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/register", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &APIError{StatusCode: http.StatusBadGateway, Message: "login response carried no token"}
	}
	return &resp, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdate) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/update-profile", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Rooms lists room types. Sold out types are left out.
func (c *Client) Rooms(ctx context.Context, f RoomFilter) ([]Room, error) {
	return c.listRooms(ctx, "/rooms", f)
}

func (c *Client) AvailableRooms(ctx context.Context, f RoomFilter) ([]Room, error) {
	return c.listRooms(ctx, "/rooms/available", f)
}

func (c *Client) Room(ctx context.Context, id int64, f RoomFilter) (*Room, error) {
	var raw rawRoom
	path := "/rooms/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, f.values(), nil, &raw); err != nil {
		return nil, err
	}
	room := raw.normalize(c.photos)
	if room.ID == 0 {
		room.ID = id
	}
	return &room, nil
}

func (c *Client) listRooms(ctx context.Context, path string, f RoomFilter) ([]Room, error) {
	var raw []rawRoom
	if err := c.doList(ctx, path, f.values(), &raw); err != nil {
		return nil, err
	}
	rooms := make([]Room, 0, len(raw))
	for _, r := range raw {
		room := r.normalize(c.photos)
		if room.ID == 0 || room.AvailableCount <= 0 {
			continue
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (c *Client) MyBookings(ctx context.Context) ([]Booking, error) {
	var bookings []Booking
	if err := c.doList(ctx, "/my-bookings", nil, &bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []Booking{}
	}
	return bookings, nil
}

func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*Booking, error) {
	var booking Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", nil, req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) PayBooking(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/bookings/%d/pay", id), nil, nil, nil)
}

func (c *Client) CancelBooking(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/bookings/%d/cancel", id), nil, nil, nil)
}

func (f RoomFilter) values() url.Values {
	v := url.Values{}
	if f.CheckIn != "" {
		v.Set("check_in", f.CheckIn)
	}
	if f.CheckOut != "" {
		v.Set("check_out", f.CheckOut)
	}
	if f.Guests > 0 {
		v.Set("guests", strconv.Itoa(f.Guests))
	}
	return v
}

// doList accepts both a bare array and a {"data": [...]} envelope.
func (c *Client) doList(ctx context.Context, path string, query url.Values, out any) error {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		raw = envelope.Data
		if len(raw) == 0 {
			return nil
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := utils.GetTokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("upstream call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	apiErr := &APIError{StatusCode: status}
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.message()
		if len(body.Errors) > 0 {
			apiErr.Fields = make(map[string]string, len(body.Errors))
			keys := make([]string, 0, len(body.Errors))
			for field, msgs := range body.Errors {
				if len(msgs) > 0 {
					apiErr.Fields[field] = msgs[0]
					keys = append(keys, field)
				}
			}
			if apiErr.Message == "" && len(keys) > 0 {
				sort.Strings(keys)
				apiErr.Message = apiErr.Fields[keys[0]]
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
