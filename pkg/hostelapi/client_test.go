package hostelapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"hostel-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:     srv.URL + "/api/",
		StorageURL:  "http://cdn.local",
		Placeholder: "/placeholder.jpg",
	}, nil)
}

func TestClient_RoomsNormalizesListing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rooms", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("guests"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[
			{"id": 1, "cheapest_room_id": "17", "type_name": "Dorm", "cheapest_price": "1500.50",
			 "capacity": 6, "available_count": 3, "photos": ["dorm.jpg", "rooms/b.jpg"],
			 "amenities": ["wifi", "locker"]},
			{"id": 2, "name": "Private", "price_per_night": 4000, "capacity": "2",
			 "amenities": [{"name": "tv", "icon_class": "bx-tv"}], "photos": null},
			{"id": 3, "name": "Sold out", "price_per_night": 900, "available_count": 0}
		]`)
	})

	rooms, err := c.Rooms(context.Background(), RoomFilter{Guests: 2})
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	assert.Equal(t, int64(17), rooms[0].ID)
	assert.Equal(t, "Dorm", rooms[0].Name)
	assert.Equal(t, 1500.5, rooms[0].NightlyPrice)
	assert.Equal(t, 3, rooms[0].AvailableCount)
	assert.Equal(t, []string{
		"http://cdn.local/storage/rooms/dorm.jpg",
		"http://cdn.local/storage/rooms/b.jpg",
	}, rooms[0].Photos)
	assert.Equal(t, []Amenity{{Name: "wifi"}, {Name: "locker"}}, rooms[0].Amenities)

	assert.Equal(t, int64(2), rooms[1].ID)
	assert.Equal(t, "Private", rooms[1].Name)
	assert.Equal(t, 4000.0, rooms[1].NightlyPrice)
	assert.Equal(t, 2, rooms[1].Capacity)
	assert.Equal(t, 1, rooms[1].AvailableCount)
	assert.Equal(t, []string{"/placeholder.jpg"}, rooms[1].Photos)
	assert.Equal(t, []Amenity{{Name: "tv", IconClass: "bx-tv"}}, rooms[1].Amenities)
}

func TestClient_AvailableRoomsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rooms/available", r.URL.Path)
		assert.Equal(t, "2025-06-01", r.URL.Query().Get("check_in"))
		assert.Equal(t, "2025-06-03", r.URL.Query().Get("check_out"))
		_, _ = io.WriteString(w, `{"data": [{"id": 5, "name": "Twin", "price_per_night": 2500, "available_count": 1}]}`)
	})

	rooms, err := c.AvailableRooms(context.Background(), RoomFilter{CheckIn: "2025-06-01", CheckOut: "2025-06-03"})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, int64(5), rooms[0].ID)
}

func TestClient_RoomNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message": "Room not found"}`)
	})

	_, err := c.Room(context.Background(), 42, RoomFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Room not found", Message(err, "fallback"))
}

func TestClient_AttachesBearerFromContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer upstream-token", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"id": "9", "name": "Ivan", "passport_series": "4510"}`)
	})

	ctx := utils.SetTokenContext(context.Background(), "upstream-token")
	user, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlexInt(9), user.ID)
	assert.Equal(t, "4510", user.PassportSeries)
}

func TestClient_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error": "Unauthenticated."}`)
	})

	_, err := c.MyBookings(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Unauthenticated.", Message(err, ""))
}

func TestClient_CreateBooking(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bookings", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["room_id"])
		assert.Equal(t, "2025-06-01", body["check_in_date"])
		assert.Contains(t, body, "guest_passport_series")
		assert.NotContains(t, body, "guest_email")

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 101, "status": "pending_payment", "total_price": "2000.00"}`)
	})

	b, err := c.CreateBooking(context.Background(), BookingRequest{RoomID: 7, CheckInDate: "2025-06-01", CheckOutDate: "2025-06-03"})
	require.NoError(t, err)
	assert.Equal(t, FlexInt(101), b.ID)
	assert.Equal(t, StatusPendingPayment, b.Status)
	assert.Equal(t, FlexFloat(2000), b.TotalPrice)
}

func TestClient_ValidationErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"errors": {"email": ["The email has already been taken."]}}`)
	})

	_, err := c.Register(context.Background(), RegisterRequest{Email: "a@b.c"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "The email has already been taken.", apiErr.Message)
	assert.Equal(t, map[string]string{"email": "The email has already been taken."}, apiErr.Fields)
}

func TestClient_LoginWithoutToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"})
	assert.Error(t, err)
}

func TestClient_PayAndCancel(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.PayBooking(context.Background(), 3))
	require.NoError(t, c.CancelBooking(context.Background(), 4))
	assert.Equal(t, []string{"POST /api/bookings/3/pay", "POST /api/bookings/4/cancel"}, paths)
}

func TestPhotoResolver(t *testing.T) {
	p := PhotoResolver{StorageURL: "http://127.0.0.1:8000/", Placeholder: "/ph.jpg"}

	tests := []struct {
		in   string
		want string
	}{
		{"", "/ph.jpg"},
		{"https://img.example/a.jpg", "https://img.example/a.jpg"},
		{"/storage/rooms/a.jpg", "http://127.0.0.1:8000/storage/rooms/a.jpg"},
		{"rooms/a.jpg", "http://127.0.0.1:8000/storage/rooms/a.jpg"},
		{"a.jpg", "http://127.0.0.1:8000/storage/rooms/a.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.URL(tt.in), tt.in)
	}

	assert.Equal(t, []string{"/ph.jpg"}, p.Resolve(nil))
	assert.Equal(t, []string{"/ph.jpg"}, p.Resolve([]string{" "}))
}
