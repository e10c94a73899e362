package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hostel-booking/internal/dto/request"
	"hostel-booking/internal/dto/response"
	"hostel-booking/internal/wizard"
	"hostel-booking/pkg/cache"
	"hostel-booking/pkg/hostelapi"

	"go.uber.org/zap"
)

type RoomService interface {
	List(ctx context.Context, q *request.RoomQuery) ([]response.RoomResponse, error)
	Available(ctx context.Context, q *request.AvailableRoomQuery) ([]response.RoomResponse, error)
	Get(ctx context.Context, id int64, q *request.RoomQuery) (*response.RoomResponse, error)
}

// roomCatalog reads rooms from the hostel API through the response cache.
// Availability answers are never cached.
type roomCatalog struct {
	api   HostelAPI
	store cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func newRoomCatalog(api HostelAPI, store cache.Cache, ttl time.Duration, log *zap.Logger) *roomCatalog {
	if store == nil {
		store = cache.NewNoop()
	}
	return &roomCatalog{
		api:   api,
		store: store,
		ttl:   ttl,
		log:   log.With(zap.String("service", "room_catalog")),
	}
}

func filterKey(f hostelapi.RoomFilter) []string {
	return []string{f.CheckIn, f.CheckOut, strconv.Itoa(f.Guests)}
}

func (c *roomCatalog) cached(ctx context.Context, key string, dst any) bool {
	if c.ttl <= 0 {
		return false
	}
	found, err := c.store.Get(ctx, key, dst)
	if err != nil {
		c.log.Warn("Room cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (c *roomCatalog) remember(ctx context.Context, key string, v any) {
	if c.ttl <= 0 {
		return
	}
	if err := c.store.Set(ctx, key, v, c.ttl); err != nil {
		c.log.Warn("Room cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *roomCatalog) rooms(ctx context.Context, f hostelapi.RoomFilter) ([]hostelapi.Room, error) {
	key := cache.Key(append([]string{"rooms", "list"}, filterKey(f)...)...)
	var rooms []hostelapi.Room
	if c.cached(ctx, key, &rooms) {
		return rooms, nil
	}
	rooms, err := c.api.Rooms(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	c.remember(ctx, key, rooms)
	return rooms, nil
}

func (c *roomCatalog) available(ctx context.Context, f hostelapi.RoomFilter) ([]hostelapi.Room, error) {
	rooms, err := c.api.AvailableRooms(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("available rooms: %w", err)
	}
	return rooms, nil
}

func (c *roomCatalog) room(ctx context.Context, id int64, f hostelapi.RoomFilter) (*hostelapi.Room, error) {
	key := cache.Key(append([]string{"rooms", strconv.FormatInt(id, 10)}, filterKey(f)...)...)
	var room hostelapi.Room
	if c.cached(ctx, key, &room) {
		return &room, nil
	}
	found, err := c.api.Room(ctx, id, f)
	if errors.Is(err, hostelapi.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room %d: %w", id, err)
	}
	c.remember(ctx, key, found)
	return found, nil
}

// wizardRooms adapts the catalog to the wizard's room source.
type wizardRooms struct {
	catalog *roomCatalog
}

func toFilter(q wizard.RoomQuery) hostelapi.RoomFilter {
	return hostelapi.RoomFilter{CheckIn: q.CheckIn, CheckOut: q.CheckOut, Guests: q.Guests}
}

func toSummary(r hostelapi.Room) wizard.RoomSummary {
	amenities := make([]string, 0, len(r.Amenities))
	for _, a := range r.Amenities {
		amenities = append(amenities, a.Name)
	}
	return wizard.RoomSummary{
		ID:             r.ID,
		Name:           r.Name,
		Slug:           r.Slug,
		NightlyPrice:   r.NightlyPrice,
		Capacity:       r.Capacity,
		AvailableCount: r.AvailableCount,
		Amenities:      amenities,
		Photos:         append([]string(nil), r.Photos...),
		Description:    r.Description,
	}
}

func toSummaries(rooms []hostelapi.Room) []wizard.RoomSummary {
	out := make([]wizard.RoomSummary, len(rooms))
	for i, r := range rooms {
		out[i] = toSummary(r)
	}
	return out
}

func (w wizardRooms) AllRooms(ctx context.Context) ([]wizard.RoomSummary, error) {
	rooms, err := w.catalog.rooms(ctx, hostelapi.RoomFilter{})
	if err != nil {
		return nil, err
	}
	return toSummaries(rooms), nil
}

func (w wizardRooms) AvailableRooms(ctx context.Context, q wizard.RoomQuery) ([]wizard.RoomSummary, error) {
	rooms, err := w.catalog.available(ctx, toFilter(q))
	if err != nil {
		return nil, err
	}
	return toSummaries(rooms), nil
}

func (w wizardRooms) Room(ctx context.Context, id int64, q wizard.RoomQuery) (*wizard.RoomSummary, error) {
	room, err := w.catalog.room(ctx, id, toFilter(q))
	if err != nil {
		return nil, err
	}
	summary := toSummary(*room)
	return &summary, nil
}

type roomService struct {
	catalog *roomCatalog
	log     *zap.Logger
}

func NewRoomService(catalog *roomCatalog, log *zap.Logger) RoomService {
	return &roomService{
		catalog: catalog,
		log:     log.With(zap.String("service", "room")),
	}
}

func checkRange(checkIn, checkOut string) error {
	if checkIn == "" || checkOut == "" {
		return nil
	}
	in, err := wizard.ParseDate(checkIn)
	if err != nil {
		return fieldError("check_in", "Must be a date in 2006-01-02 format")
	}
	out, err := wizard.ParseDate(checkOut)
	if err != nil {
		return fieldError("check_out", "Must be a date in 2006-01-02 format")
	}
	if !out.After(in) {
		return fieldError("check_out", "Must be after check_in")
	}
	return nil
}

func (s *roomService) List(ctx context.Context, q *request.RoomQuery) ([]response.RoomResponse, error) {
	if err := validate(q); err != nil {
		return nil, err
	}
	if err := checkRange(q.CheckIn, q.CheckOut); err != nil {
		return nil, err
	}
	rooms, err := s.catalog.rooms(ctx, hostelapi.RoomFilter{CheckIn: q.CheckIn, CheckOut: q.CheckOut, Guests: q.Guests})
	if err != nil {
		s.log.Error("Failed to list rooms", zap.Error(err))
		return nil, err
	}
	return response.RoomsToResponse(rooms), nil
}

func (s *roomService) Available(ctx context.Context, q *request.AvailableRoomQuery) ([]response.RoomResponse, error) {
	if err := validate(q); err != nil {
		return nil, err
	}
	if err := checkRange(q.CheckIn, q.CheckOut); err != nil {
		return nil, err
	}
	rooms, err := s.catalog.available(ctx, hostelapi.RoomFilter{CheckIn: q.CheckIn, CheckOut: q.CheckOut, Guests: q.Guests})
	if err != nil {
		s.log.Error("Failed to fetch available rooms", zap.Error(err))
		return nil, err
	}
	return response.RoomsToResponse(rooms), nil
}

func (s *roomService) Get(ctx context.Context, id int64, q *request.RoomQuery) (*response.RoomResponse, error) {
	if id <= 0 {
		return nil, ErrRoomNotFound
	}
	if err := validate(q); err != nil {
		return nil, err
	}
	room, err := s.catalog.room(ctx, id, hostelapi.RoomFilter{CheckIn: q.CheckIn, CheckOut: q.CheckOut, Guests: q.Guests})
	if err != nil {
		if !errors.Is(err, ErrRoomNotFound) {
			s.log.Error("Failed to get room", zap.Int64("room_id", id), zap.Error(err))
		}
		return nil, err
	}
	resp := response.RoomToResponse(*room)
	return &resp, nil
}
