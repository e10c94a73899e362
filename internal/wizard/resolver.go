package wizard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DeepLink carries the raw navigation parameters a wizard is opened with.
type DeepLink struct {
	RoomID   string
	CheckIn  string
	CheckOut string
	Guests   string
}

// ParseDeepLink reads snake_case keys and falls back to their camelCase aliases.
func ParseDeepLink(v url.Values) DeepLink {
	first := func(keys ...string) string {
		for _, k := range keys {
			if s := strings.TrimSpace(v.Get(k)); s != "" {
				return s
			}
		}
		return ""
	}
	return DeepLink{
		RoomID:   first("room_id", "roomId"),
		CheckIn:  first("check_in", "checkIn"),
		CheckOut: first("check_out", "checkOut"),
		Guests:   first("guests"),
	}
}

// Values renders the link with the canonical snake_case keys.
func (l DeepLink) Values() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	set("room_id", l.RoomID)
	set("check_in", l.CheckIn)
	set("check_out", l.CheckOut)
	set("guests", l.Guests)
	return v
}

// Resolve seeds the draft from a deep link and picks the first interactive step.
// Room fetch problems end on the room step with a warning instead of an error.
// A resolution overtaken by a newer one, or by Close, returns ErrStaleResolution.
func (c *Controller) Resolve(ctx context.Context, link DeepLink) error {
	c.mu.Lock()
	if err := c.busy(); err != nil && !errors.Is(err, ErrLoading) {
		c.mu.Unlock()
		return err
	}
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrTransitionInFlight
	}
	c.resolveSeq++
	seq := c.resolveSeq
	c.warning = ""
	c.seedLocked(link)

	if link.RoomID == "" {
		c.loading = false
		c.landLocked(StepRoom)
		c.mu.Unlock()
		return nil
	}
	id, err := strconv.ParseInt(link.RoomID, 10, 64)
	if err != nil || id <= 0 {
		c.loading = false
		c.warning = fmt.Sprintf("room %q is not a valid room id", link.RoomID)
		c.landLocked(StepRoom)
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	q := queryOf(&c.draft)
	c.mu.Unlock()

	room, err := c.deps.Rooms.Room(ctx, id, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.resolveSeq || c.closed {
		return ErrStaleResolution
	}
	c.loading = false
	if err != nil || room == nil {
		c.log.Warn("deep link room unavailable", zap.Int64("room_id", id), zap.Error(err))
		c.warning = fmt.Sprintf("room %d is not available, please choose another one", id)
		c.draft.Room = nil
		c.draft.recalculate()
		c.landLocked(StepRoom)
		return nil
	}

	c.draft.Room = room.clone()
	c.draft.recalculate()
	err = c.dates.CanLeave(&c.draft)
	if err == nil {
		c.landLocked(StepGuest)
		return nil
	}
	if errors.Is(err, ErrCheckInPast) {
		c.addWarningLocked("check-in date is in the past, please choose new dates")
	}
	c.landLocked(StepDates)
	return nil
}

// seedLocked copies dates and guests from link into the draft. Unusable values are dropped.
func (c *Controller) seedLocked(link DeepLink) {
	var dropped []string
	if ci, err := NormalizeDate(link.CheckIn); err == nil {
		c.draft.CheckIn = ci
	} else {
		c.draft.CheckIn = ""
		dropped = append(dropped, "check_in")
	}
	if co, err := NormalizeDate(link.CheckOut); err == nil {
		c.draft.CheckOut = co
	} else {
		c.draft.CheckOut = ""
		dropped = append(dropped, "check_out")
	}
	c.draft.Guests = 1
	if link.Guests != "" {
		n, err := strconv.Atoi(link.Guests)
		switch {
		case err != nil:
			dropped = append(dropped, "guests")
		case n < 1:
			c.draft.Guests = 1
		case n > c.opts.MaxGuests:
			c.draft.Guests = c.opts.MaxGuests
		default:
			c.draft.Guests = n
		}
	}
	if len(dropped) > 0 {
		c.addWarningLocked("ignored invalid " + strings.Join(dropped, ", "))
	}
	c.draft.recalculate()
}

func (c *Controller) addWarningLocked(msg string) {
	if c.warning != "" {
		c.warning += "; "
	}
	c.warning += msg
}

func (c *Controller) landLocked(s Step) {
	c.prev = c.step
	c.step = s
	c.phase = PhaseIdle
}
