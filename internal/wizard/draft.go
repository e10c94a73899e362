package wizard

// RoomSummary is the denormalized room type shown in listings and carried by the draft.
type RoomSummary struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	NightlyPrice   float64  `json:"nightly_price"`
	Capacity       int      `json:"capacity"`
	AvailableCount int      `json:"available_count"`
	Amenities      []string `json:"amenities"`
	Photos         []string `json:"photos"`
	Description    string   `json:"description,omitempty"`
}

func (r *RoomSummary) clone() *RoomSummary {
	if r == nil {
		return nil
	}
	c := *r
	c.Amenities = append([]string(nil), r.Amenities...)
	c.Photos = append([]string(nil), r.Photos...)
	return &c
}

// GuestData holds guest identity fields; dates are ISO strings.
type GuestData struct {
	Name             string `json:"name"`
	Surname          string `json:"surname"`
	SecondName       string `json:"second_name"`
	Birthday         string `json:"birthday"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	PassportSeries   string `json:"passport_series"`
	PassportNumber   string `json:"passport_number"`
	PassportIssuedAt string `json:"passport_issued_at"`
	PassportIssuedBy string `json:"passport_issued_by"`
	SpecialRequests  string `json:"special_requests"`
}

// Missing returns the required fields that are empty, in form order.
func (g GuestData) Missing() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"name", g.Name},
		{"surname", g.Surname},
		{"phone", g.Phone},
		{"passport_series", g.PassportSeries},
		{"passport_number", g.PassportNumber},
	}
	for _, f := range required {
		if isBlank(f.value) {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// MergeEmpty fills fields that are empty in g from src. Typed values always win.
func (g GuestData) MergeEmpty(src GuestData) GuestData {
	fill := func(dst *string, v string) {
		if isBlank(*dst) && !isBlank(v) {
			*dst = v
		}
	}
	fill(&g.Name, src.Name)
	fill(&g.Surname, src.Surname)
	fill(&g.SecondName, src.SecondName)
	fill(&g.Birthday, src.Birthday)
	fill(&g.Phone, src.Phone)
	fill(&g.Email, src.Email)
	fill(&g.PassportSeries, src.PassportSeries)
	fill(&g.PassportNumber, src.PassportNumber)
	fill(&g.PassportIssuedAt, src.PassportIssuedAt)
	fill(&g.PassportIssuedBy, src.PassportIssuedBy)
	fill(&g.SpecialRequests, src.SpecialRequests)
	return g
}

// Draft is the booking being assembled across the wizard steps.
type Draft struct {
	Room       *RoomSummary `json:"room"`
	CheckIn    string       `json:"check_in"`
	CheckOut   string       `json:"check_out"`
	Guests     int          `json:"guests"`
	TotalPrice float64      `json:"total_price"`
	Guest      GuestData    `json:"guest"`
}

func NewDraft() Draft {
	return Draft{Guests: 1}
}

func (d Draft) Clone() Draft {
	d.Room = d.Room.clone()
	return d
}

// Quote prices the current room and dates. ok is false while either is missing.
func (d Draft) Quote() (Price, bool) {
	if d.Room == nil {
		return Price{}, false
	}
	return QuoteDates(d.Room.NightlyPrice, d.CheckIn, d.CheckOut)
}

// recalculate refreshes the cached total; called after any room or date change.
func (d *Draft) recalculate() {
	p, ok := d.Quote()
	if !ok {
		d.TotalPrice = 0
		return
	}
	d.TotalPrice = p.Total
}
