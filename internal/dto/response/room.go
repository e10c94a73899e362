package response

import "hostel-booking/pkg/hostelapi"

type AmenityResponse struct {
	Name      string `json:"name"`
	IconClass string `json:"icon_class,omitempty"`
}

type RoomResponse struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Slug           string            `json:"slug"`
	NightlyPrice   float64           `json:"nightly_price"`
	Capacity       int               `json:"capacity"`
	AvailableCount int               `json:"available_count"`
	Amenities      []AmenityResponse `json:"amenities"`
	Photos         []string          `json:"photos"`
	Description    string            `json:"description,omitempty"`
}

func RoomToResponse(r hostelapi.Room) RoomResponse {
	amenities := make([]AmenityResponse, len(r.Amenities))
	for i, a := range r.Amenities {
		amenities[i] = AmenityResponse{Name: a.Name, IconClass: a.IconClass}
	}
	return RoomResponse{
		ID:             r.ID,
		Name:           r.Name,
		Slug:           r.Slug,
		NightlyPrice:   r.NightlyPrice,
		Capacity:       r.Capacity,
		AvailableCount: r.AvailableCount,
		Amenities:      amenities,
		Photos:         r.Photos,
		Description:    r.Description,
	}
}

func RoomsToResponse(rooms []hostelapi.Room) []RoomResponse {
	out := make([]RoomResponse, len(rooms))
	for i, r := range rooms {
		out[i] = RoomToResponse(r)
	}
	return out
}
