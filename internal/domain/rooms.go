package domain

// Room is one entry of the lodge's room catalog.
type Room struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	MaxGuests   int    `json:"maxGuests"`
	Bed         string `json:"bed"`
}

// Rooms is the catalog in display order.
var Rooms = []Room{
	{ID: "deluxe", Name: "Deluxe Room", Price: "$200", Description: "Spacious room with city views", MaxGuests: 4, Bed: "King bed"},
	{ID: "executive", Name: "Executive Suite", Price: "$350", Description: "Luxury suite with separate living area", MaxGuests: 4, Bed: "King bed"},
	{ID: "presidential", Name: "Presidential Suite", Price: "$500", Description: "Ultimate luxury with panoramic views", MaxGuests: 4, Bed: "King bed"},
}

// LookupRoom returns the room with the given id or ErrUnknownRoom.
func LookupRoom(id string) (Room, error) {
	for _, r := range Rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return Room{}, ErrUnknownRoom
}
