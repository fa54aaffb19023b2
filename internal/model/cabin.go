package model

// Cabin is a bookable unit as listed by the booking API.
type Cabin struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Capacity      int    `json:"capacity"`
	PricePerNight Money  `json:"price_per_night"`
	IsActive      bool   `json:"is_active"`
}

// FindCabinByName returns the cabin whose name matches exactly.
func FindCabinByName(cabins []Cabin, name string) (Cabin, bool) {
	for _, c := range cabins {
		if c.Name == name {
			return c, true
		}
	}
	return Cabin{}, false
}
