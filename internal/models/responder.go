package models

import (
	"net/url"
)

// Category kind of responder a place search targets
type Category string

const (
	CategoryHospital Category = "hospital"
	CategoryPolice   Category = "police"
)

// Categories returns the searched categories in their fixed merge order.
func Categories() []Category {
	return []Category{CategoryHospital, CategoryPolice}
}

// ResponderCandidate a nearby hospital or police station
type ResponderCandidate struct {
	ID             string   `json:"id"`
	Category       Category `json:"category"`
	Position       Position `json:"position"`
	DisplayName    string   `json:"display_name"`
	AddressSnippet string   `json:"address_snippet"`
}

// DirectionsURL returns a maps link routing to the candidate.
func (c ResponderCandidate) DirectionsURL() string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", c.DisplayName)
	if c.ID != "" {
		q.Set("destination_place_id", c.ID)
	}
	return "https://www.google.com/maps/dir/?" + q.Encode()
}
