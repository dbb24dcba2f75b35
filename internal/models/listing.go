package models

import "encoding/json"

// Listing is a rentable property record as served by the listings API.
// The API speaks the backend's original French field names on the wire.
type Listing struct {
	ID            int64     `json:"id"`
	Title         string    `json:"titre"`
	Location      string    `json:"localisation"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	PricePerNight float64   `json:"prixParNuit"`
	Surface       *int      `json:"surface,omitempty"`
	Description   string    `json:"description,omitempty"`
	Images        ImageList `json:"images"`
	Capacity      []string  `json:"capacite,omitempty"`
	Rules         []string  `json:"regles,omitempty"`
	Equipment     []string  `json:"equipements,omitempty"`
	Included      []string  `json:"inclus,omitempty"`
	Excluded      []string  `json:"nonInclus,omitempty"`
	Host          string    `json:"hote,omitempty"`
}

// HasCoordinates reports whether the listing carries explicit coordinates.
func (l Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Coordinate returns the listing's explicit coordinate. Only meaningful when
// HasCoordinates is true.
func (l Listing) Coordinate() Coordinate {
	if !l.HasCoordinates() {
		return Coordinate{}
	}
	return Coordinate{Latitude: *l.Latitude, Longitude: *l.Longitude}
}

// ListingDraft is the payload for creating a new listing. The server is the
// sole validator of record; only the fields the submit form collects are sent.
type ListingDraft struct {
	Title         string   `json:"titre"`
	Location      string   `json:"localisation"`
	PricePerNight float64  `json:"prixParNuit"`
	Surface       *int     `json:"surface,omitempty"`
	Description   string   `json:"description,omitempty"`
	Images        []string `json:"images,omitempty"`
	Capacity      []string `json:"capacite,omitempty"`
	Rules         []string `json:"regles,omitempty"`
	Equipment     []string `json:"equipements,omitempty"`
	Included      []string `json:"inclus,omitempty"`
	Excluded      []string `json:"nonInclus,omitempty"`
	Host          string   `json:"hote,omitempty"`
}

// ImageList is a sequence of image URLs. Older rows in the backend store the
// list as a JSON-encoded string rather than a real array, so decoding accepts
// both forms; anything malformed decodes to an empty list rather than failing
// the whole listing.
type ImageList []string

// UnmarshalJSON implements the lenient image-field decoding.
func (il *ImageList) UnmarshalJSON(data []byte) error {
	*il = DecodeImages(data)
	return nil
}

// DecodeImages decodes an image field that may be a JSON array of URLs or a
// string containing a JSON-encoded array. Malformed input yields an empty
// list.
func DecodeImages(data []byte) []string {
	var urls []string
	if err := json.Unmarshal(data, &urls); err == nil {
		return urls
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return []string{}
	}
	if err := json.Unmarshal([]byte(encoded), &urls); err != nil {
		return []string{}
	}
	return urls
}

// ListingGroup is a non-empty set of listings that resolved to the same
// rounded coordinate, in resolution order. Coordinate holds the rounded
// value shared by every member.
type ListingGroup struct {
	Coordinate Coordinate `json:"coordinate"`
	Listings   []Listing  `json:"listings"`
}
