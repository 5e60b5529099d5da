// Package form implements the state coordination core of the collection-point
// registration flow. Each store owns exactly one concern of the form; Session
// composes them and is their sole mutator. Collaborator services (region
// directory, item catalog, geolocation, registration endpoint) are consumed
// through the narrow interfaces declared in session.go.
package form

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Item is one selectable recyclable-item category. Items are read-only
// reference data fetched once per session; identity is ID.
type Item struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

// Record is the snapshot assembled at submit time and sent to the
// registration endpoint. Items holds the selected item ids in toggle order.
type Record struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	UF        string  `json:"uf"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Items     []int   `json:"items"`
}
