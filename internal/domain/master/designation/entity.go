package designation

import "time"

// Designation - reference data with a manually assigned display rank.
// Non-null DisplayOrderKey values across the collection always form a
// contiguous 1..N range; a null key means the row is unordered and listed
// last.
type Designation struct {
	ID              string
	Name            string
	DisplayOrderKey *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
