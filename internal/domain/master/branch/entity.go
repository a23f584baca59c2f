package branch

import "time"

// Branch - a company branch/site. Plain reference data: no display ranking.
type Branch struct {
	ID        string
	Name      string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
