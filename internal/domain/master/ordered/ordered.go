package ordered

import "context"

// Row is the slice of an ordered reference row the reindexer needs.
type Row struct {
	ID              string
	DisplayOrderKey *int
}

// Repository are the rank operations every ordered reference collection
// (designations, payroll sections) exposes. Shifts are issued as one range
// UPDATE inside the caller's transaction so duplicate keys never exist, even
// transiently.
type Repository interface {
	// GetRow returns the row's current rank.
	GetRow(ctx context.Context, id string) (Row, error)

	// MaxOrderKey returns the highest non-null rank, 0 when none are ranked.
	MaxOrderKey(ctx context.Context) (int, error)

	// ShiftKeys adds delta to every non-null rank in [from, to]. A to of 0
	// means unbounded.
	ShiftKeys(ctx context.Context, from, to, delta int) error

	// SetKey assigns the row's rank; nil clears it.
	SetKey(ctx context.Context, id string, key *int) error
}
