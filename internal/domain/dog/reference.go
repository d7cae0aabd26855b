package dog

// Status is a lifecycle status a dog can be in. Read-only reference data.
type Status struct {
	ID   int64
	Name string
}

// LeavingReason explains why a dog left the organization. Read-only
// reference data.
type LeavingReason struct {
	ID   int64
	Name string
}

// DefaultStatuses is the seed set shipped with the initial migration.
func DefaultStatuses() []Status {
	return []Status{
		{ID: 1, Name: "In Training"},
		{ID: 2, Name: "In Service"},
		{ID: 3, Name: "Retired"},
		{ID: 4, Name: "Left"},
	}
}

// DefaultLeavingReasons is the seed set shipped with the initial migration.
func DefaultLeavingReasons() []LeavingReason {
	return []LeavingReason{
		{ID: 1, Name: "Transferred"},
		{ID: 2, Name: "Retired"},
		{ID: 3, Name: "Rehomed"},
		{ID: 4, Name: "Deceased"},
		{ID: 5, Name: "Unsuitable"},
	}
}
