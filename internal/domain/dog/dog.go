package dog

import (
	"time"
)

// Resource names carried by NotFound errors raised for this aggregate and
// its reference data.
const (
	ResourceDog           = "Dog"
	ResourceStatus        = "Status"
	ResourceLeavingReason = "LeavingReason"
)

// Details are the descriptive attributes of a dog. Badge id and kennelling
// characteristic are optional and empty when unset.
type Details struct {
	Name                     string
	Breed                    string
	Supplier                 string
	BadgeID                  string
	Gender                   string
	BirthDate                time.Time
	DateAcquired             time.Time
	KennellingCharacteristic string
}

// Dog is the aggregate root for a dog record.
type Dog struct {
	id              int64
	details         Details
	statusID        int64
	leavingDate     *time.Time
	leavingReasonID *int64
	deleted         bool
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

// NewDog creates an active, not-yet-persisted dog. The status and leaving
// reason ids must already have been resolved by the caller.
func NewDog(details Details, statusID int64, leavingDate *time.Time, leavingReasonID *int64) *Dog {
	now := time.Now().UTC()
	return &Dog{
		details:         details,
		statusID:        statusID,
		leavingDate:     copyTime(leavingDate),
		leavingReasonID: copyID(leavingReasonID),
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}
}

// Reconstruct rebuilds a Dog from persistence data (no validation).
func Reconstruct(
	id int64,
	details Details,
	statusID int64,
	leavingDate *time.Time,
	leavingReasonID *int64,
	deleted bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Dog {
	return &Dog{
		id:              id,
		details:         details,
		statusID:        statusID,
		leavingDate:     copyTime(leavingDate),
		leavingReasonID: copyID(leavingReasonID),
		deleted:         deleted,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (d *Dog) ID() int64                        { return d.id }
func (d *Dog) Details() Details                 { return d.details }
func (d *Dog) Name() string                     { return d.details.Name }
func (d *Dog) Breed() string                    { return d.details.Breed }
func (d *Dog) Supplier() string                 { return d.details.Supplier }
func (d *Dog) BadgeID() string                  { return d.details.BadgeID }
func (d *Dog) Gender() string                   { return d.details.Gender }
func (d *Dog) BirthDate() time.Time             { return d.details.BirthDate }
func (d *Dog) DateAcquired() time.Time          { return d.details.DateAcquired }
func (d *Dog) KennellingCharacteristic() string { return d.details.KennellingCharacteristic }
func (d *Dog) StatusID() int64                  { return d.statusID }
func (d *Dog) LeavingDate() *time.Time          { return copyTime(d.leavingDate) }
func (d *Dog) LeavingReasonID() *int64          { return copyID(d.leavingReasonID) }
func (d *Dog) IsDeleted() bool                  { return d.deleted }
func (d *Dog) Version() int64                   { return d.version }
func (d *Dog) CreatedAt() time.Time             { return d.createdAt }
func (d *Dog) UpdatedAt() time.Time             { return d.updatedAt }

// --- Behavior ---

// AssignID records the store-assigned identifier. Once set it never changes.
func (d *Dog) AssignID(id int64) {
	if d.id == 0 {
		d.id = id
	}
}

// Replace overwrites every descriptive field and both references. A nil
// leaving reason clears the reference.
func (d *Dog) Replace(details Details, statusID int64, leavingDate *time.Time, leavingReasonID *int64) {
	d.details = details
	d.statusID = statusID
	d.leavingDate = copyTime(leavingDate)
	d.leavingReasonID = copyID(leavingReasonID)
	d.version++
	d.updatedAt = time.Now().UTC()
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
