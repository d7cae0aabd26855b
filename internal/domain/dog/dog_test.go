package dog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDetails(name string) Details {
	return Details{
		Name:         name,
		Breed:        "German Shepherd",
		Supplier:     "ABC Kennels",
		Gender:       "Male",
		BirthDate:    time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		DateAcquired: time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewDog_Defaults(t *testing.T) {
	d := NewDog(sampleDetails("Rex"), 1, nil, nil)

	assert.Zero(t, d.ID())
	assert.False(t, d.IsDeleted())
	assert.Equal(t, int64(1), d.Version())
	assert.Equal(t, int64(1), d.StatusID())
	assert.Nil(t, d.LeavingReasonID())
	assert.Equal(t, d.CreatedAt(), d.UpdatedAt())
}

func TestAssignID_Immutable(t *testing.T) {
	d := NewDog(sampleDetails("Rex"), 1, nil, nil)
	d.AssignID(10)
	d.AssignID(11)

	assert.Equal(t, int64(10), d.ID())
}

func TestReplace_ClearsLeavingReason(t *testing.T) {
	left := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	reason := int64(2)
	d := NewDog(sampleDetails("Rex"), 4, &left, &reason)
	before := d.UpdatedAt()

	d.Replace(sampleDetails("Max"), 1, nil, nil)

	assert.Equal(t, "Max", d.Name())
	assert.Equal(t, int64(1), d.StatusID())
	assert.Nil(t, d.LeavingDate())
	assert.Nil(t, d.LeavingReasonID())
	assert.Equal(t, int64(2), d.Version())
	assert.False(t, d.UpdatedAt().Before(before))
}

func TestGetters_ReturnCopies(t *testing.T) {
	reason := int64(3)
	d := NewDog(sampleDetails("Rex"), 1, nil, &reason)

	got := d.LeavingReasonID()
	require.NotNil(t, got)
	*got = 99

	assert.Equal(t, int64(3), *d.LeavingReasonID())
}

func TestNewPageRequest(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, Limit: DefaultPageSize}, NewPageRequest(0, 0))
	assert.Equal(t, PageRequest{Page: 3, Limit: MaxPageSize}, NewPageRequest(3, 500))
	assert.Equal(t, 4, NewPageRequest(3, 2).Offset())
}

func TestSearchFilter_Matches(t *testing.T) {
	beagle := NewDog(Details{Name: "Buddy", Breed: "Beagle", Supplier: "ABC Kennels"}, 1, nil, nil)

	assert.True(t, SearchFilter{}.Matches(beagle))
	assert.True(t, SearchFilter{Name: "budd"}.Matches(beagle))
	assert.True(t, SearchFilter{Breed: "BEAG", Supplier: "abc"}.Matches(beagle))
	assert.False(t, SearchFilter{Breed: "beagle", Supplier: "XYZ"}.Matches(beagle))
	assert.True(t, SearchFilter{Name: "   "}.IsEmpty())
	assert.False(t, SearchFilter{Supplier: "abc"}.IsEmpty())
}
