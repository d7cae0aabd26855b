package dog

import (
	"strconv"

	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/apperror"
)

// NewDogNotFound reports an unknown or soft-deleted dog.
func NewDogNotFound(id int64) error {
	return apperror.NewNotFoundError(ResourceDog, strconv.FormatInt(id, 10))
}

// NewStatusNotFound reports an unknown status id.
func NewStatusNotFound(id int64) error {
	return apperror.NewNotFoundError(ResourceStatus, strconv.FormatInt(id, 10))
}

// NewLeavingReasonNotFound reports an unknown leaving reason id.
func NewLeavingReasonNotFound(id int64) error {
	return apperror.NewNotFoundError(ResourceLeavingReason, strconv.FormatInt(id, 10))
}
