package events

import (
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-kennel/internal/application"
)

// Topic and event type names for dog intake.
const (
	TopicKennelIntake   = "kennel.intake"
	DogIntakeRequested  = "kennel.dog.intake_requested"
	intakeDateLayout    = application.DateLayout
	intakeDefaultStatus = int64(1)
)

// DogIntakeRequestedEvent is published by supplier systems when a new dog is
// handed over to the kennel.
type DogIntakeRequestedEvent struct {
	Name                     string `json:"name" validate:"required,max=100"`
	Breed                    string `json:"breed" validate:"required,max=100"`
	Supplier                 string `json:"supplier" validate:"required,max=150"`
	BadgeID                  string `json:"badge_id" validate:"max=50"`
	Gender                   string `json:"gender" validate:"required,max=20"`
	BirthDate                string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	DateAcquired             string `json:"date_acquired" validate:"required,datetime=2006-01-02"`
	StatusID                 int64  `json:"status_id" validate:"gte=0"`
	KennellingCharacteristic string `json:"kennelling_characteristic"`
}

// toDogInput converts the event into a create request. A missing status
// defaults to In Training.
func (e DogIntakeRequestedEvent) toDogInput() (application.DogInput, error) {
	birth, err := time.Parse(intakeDateLayout, e.BirthDate)
	if err != nil {
		return application.DogInput{}, fmt.Errorf("invalid birth_date: %w", err)
	}
	acquired, err := time.Parse(intakeDateLayout, e.DateAcquired)
	if err != nil {
		return application.DogInput{}, fmt.Errorf("invalid date_acquired: %w", err)
	}

	statusID := e.StatusID
	if statusID == 0 {
		statusID = intakeDefaultStatus
	}

	return application.DogInput{
		Name:                     e.Name,
		Breed:                    e.Breed,
		Supplier:                 e.Supplier,
		BadgeID:                  e.BadgeID,
		Gender:                   e.Gender,
		BirthDate:                birth,
		DateAcquired:             acquired,
		StatusID:                 statusID,
		KennellingCharacteristic: e.KennellingCharacteristic,
	}, nil
}
