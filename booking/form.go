// Package booking composes the calendar date selection, a fixed time-slot
// list, contact fields and optional photo attachments into one service
// request submission.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"SunPortal/entity"
	"SunPortal/internal/lib/sl"
	"SunPortal/internal/portal"
)

// DefaultMaxPhotos caps the attachment set for quote and repair requests.
const DefaultMaxPhotos = 5

// TimeSlots is the closed list of bookable times.
var TimeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "14:00", "14:30", "15:00", "15:30",
	"16:00", "16:30", "17:00", "17:30",
}

var validate = validator.New()

// Form holds the booking modal state. A zero date or empty phone blocks
// submission before any network call; a failed submission leaves every
// field populated for retry.
type Form struct {
	ServiceType string     `validate:"required"`
	Date        *time.Time `validate:"required"`
	TimeSlot    string     `validate:"required"`
	Location    string     `validate:"required"`
	Phone       string     `validate:"required,min=6"`
	Description string     `validate:"omitempty,max=2000"`

	photos    []entity.Photo
	maxPhotos int

	api *portal.Client
	log *slog.Logger
}

// NewForm creates an empty booking form for the given service type.
func NewForm(api *portal.Client, serviceType string, log *slog.Logger) *Form {
	return &Form{
		ServiceType: serviceType,
		maxPhotos:   DefaultMaxPhotos,
		api:         api,
		log:         log.With(sl.Module("booking.form")),
	}
}

// SelectDate is the calendar selection callback.
func (f *Form) SelectDate(date time.Time) {
	f.Date = &date
}

// Photos returns the currently attached photo set.
func (f *Form) Photos() []entity.Photo {
	return f.photos
}

// AttachPhotos adds photos up to the cap, silently discarding the rest.
// Returns how many of the given photos were attached.
func (f *Form) AttachPhotos(photos ...entity.Photo) int {
	if !entity.AllowsPhotos(f.ServiceType) {
		return 0
	}
	room := f.maxPhotos - len(f.photos)
	if room <= 0 {
		return 0
	}
	if len(photos) > room {
		photos = photos[:room]
	}
	f.photos = append(f.photos, photos...)
	return len(photos)
}

// RemovePhoto drops an attachment by index.
func (f *Form) RemovePhoto(index int) {
	if index < 0 || index >= len(f.photos) {
		return
	}
	f.photos = append(f.photos[:index], f.photos[index+1:]...)
}

// Validate runs the client-side gate: a date must be selected and a phone
// number present, the slot must come from the closed list and the service
// type must be one we offer. No network call happens until this passes.
func (f *Form) Validate() error {
	if err := validate.Struct(f); err != nil {
		return submitError(err)
	}
	if !entity.ValidServiceType(f.ServiceType) {
		return fmt.Errorf("unknown service type %q", f.ServiceType)
	}
	if !validSlot(f.TimeSlot) {
		return fmt.Errorf("time %q is not a bookable slot", f.TimeSlot)
	}
	if len(f.photos) > 0 && !entity.AllowsPhotos(f.ServiceType) {
		return fmt.Errorf("service type %q does not take photo attachments", f.ServiceType)
	}
	return nil
}

// Submit validates and sends the booking as one multipart request. On
// success the form resets to its initial defaults; on failure it stays
// populated so the customer can retry without re-entering data.
func (f *Form) Submit(ctx context.Context) (*entity.ServiceRequest, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	created, err := f.api.CreateServiceRequest(ctx, portal.ServiceRequestDraft{
		Type:          f.ServiceType,
		PreferredDate: *f.Date,
		PreferredTime: f.TimeSlot,
		Location:      f.Location,
		Phone:         f.Phone,
		Description:   f.Description,
		Photos:        f.photos,
	})
	if err != nil {
		f.log.With(sl.Err(err)).Error("booking submission failed")
		return nil, err
	}

	f.log.Info("booking submitted",
		slog.String("request_id", created.ID),
		slog.String("type", created.Type),
	)
	f.Reset()
	return created, nil
}

// Reset returns the form to its initial defaults, keeping the service type.
func (f *Form) Reset() {
	f.Date = nil
	f.TimeSlot = ""
	f.Location = ""
	f.Phone = ""
	f.Description = ""
	f.photos = nil
}

func validSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// submitError rewrites the first validator failure into a user-facing
// message naming the field.
func submitError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Field() {
		case "Date":
			return fmt.Errorf("select a date before submitting")
		case "Phone":
			return fmt.Errorf("a phone number is required")
		case "TimeSlot":
			return fmt.Errorf("select a time slot")
		case "Location":
			return fmt.Errorf("a location is required")
		}
		return fmt.Errorf("field %s is invalid", fieldErrs[0].Field())
	}
	return err
}
