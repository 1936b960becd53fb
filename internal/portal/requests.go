package portal

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"SunPortal/entity"
)

// requestWire tolerates both snake_case and camelCase request payloads.
// Older list endpoints still answer camelCase.
type requestWire struct {
	ID                string   `json:"id"`
	Type              string   `json:"type"`
	PreferredDate     string   `json:"preferred_date"`
	PreferredDateCC   string   `json:"preferredDate"`
	PreferredTime     string   `json:"preferred_time"`
	PreferredTimeCC   string   `json:"preferredTime"`
	Location          string   `json:"location"`
	Phone             string   `json:"phone"`
	Description       string   `json:"description"`
	Photos            []string `json:"photos"`
	Status            string   `json:"status"`
	CreatedAt         string   `json:"created_at"`
	CreatedAtCC       string   `json:"createdAt"`
	AdminResponse     string   `json:"admin_response"`
	AdminResponseCC   string   `json:"adminResponse"`
	NewProposedDate   string   `json:"new_proposed_date"`
	NewProposedDateCC string   `json:"newProposedDate"`
}

func (w requestWire) normalize() entity.ServiceRequest {
	return entity.ServiceRequest{
		ID:              w.ID,
		Type:            w.Type,
		PreferredDate:   parseDate(pick(w.PreferredDate, w.PreferredDateCC)),
		PreferredTime:   pick(w.PreferredTime, w.PreferredTimeCC),
		Location:        w.Location,
		Phone:           w.Phone,
		Description:     w.Description,
		Photos:          w.Photos,
		Status:          w.Status,
		CreatedAt:       parseDate(pick(w.CreatedAt, w.CreatedAtCC)),
		AdminResponse:   pick(w.AdminResponse, w.AdminResponseCC),
		NewProposedDate: parseDate(pick(w.NewProposedDate, w.NewProposedDateCC)),
	}
}

// ServiceRequestDraft carries the booking form fields for submission.
type ServiceRequestDraft struct {
	Type          string
	PreferredDate time.Time
	PreferredTime string
	Location      string
	Phone         string
	Description   string
	Photos        []entity.Photo
}

// CreateServiceRequest submits a booking as a single multipart request with
// the photo attachments as binary parts.
func (c *Client) CreateServiceRequest(ctx context.Context, draft ServiceRequestDraft) (*entity.ServiceRequest, error) {
	fields := map[string]string{
		"type":           draft.Type,
		"preferred_date": draft.PreferredDate.Format("2006-01-02"),
		"preferred_time": draft.PreferredTime,
		"location":       draft.Location,
		"phone":          draft.Phone,
		"description":    draft.Description,
	}

	var wire requestWire
	if err := c.postMultipart(ctx, "/service-requests", fields, draft.Photos, &wire); err != nil {
		return nil, fmt.Errorf("create service request: %w", err)
	}
	created := wire.normalize()
	return &created, nil
}

// MyRequests lists the current customer's service requests.
func (c *Client) MyRequests(ctx context.Context) ([]entity.ServiceRequest, error) {
	var wires []requestWire
	if err := c.get(ctx, "/service-requests/mine", nil, &wires); err != nil {
		return nil, fmt.Errorf("my requests: %w", err)
	}
	return normalizeRequests(wires), nil
}

// AllRequests lists every service request, optionally filtered by status
// and service type. Admin only.
func (c *Client) AllRequests(ctx context.Context, status, serviceType string) ([]entity.ServiceRequest, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if serviceType != "" {
		query.Set("type", serviceType)
	}

	var wires []requestWire
	if err := c.get(ctx, "/service-requests", query, &wires); err != nil {
		return nil, fmt.Errorf("all requests: %w", err)
	}
	return normalizeRequests(wires), nil
}

// RespondToRequest performs the single admin "respond" action. Rescheduling
// requires a proposed date; callers should gate transitions through
// entity.ServiceRequest.CanRespond first.
func (c *Client) RespondToRequest(ctx context.Context, id, status, adminResponse string, newProposedDate time.Time) error {
	if status == entity.StatusRescheduled && newProposedDate.IsZero() {
		return fmt.Errorf("respond to request %s: reschedule requires a proposed date", id)
	}

	body := map[string]string{"status": status}
	if adminResponse != "" {
		body["admin_response"] = adminResponse
	}
	if !newProposedDate.IsZero() {
		body["new_proposed_date"] = newProposedDate.Format("2006-01-02")
	}

	if err := c.patchJSON(ctx, "/service-requests/"+id+"/respond", body, nil); err != nil {
		return fmt.Errorf("respond to request %s: %w", id, err)
	}
	return nil
}

// AcceptReschedule is the customer-side accept of a proposed new date.
func (c *Client) AcceptReschedule(ctx context.Context, id string) error {
	if err := c.postJSON(ctx, "/service-requests/"+id+"/accept-reschedule", nil, nil); err != nil {
		return fmt.Errorf("accept reschedule %s: %w", id, err)
	}
	return nil
}

func normalizeRequests(wires []requestWire) []entity.ServiceRequest {
	requests := make([]entity.ServiceRequest, 0, len(wires))
	for _, w := range wires {
		requests = append(requests, w.normalize())
	}
	return requests
}
