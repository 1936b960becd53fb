package entity

import (
	"time"
)

// Service types offered through the booking form.
const (
	ServiceConsultatie = "consultatie"
	ServiceOferta      = "oferta"
	ServiceInstalare   = "instalare"
	ServiceMentenanta  = "mentenanta"
	ServiceReparatie   = "reparatie"
)

// Request statuses. Accepted and rejected are terminal; a rescheduled
// request waits for the customer to accept the proposed date.
const (
	StatusPending     = "pending"
	StatusAccepted    = "accepted"
	StatusRejected    = "rejected"
	StatusRescheduled = "rescheduled"
)

// ServiceRequest is a customer booking tracked through the admin-controlled
// status lifecycle. The client holds re-fetchable copies only.
type ServiceRequest struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	PreferredDate   time.Time `json:"preferred_date"`
	PreferredTime   string    `json:"preferred_time"`
	Location        string    `json:"location"`
	Phone           string    `json:"phone"`
	Description     string    `json:"description"`
	Photos          []string  `json:"photos"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	AdminResponse   string    `json:"admin_response,omitempty"`
	NewProposedDate time.Time `json:"new_proposed_date,omitempty"`
}

// IsTerminal reports whether the request can no longer change status.
func (r *ServiceRequest) IsTerminal() bool {
	return r.Status == StatusAccepted || r.Status == StatusRejected
}

// CanRespond reports whether an admin response may move the request to the
// given status. Only pending requests accept a response.
func (r *ServiceRequest) CanRespond(to string) bool {
	if r.Status != StatusPending {
		return false
	}
	switch to {
	case StatusAccepted, StatusRejected, StatusRescheduled:
		return true
	}
	return false
}

// CanAcceptReschedule reports whether the customer may accept a proposed
// date, i.e. the request is currently rescheduled.
func (r *ServiceRequest) CanAcceptReschedule() bool {
	return r.Status == StatusRescheduled
}

// ValidServiceType reports whether t is one of the offered service types.
func ValidServiceType(t string) bool {
	switch t {
	case ServiceConsultatie, ServiceOferta, ServiceInstalare, ServiceMentenanta, ServiceReparatie:
		return true
	}
	return false
}

// AllowsPhotos reports whether the booking form accepts photo attachments
// for the given service type. Photos back up quote and repair requests.
func AllowsPhotos(serviceType string) bool {
	return serviceType == ServiceOferta || serviceType == ServiceReparatie
}
