// server/internal/models/booking.go
package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// BookingStatuses lists every lifecycle state in lifecycle order.
var BookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

func (s BookingStatus) Valid() bool {
	for _, status := range BookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Terminal reports whether the booking has left the active lifecycle.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// BookingStatusList renders the valid statuses as "a, b, c".
func BookingStatusList() string {
	names := make([]string, len(BookingStatuses))
	for i, status := range BookingStatuses {
		names[i] = string(status)
	}
	return strings.Join(names, ", ")
}

type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyEmergency Urgency = "emergency"
)

func (u Urgency) Valid() bool {
	return u == UrgencyNormal || u == UrgencyEmergency
}

// Booking is a customer's service request tracked through its status lifecycle.
type Booking struct {
	ID           string        `bson:"_id" json:"_id"`
	Name         string        `bson:"name" json:"name"`
	Phone        string        `bson:"phone" json:"phone"`
	Email        string        `bson:"email,omitempty" json:"email,omitempty"`
	City         string        `bson:"city" json:"city"`
	ServiceType  string        `bson:"serviceType" json:"serviceType"`
	Urgency      Urgency       `bson:"urgency" json:"urgency"`
	ScheduledFor *time.Time    `bson:"scheduledFor,omitempty" json:"scheduledFor,omitempty"`
	Details      string        `bson:"details,omitempty" json:"details,omitempty"`
	Status       BookingStatus `bson:"status" json:"status"`
	ProviderID   string        `bson:"providerId,omitempty" json:"providerId,omitempty"`
	Amount       float64       `bson:"amount" json:"amount"`
	Rating       *int          `bson:"rating,omitempty" json:"rating,omitempty"`
	Review       string        `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// BookingPatch is a partial update. Nil fields are left untouched.
type BookingPatch struct {
	Name         *string        `json:"name"`
	Phone        *string        `json:"phone"`
	Email        *string        `json:"email"`
	City         *string        `json:"city"`
	ServiceType  *string        `json:"serviceType"`
	Urgency      *Urgency       `json:"urgency"`
	ScheduledFor *time.Time     `json:"scheduledFor"`
	Details      *string        `json:"details"`
	Status       *BookingStatus `json:"status"`
	ProviderID   *string        `json:"providerId"`
	Amount       *float64       `json:"amount"`
	Rating       *int           `json:"rating"`
	Review       *string        `json:"review"`
}

// Apply merges the patch into b. Timestamps are the caller's concern.
func (p BookingPatch) Apply(b *Booking) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Phone != nil {
		b.Phone = *p.Phone
	}
	if p.Email != nil {
		b.Email = *p.Email
	}
	if p.City != nil {
		b.City = *p.City
	}
	if p.ServiceType != nil {
		b.ServiceType = *p.ServiceType
	}
	if p.Urgency != nil {
		b.Urgency = *p.Urgency
	}
	if p.ScheduledFor != nil {
		t := *p.ScheduledFor
		b.ScheduledFor = &t
	}
	if p.Details != nil {
		b.Details = *p.Details
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.ProviderID != nil {
		b.ProviderID = *p.ProviderID
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Rating != nil {
		r := *p.Rating
		b.Rating = &r
	}
	if p.Review != nil {
		b.Review = *p.Review
	}
}

// BookingFilter narrows a booking listing. Zero values match everything;
// Limit <= 0 means no cap.
type BookingFilter struct {
	Status      BookingStatus
	City        string // case-insensitive substring
	ServiceType string
	ProviderID  string
	Phone       string
	Limit       int
}

// Matches applies the filter to a single record.
func (f BookingFilter) Matches(b *Booking) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.City != "" && !ContainsFold(b.City, f.City) {
		return false
	}
	if f.ServiceType != "" && b.ServiceType != f.ServiceType {
		return false
	}
	if f.ProviderID != "" && b.ProviderID != f.ProviderID {
		return false
	}
	if f.Phone != "" && b.Phone != f.Phone {
		return false
	}
	return true
}
