// server/internal/models/review.go
package models

import "time"

// Review is customer feedback, optionally tied to a booking and provider.
type Review struct {
	ID            string    `bson:"_id" json:"_id"`
	CustomerName  string    `bson:"customerName,omitempty" json:"customerName,omitempty"`
	CustomerEmail string    `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	BookingID     string    `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	ProviderID    string    `bson:"providerId,omitempty" json:"providerId,omitempty"`
	Rating        int       `bson:"rating" json:"rating"`
	Comment       string    `bson:"comment,omitempty" json:"comment,omitempty"`
	ServiceType   string    `bson:"serviceType,omitempty" json:"serviceType,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

type ReviewFilter struct {
	BookingID  string
	ProviderID string
	Limit      int
}

func (f ReviewFilter) Matches(r *Review) bool {
	if f.BookingID != "" && r.BookingID != f.BookingID {
		return false
	}
	if f.ProviderID != "" && r.ProviderID != f.ProviderID {
		return false
	}
	return true
}
