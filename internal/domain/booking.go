package domain

import (
	"github.com/shopspring/decimal"

	"farmequip-backoffice/internal/listing"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusApproved  BookingStatus = "Approved"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusRejected  BookingStatus = "Rejected"
	BookingStatusActive    BookingStatus = "Active"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// BookingTransitions lists the transitions an admin can trigger. Approval and
// rejection are one-shot and never reversed.
var BookingTransitions = listing.Transitions[BookingStatus]{
	BookingStatusPending: {BookingStatusApproved, BookingStatusRejected},
}

type PaymentStatus string

const (
	PaymentAwaiting PaymentStatus = "Awaiting Payment"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentRefunded PaymentStatus = "Refunded"
)

type Booking struct {
	ID            string          `json:"id"`
	EquipmentID   string          `json:"equipmentId"`
	EquipmentName string          `json:"equipmentName"`
	FarmerID      string          `json:"farmerId"`
	FarmerName    string          `json:"farmerName"`
	FarmerEmail   string          `json:"farmerEmail"`
	FarmerPhone   string          `json:"farmerPhone"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	TotalDays     int             `json:"totalDays"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        BookingStatus   `json:"status"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	CreatedAt     string          `json:"createdAt"`
}

func (b Booking) RecordID() string { return b.ID }

func (b Booking) Field(name string) listing.Value {
	switch name {
	case "id":
		return listing.Text(b.ID)
	case "equipmentId":
		return listing.Text(b.EquipmentID)
	case "equipmentName":
		return listing.Text(b.EquipmentName)
	case "farmerId":
		return listing.Text(b.FarmerID)
	case "farmerName":
		return listing.Text(b.FarmerName)
	case "farmerEmail":
		return listing.Text(b.FarmerEmail)
	case "farmerPhone":
		return listing.Text(b.FarmerPhone)
	case "startDate":
		return listing.Date(b.StartDate)
	case "endDate":
		return listing.Date(b.EndDate)
	case "totalDays":
		return listing.Int(b.TotalDays)
	case "totalAmount":
		return listing.Number(b.TotalAmount)
	case "status":
		return listing.Text(string(b.Status))
	case "paymentStatus":
		return listing.Text(string(b.PaymentStatus))
	case "createdAt", "bookingDate":
		return listing.Date(b.CreatedAt)
	}
	return listing.Value{}
}

// IsActive reports whether the booking counts as a running rental.
func (b Booking) IsActive() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusActive
}
