package domain

import "farmequip-backoffice/internal/listing"

type VerificationStatus string

const (
	VerificationVerified VerificationStatus = "Verified"
	VerificationPending  VerificationStatus = "Pending"
	VerificationRejected VerificationStatus = "Rejected"
)

var VerificationTransitions = listing.Transitions[VerificationStatus]{
	VerificationPending: {VerificationVerified, VerificationRejected},
}

type AccountStatus string

const (
	AccountActive   AccountStatus = "Active"
	AccountInactive AccountStatus = "Inactive"
)

// Toggle flips the account status. There is no guard.
func (s AccountStatus) Toggle() AccountStatus {
	if s == AccountActive {
		return AccountInactive
	}
	return AccountActive
}

type Farmer struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	Location           string             `json:"location"`
	RegistrationDate   string             `json:"registrationDate"`
	EquipmentCount     int                `json:"equipmentCount"`
	TotalRentals       int                `json:"totalRentals"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	AccountStatus      AccountStatus      `json:"accountStatus"`
	LastLogin          string             `json:"lastLogin"`
}

func (f Farmer) RecordID() string { return f.ID }

func (f Farmer) Field(name string) listing.Value {
	switch name {
	case "id":
		return listing.Text(f.ID)
	case "name":
		return listing.Text(f.Name)
	case "email":
		return listing.Text(f.Email)
	case "phone":
		return listing.Text(f.Phone)
	case "location":
		return listing.Text(f.Location)
	case "registrationDate":
		return listing.Date(f.RegistrationDate)
	case "equipmentCount":
		return listing.Int(f.EquipmentCount)
	case "totalRentals":
		return listing.Int(f.TotalRentals)
	case "verificationStatus":
		return listing.Text(string(f.VerificationStatus))
	case "accountStatus":
		return listing.Text(string(f.AccountStatus))
	case "lastLogin":
		return listing.Date(f.LastLogin)
	}
	return listing.Value{}
}

// FarmerEdit is the admin edit form for a customer account.
type FarmerEdit struct {
	Name               *string             `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email              *string             `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string             `json:"phone,omitempty" validate:"omitempty,max=40"`
	Location           *string             `json:"location,omitempty" validate:"omitempty,max=200"`
	VerificationStatus *VerificationStatus `json:"verificationStatus,omitempty" validate:"omitempty,oneof=Verified Pending Rejected"`
	AccountStatus      *AccountStatus      `json:"accountStatus,omitempty" validate:"omitempty,oneof=Active Inactive"`
}

// Apply merges the edit over f.
func (e FarmerEdit) Apply(f Farmer) Farmer {
	if e.Name != nil {
		f.Name = *e.Name
	}
	if e.Email != nil {
		f.Email = *e.Email
	}
	if e.Phone != nil {
		f.Phone = *e.Phone
	}
	if e.Location != nil {
		f.Location = *e.Location
	}
	if e.VerificationStatus != nil {
		f.VerificationStatus = *e.VerificationStatus
	}
	if e.AccountStatus != nil {
		f.AccountStatus = *e.AccountStatus
	}
	return f
}
