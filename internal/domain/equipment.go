package domain

import (
	"github.com/shopspring/decimal"

	"farmequip-backoffice/internal/listing"
)

type EquipmentAvailability string

const (
	AvailabilityAvailable   EquipmentAvailability = "available"
	AvailabilityRented      EquipmentAvailability = "rented"
	AvailabilityMaintenance EquipmentAvailability = "maintenance"
	AvailabilityUnavailable EquipmentAvailability = "unavailable"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

// ApprovalTransitions is one-shot: only a pending listing is reviewed.
var ApprovalTransitions = listing.Transitions[ApprovalStatus]{
	ApprovalPending: {ApprovalApproved, ApprovalRejected},
}

// Equipment categories offered by the marketplace.
var EquipmentCategories = []string{"Tractors", "Harvesters", "Irrigation", "Seeders", "Sprayers", "Tillage", "Mowers"}

// Depots where equipment can be picked up.
var Depots = []string{"Central Farm Depot", "Eastern Equipment Center", "Western Agricultural Supply"}

type Specifications struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Year         string `json:"year"`
	Engine       string `json:"engine"`
	Horsepower   string `json:"horsepower"`
	Weight       string `json:"weight"`
	Dimensions   string `json:"dimensions"`
	FuelType     string `json:"fuelType"`
}

type Equipment struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Category       string                `json:"category"`
	Description    string                `json:"description"`
	DailyRate      decimal.Decimal       `json:"dailyRate"`
	WeeklyRate     decimal.Decimal       `json:"weeklyRate"`  // derived from DailyRate
	MonthlyRate    decimal.Decimal       `json:"monthlyRate"` // derived from DailyRate
	Location       string                `json:"location"`
	Availability   EquipmentAvailability `json:"availability"`
	ApprovalStatus ApprovalStatus        `json:"approvalStatus"`
	Condition      string                `json:"condition"`
	Specifications Specifications        `json:"specifications"`
	Images         []string              `json:"images"`
	DateAdded      string                `json:"dateAdded"`
}

func (e Equipment) RecordID() string { return e.ID }

func (e Equipment) Field(name string) listing.Value {
	switch name {
	case "id":
		return listing.Text(e.ID)
	case "name":
		return listing.Text(e.Name)
	case "category":
		return listing.Text(e.Category)
	case "description":
		return listing.Text(e.Description)
	case "dailyRate":
		return listing.Number(e.DailyRate)
	case "weeklyRate":
		return listing.Number(e.WeeklyRate)
	case "monthlyRate":
		return listing.Number(e.MonthlyRate)
	case "location":
		return listing.Text(e.Location)
	case "availability":
		return listing.Text(string(e.Availability))
	case "approvalStatus":
		return listing.Text(string(e.ApprovalStatus))
	case "condition":
		return listing.Text(e.Condition)
	case "manufacturer":
		return listing.Text(e.Specifications.Manufacturer)
	case "dateAdded":
		return listing.Date(e.DateAdded)
	}
	return listing.Value{}
}

// EquipmentPatch carries the partial fields of an update. Nil fields are
// left untouched. Weekly and monthly rates are absent: they only follow
// DailyRate. ApprovalStatus is written by the review transitions only and is
// never decoded from an edit form.
type EquipmentPatch struct {
	Name           *string                `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category       *string                `json:"category,omitempty" validate:"omitempty,oneof=Tractors Harvesters Irrigation Seeders Sprayers Tillage Mowers"`
	Description    *string                `json:"description,omitempty" validate:"omitempty,max=4000"`
	DailyRate      *decimal.Decimal       `json:"dailyRate,omitempty"`
	Location       *string                `json:"location,omitempty" validate:"omitempty,oneof='Central Farm Depot' 'Eastern Equipment Center' 'Western Agricultural Supply'"`
	Availability   *EquipmentAvailability `json:"availability,omitempty" validate:"omitempty,oneof=available rented maintenance unavailable"`
	ApprovalStatus *ApprovalStatus        `json:"-" validate:"omitempty,oneof=Pending Approved Rejected"`
	Condition      *string                `json:"condition,omitempty" validate:"omitempty,oneof=Excellent Good Fair Poor"`
	Specifications *Specifications        `json:"specifications,omitempty"`
	Images         *[]string              `json:"images,omitempty" validate:"omitempty,dive,min=1"`
}

// IsEmpty reports whether the patch changes nothing.
func (p EquipmentPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.Description == nil && p.DailyRate == nil &&
		p.Location == nil && p.Availability == nil && p.ApprovalStatus == nil &&
		p.Condition == nil && p.Specifications == nil && p.Images == nil
}

// Apply returns e with the patch applied. The caller recomputes derived
// rates when DailyRate is set.
func (p EquipmentPatch) Apply(e Equipment) Equipment {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.DailyRate != nil {
		e.DailyRate = *p.DailyRate
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Availability != nil {
		e.Availability = *p.Availability
	}
	if p.ApprovalStatus != nil {
		e.ApprovalStatus = *p.ApprovalStatus
	}
	if p.Condition != nil {
		e.Condition = *p.Condition
	}
	if p.Specifications != nil {
		e.Specifications = *p.Specifications
	}
	if p.Images != nil {
		e.Images = append([]string(nil), (*p.Images)...)
	}
	return e
}
