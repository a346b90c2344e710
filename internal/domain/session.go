package domain

import "slices"

type Capability string

const (
	CapViewAdmin       Capability = "view_admin"
	CapManageEquipment Capability = "manage_equipment"
	CapManageBookings  Capability = "manage_bookings"
	CapManageFarmers   Capability = "manage_farmers"
	CapManageSettings  Capability = "manage_settings"
	CapExportData      Capability = "export_data"
)

// roleCapabilities maps token roles to what they allow.
var roleCapabilities = map[string][]Capability{
	"admin": {
		CapViewAdmin, CapManageEquipment, CapManageBookings,
		CapManageFarmers, CapManageSettings, CapExportData,
	},
	"viewer": {CapViewAdmin},
}

// Session is the authenticated caller handed to every admin handler.
type Session struct {
	UserID       string       `json:"user_id"`
	Username     string       `json:"username"`
	Capabilities []Capability `json:"capabilities"`
}

// NewSession derives the capability set from roles. Unknown roles grant
// nothing.
func NewSession(userID, username string, roles []string) Session {
	var caps []Capability
	for _, role := range roles {
		for _, c := range roleCapabilities[role] {
			if !slices.Contains(caps, c) {
				caps = append(caps, c)
			}
		}
	}
	return Session{UserID: userID, Username: username, Capabilities: caps}
}

func (s Session) Can(c Capability) bool {
	return slices.Contains(s.Capabilities, c)
}
