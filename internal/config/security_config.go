package config

import "farmequip-backoffice/internal/domain"

// RouteAccess describes what a route requires from the caller.
type RouteAccess struct {
	Public     bool
	Capability domain.Capability
}

// RouteSecurityConfig maps route names to their access rule. Route names are
// the names given to the mux routes.
var RouteSecurityConfig = map[string]RouteAccess{
	"auth.login": {Public: true},
	"metrics":    {Public: true},

	"dashboard.get": {Capability: domain.CapViewAdmin},

	"equipment.list":    {Capability: domain.CapViewAdmin},
	"equipment.get":     {Capability: domain.CapViewAdmin},
	"equipment.quote":   {Capability: domain.CapViewAdmin},
	"equipment.sort":    {Capability: domain.CapViewAdmin},
	"equipment.reload":  {Capability: domain.CapViewAdmin},
	"equipment.update":  {Capability: domain.CapManageEquipment},
	"equipment.delete":  {Capability: domain.CapManageEquipment},
	"equipment.approve": {Capability: domain.CapManageEquipment},
	"equipment.reject":  {Capability: domain.CapManageEquipment},

	"bookings.list":    {Capability: domain.CapViewAdmin},
	"bookings.get":     {Capability: domain.CapViewAdmin},
	"bookings.sort":    {Capability: domain.CapViewAdmin},
	"bookings.reload":  {Capability: domain.CapViewAdmin},
	"bookings.export":  {Capability: domain.CapExportData},
	"bookings.approve": {Capability: domain.CapManageBookings},
	"bookings.reject":  {Capability: domain.CapManageBookings},

	"farmers.list":   {Capability: domain.CapViewAdmin},
	"farmers.get":    {Capability: domain.CapViewAdmin},
	"farmers.sort":   {Capability: domain.CapViewAdmin},
	"farmers.reload": {Capability: domain.CapViewAdmin},
	"farmers.update": {Capability: domain.CapManageFarmers},
	"farmers.delete": {Capability: domain.CapManageFarmers},
	"farmers.verify": {Capability: domain.CapManageFarmers},
	"farmers.reject": {Capability: domain.CapManageFarmers},
	"farmers.toggle": {Capability: domain.CapManageFarmers},

	"settings.get":    {Capability: domain.CapManageSettings},
	"settings.update": {Capability: domain.CapManageSettings},

	"notifications.ws": {Capability: domain.CapViewAdmin},
}

// GetRouteAccess returns the access rule for a route name
func GetRouteAccess(route string) RouteAccess {
	if access, exists := RouteSecurityConfig[route]; exists {
		return access
	}
	// Default to the strictest rule for unknown routes
	return RouteAccess{Capability: domain.CapManageSettings}
}

// MethodSecurityConfig maps gRPC full method names to their access rule.
var MethodSecurityConfig = map[string]RouteAccess{
	"/grpc.health.v1.Health/Check": {Public: true},
	"/grpc.health.v1.Health/List":  {Public: true},
	"/grpc.health.v1.Health/Watch": {Public: true},
}

// GetMethodAccess returns the access rule for a gRPC method. Unlisted
// methods need an admin session.
func GetMethodAccess(fullMethod string) RouteAccess {
	if access, exists := MethodSecurityConfig[fullMethod]; exists {
		return access
	}
	return RouteAccess{Capability: domain.CapViewAdmin}
}
