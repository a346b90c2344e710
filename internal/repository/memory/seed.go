package memory

import (
	"github.com/shopspring/decimal"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/utils"
)

// SeedEquipment is the demo inventory.
func SeedEquipment() []domain.Equipment {
	items := []domain.Equipment{
		{
			ID:             "E1001",
			Name:           "John Deere 6155M Tractor",
			Category:       "Tractors",
			Description:    "155 HP utility tractor with loader, ideal for mid-size row crop operations.",
			DailyRate:      decimal.NewFromInt(150),
			Location:       "Central Farm Depot",
			Availability:   domain.AvailabilityAvailable,
			ApprovalStatus: domain.ApprovalApproved,
			Condition:      "Excellent",
			Specifications: domain.Specifications{
				Manufacturer: "John Deere", Model: "6155M", Year: "2021", Engine: "6.8L PowerTech PVS",
				Horsepower: "155", Weight: "14,300 lbs", Dimensions: "196 x 100 x 118 in", FuelType: "Diesel",
			},
			Images:    []string{"/images/equipment/e1001-front.jpg", "/images/equipment/e1001-side.jpg"},
			DateAdded: "2023-05-12",
		},
		{
			ID:             "E1002",
			Name:           "Kubota L3901 Compact Tractor",
			Category:       "Tractors",
			Description:    "Compact 4WD tractor for small acreage, mowing and light loader work.",
			DailyRate:      decimal.NewFromInt(110),
			Location:       "Eastern Equipment Center",
			Availability:   domain.AvailabilityRented,
			ApprovalStatus: domain.ApprovalApproved,
			Condition:      "Good",
			Specifications: domain.Specifications{
				Manufacturer: "Kubota", Model: "L3901", Year: "2020", Engine: "Kubota D1803",
				Horsepower: "37.5", Weight: "2,816 lbs", Dimensions: "116 x 60 x 92 in", FuelType: "Diesel",
			},
			Images:    []string{"/images/equipment/e1002.jpg"},
			DateAdded: "2023-06-02",
		},
		{
			ID:             "E1003",
			Name:           "Case IH Combine Harvester",
			Category:       "Harvesters",
			Description:    "Axial-Flow combine for grain and soybeans, 30 ft header included.",
			DailyRate:      decimal.NewFromInt(325),
			Location:       "Western Agricultural Supply",
			Availability:   domain.AvailabilityMaintenance,
			ApprovalStatus: domain.ApprovalApproved,
			Condition:      "Good",
			Specifications: domain.Specifications{
				Manufacturer: "Case IH", Model: "Axial-Flow 7150", Year: "2019", Engine: "FPT Cursor 13",
				Horsepower: "450", Weight: "38,000 lbs", Dimensions: "345 x 150 x 157 in", FuelType: "Diesel",
			},
			Images:    []string{"/images/equipment/e1003.jpg"},
			DateAdded: "2023-04-20",
		},
		{
			ID:             "E1004",
			Name:           "Kinze 3660 16 Row Planter",
			Category:       "Seeders",
			Description:    "16 row planter with interplant option and hydraulic drive.",
			DailyRate:      decimal.NewFromInt(200),
			Location:       "Central Farm Depot",
			Availability:   domain.AvailabilityAvailable,
			ApprovalStatus: domain.ApprovalPending,
			Condition:      "Excellent",
			Specifications: domain.Specifications{
				Manufacturer: "Kinze", Model: "3660", Year: "2022",
				Weight: "12,500 lbs", Dimensions: "40 ft working width",
			},
			Images:    []string{},
			DateAdded: "2023-08-30",
		},
		{
			ID:             "E1005",
			Name:           "Massey Ferguson 4710 Tractor",
			Category:       "Tractors",
			Description:    "Utility tractor with cab, good for haying and general chores.",
			DailyRate:      decimal.NewFromInt(135),
			Location:       "Eastern Equipment Center",
			Availability:   domain.AvailabilityAvailable,
			ApprovalStatus: domain.ApprovalPending,
			Condition:      "Fair",
			Specifications: domain.Specifications{
				Manufacturer: "Massey Ferguson", Model: "4710", Year: "2018", Engine: "AGCO Power 3.3L",
				Horsepower: "100", Weight: "8,000 lbs", FuelType: "Diesel",
			},
			Images:    []string{"/images/equipment/e1005.jpg"},
			DateAdded: "2023-09-02",
		},
	}
	for i := range items {
		items[i] = utils.WithDerivedRates(items[i])
	}
	return items
}

// SeedBookings is the demo booking ledger.
func SeedBookings() []domain.Booking {
	return []domain.Booking{
		{
			ID: "B1001", EquipmentID: "E1001", EquipmentName: "John Deere 6155M Tractor",
			FarmerID: "F1001", FarmerName: "John Smith", FarmerEmail: "john.smith@example.com", FarmerPhone: "(555) 123-4567",
			StartDate: "2023-08-15", EndDate: "2023-08-18", TotalDays: 3, TotalAmount: decimal.NewFromInt(450),
			Status: domain.BookingStatusCompleted, PaymentStatus: domain.PaymentPaid, CreatedAt: "2023-08-10",
		},
		{
			ID: "B1002", EquipmentID: "E1002", EquipmentName: "Kubota L3901 Compact Tractor",
			FarmerID: "F1002", FarmerName: "Sarah Johnson", FarmerEmail: "sarah.j@example.com", FarmerPhone: "(555) 987-6543",
			StartDate: "2023-08-20", EndDate: "2023-08-25", TotalDays: 5, TotalAmount: decimal.NewFromInt(550),
			Status: domain.BookingStatusActive, PaymentStatus: domain.PaymentPaid, CreatedAt: "2023-08-15",
		},
		{
			ID: "B1003", EquipmentID: "E1005", EquipmentName: "Massey Ferguson 4710 Tractor",
			FarmerID: "F1003", FarmerName: "Robert Chen", FarmerEmail: "r.chen@example.com", FarmerPhone: "(555) 333-2222",
			StartDate: "2023-09-05", EndDate: "2023-09-10", TotalDays: 5, TotalAmount: decimal.NewFromInt(675),
			Status: domain.BookingStatusPending, PaymentStatus: domain.PaymentAwaiting, CreatedAt: "2023-08-28",
		},
		{
			ID: "B1004", EquipmentID: "E1003", EquipmentName: "Case IH Combine Harvester",
			FarmerID: "F1004", FarmerName: "Lisa Martinez", FarmerEmail: "lisa.m@example.com", FarmerPhone: "(555) 444-5555",
			StartDate: "2023-10-01", EndDate: "2023-10-05", TotalDays: 4, TotalAmount: decimal.NewFromInt(1300),
			Status: domain.BookingStatusCancelled, PaymentStatus: domain.PaymentRefunded, CreatedAt: "2023-09-15",
		},
		{
			ID: "B1005", EquipmentID: "E1004", EquipmentName: "Kinze 3660 16 Row Planter",
			FarmerID: "F1005", FarmerName: "David Wilson", FarmerEmail: "david.w@example.com", FarmerPhone: "(555) 777-8888",
			StartDate: "2023-10-10", EndDate: "2023-10-12", TotalDays: 2, TotalAmount: decimal.NewFromInt(400),
			Status: domain.BookingStatusPending, PaymentStatus: domain.PaymentAwaiting, CreatedAt: "2023-09-30",
		},
	}
}

// SeedFarmers is the demo customer list.
func SeedFarmers() []domain.Farmer {
	return []domain.Farmer{
		{
			ID: "F1001", Name: "John Smith", Email: "john.smith@example.com", Phone: "(555) 123-4567",
			Location: "Cedar Rapids, IA", RegistrationDate: "2023-05-10", EquipmentCount: 3, TotalRentals: 12,
			VerificationStatus: domain.VerificationVerified, AccountStatus: domain.AccountActive, LastLogin: "2023-08-25",
		},
		{
			ID: "F1002", Name: "Sarah Johnson", Email: "sarah.j@example.com", Phone: "(555) 987-6543",
			Location: "Des Moines, IA", RegistrationDate: "2023-06-15", EquipmentCount: 5, TotalRentals: 8,
			VerificationStatus: domain.VerificationVerified, AccountStatus: domain.AccountActive, LastLogin: "2023-08-27",
		},
		{
			ID: "F1003", Name: "Robert Chen", Email: "r.chen@example.com", Phone: "(555) 333-2222",
			Location: "Ames, IA", RegistrationDate: "2023-07-05", EquipmentCount: 2, TotalRentals: 3,
			VerificationStatus: domain.VerificationPending, AccountStatus: domain.AccountActive, LastLogin: "2023-08-22",
		},
		{
			ID: "F1004", Name: "Lisa Martinez", Email: "lisa.m@example.com", Phone: "(555) 444-5555",
			Location: "Sioux City, IA", RegistrationDate: "2023-07-22", EquipmentCount: 0, TotalRentals: 0,
			VerificationStatus: domain.VerificationVerified, AccountStatus: domain.AccountInactive, LastLogin: "2023-08-10",
		},
		{
			ID: "F1005", Name: "David Wilson", Email: "david.w@example.com", Phone: "(555) 777-8888",
			Location: "Davenport, IA", RegistrationDate: "2023-08-01", EquipmentCount: 1, TotalRentals: 2,
			VerificationStatus: domain.VerificationRejected, AccountStatus: domain.AccountActive, LastLogin: "2023-08-26",
		},
	}
}
