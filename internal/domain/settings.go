package domain

// SettingsKey is the key under which the settings blob is persisted.
const SettingsKey = "systemSettings"

type Settings struct {
	Platform     PlatformSettings     `json:"platform" validate:"required"`
	Payment      PaymentSettings      `json:"payment"`
	Notification NotificationSettings `json:"notification"`
	Pricing      PricingSettings      `json:"pricing"`
	Security     SecuritySettings     `json:"security"`
}

type PlatformSettings struct {
	SiteName              string `json:"siteName" validate:"required"`
	ContactEmail          string `json:"contactEmail" validate:"omitempty,email"`
	PhoneNumber           string `json:"phoneNumber"`
	MaintenanceMode       bool   `json:"maintenanceMode"`
	DefaultLanguage       string `json:"defaultLanguage" validate:"omitempty,oneof=English Spanish French"`
	AllowNewRegistrations bool   `json:"allowNewRegistrations"`
}

type PaymentSettings struct {
	ActivatedGateway    string `json:"activatedGateway"`
	DepositPercentage   int    `json:"depositPercentage" validate:"min=0,max=100"`
	CancelFeePercentage int    `json:"cancelFeePercentage" validate:"min=0,max=100"`
	TaxPercentage       int    `json:"taxPercentage" validate:"min=0,max=100"`
}

type NotificationSettings struct {
	EmailNotifications bool `json:"emailNotifications"`
	SMSNotifications   bool `json:"smsNotifications"`
	BookingReminders   bool `json:"bookingReminders"`
	MarketingEmails    bool `json:"marketingEmails"`
	AdminAlerts        bool `json:"adminAlerts"`
}

type PricingSettings struct {
	CurrencySymbol            string `json:"currencySymbol"`
	CurrencyCode              string `json:"currencyCode" validate:"omitempty,oneof=USD EUR GBP CAD AUD"`
	WeeklyDiscountPercentage  int    `json:"weeklyDiscountPercentage" validate:"min=0,max=100"`
	MonthlyDiscountPercentage int    `json:"monthlyDiscountPercentage" validate:"min=0,max=100"`
	FeaturedListingFee        int    `json:"featuredListingFee" validate:"min=0"`
}

type SecuritySettings struct {
	TwoFactorAuthForAdmins bool `json:"twoFactorAuthForAdmins"`
	PasswordExpiryDays     int  `json:"passwordExpiryDays" validate:"min=0"`
	LoginAttempts          int  `json:"loginAttempts" validate:"min=1"`
	AutomaticLogout        int  `json:"automaticLogout" validate:"min=0"`
}

// DefaultSettings is used until an administrator saves settings.
func DefaultSettings() Settings {
	return Settings{
		Platform: PlatformSettings{
			SiteName:              "FarmEquip",
			ContactEmail:          "support@farmequip.com",
			PhoneNumber:           "(555) 123-4567",
			DefaultLanguage:       "English",
			AllowNewRegistrations: true,
		},
		Payment: PaymentSettings{
			ActivatedGateway:    "Stripe",
			DepositPercentage:   20,
			CancelFeePercentage: 10,
			TaxPercentage:       7,
		},
		Notification: NotificationSettings{
			EmailNotifications: true,
			BookingReminders:   true,
			MarketingEmails:    true,
			AdminAlerts:        true,
		},
		Pricing: PricingSettings{
			CurrencySymbol:            "$",
			CurrencyCode:              "USD",
			WeeklyDiscountPercentage:  10,
			MonthlyDiscountPercentage: 15,
			FeaturedListingFee:        25,
		},
		Security: SecuritySettings{
			TwoFactorAuthForAdmins: true,
			PasswordExpiryDays:     90,
			LoginAttempts:          5,
			AutomaticLogout:        30,
		},
	}
}
