package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// User types drive role-based access throughout the application.
const (
	UserTypeCustomer = "customer"
	UserTypeAgent    = "agent"
	UserTypeStaff    = "staff"
	UserTypeAdmin    = "admin"
)

// ValidUserType reports whether t is a known user type.
func ValidUserType(t string) bool {
	switch t {
	case UserTypeCustomer, UserTypeAgent, UserTypeStaff, UserTypeAdmin:
		return true
	}
	return false
}

// User is an account identified by email. The password hash never leaves
// the service layer.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	UserType     string     `json:"user_type"`
	Phone        string     `json:"phone"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	Country      string     `json:"country"`
	IsActive     bool       `json:"is_active"`
	IsSuperuser  bool       `json:"is_superuser"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FullName returns first and last name, falling back to the email prefix.
func (u *User) FullName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return strings.SplitN(u.Email, "@", 2)[0]
}

// ShortName returns the first name or the email prefix.
func (u *User) ShortName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return strings.SplitN(u.Email, "@", 2)[0]
}

// Initials returns two uppercase letters for avatar placeholders.
func (u *User) Initials() string {
	if u.FirstName != "" && u.LastName != "" {
		return strings.ToUpper(u.FirstName[:1] + u.LastName[:1])
	}
	if len(u.Email) >= 2 {
		return strings.ToUpper(u.Email[:2])
	}
	return strings.ToUpper(u.Email)
}

func (u *User) IsCustomer() bool { return u.UserType == UserTypeCustomer }
func (u *User) IsAgent() bool    { return u.UserType == UserTypeAgent }

// IsStaffMember reports the staff user type, distinct from admin.
func (u *User) IsStaffMember() bool { return u.UserType == UserTypeStaff }

// IsAdmin also covers superusers regardless of user type.
func (u *User) IsAdmin() bool { return u.UserType == UserTypeAdmin || u.IsSuperuser }

// IsBackOffice reports whether the user may act on other users' records.
func (u *User) IsBackOffice() bool {
	return u.UserType == UserTypeAgent || u.UserType == UserTypeStaff || u.IsAdmin()
}

// Profile is the extended one-to-one record created automatically for
// every user.
type Profile struct {
	ID                           string           `json:"id"`
	UserID                       string           `json:"user_id"`
	AvatarKey                    string           `json:"avatar_key,omitempty"`
	IDType                       string           `json:"id_type"`
	IDNumber                     string           `json:"id_number"`
	Occupation                   string           `json:"occupation"`
	Employer                     string           `json:"employer"`
	AnnualIncome                 *decimal.Decimal `json:"annual_income,omitempty"`
	EmergencyContactName         string           `json:"emergency_contact_name"`
	EmergencyContactPhone        string           `json:"emergency_contact_phone"`
	EmergencyContactRelationship string           `json:"emergency_contact_relationship"`
	Notes                        string           `json:"notes,omitempty"`
	CreatedAt                    time.Time        `json:"created_at"`
	UpdatedAt                    time.Time        `json:"updated_at"`
}

// Identification document types accepted on profiles.
const (
	IDTypeNationalID     = "national_id"
	IDTypePassport       = "passport"
	IDTypeDrivingLicense = "driving_license"
)
