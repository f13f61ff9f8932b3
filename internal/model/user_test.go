package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserFullName(t *testing.T) {
	u := &User{Email: "jane.w@example.com", FirstName: "Jane", LastName: "Wanjiku"}
	assert.Equal(t, "Jane Wanjiku", u.FullName())
	assert.Equal(t, "JW", u.Initials())

	bare := &User{Email: "jane.w@example.com"}
	assert.Equal(t, "jane.w", bare.FullName())
	assert.Equal(t, "jane.w", bare.ShortName())
	assert.Equal(t, "JA", bare.Initials())
}

func TestUserRoleChecks(t *testing.T) {
	assert.True(t, (&User{UserType: UserTypeCustomer}).IsCustomer())
	assert.True(t, (&User{UserType: UserTypeAgent}).IsBackOffice())
	assert.True(t, (&User{UserType: UserTypeStaff}).IsStaffMember())
	assert.True(t, (&User{UserType: UserTypeAdmin}).IsAdmin())

	// superuser is admin regardless of user type
	assert.True(t, (&User{UserType: UserTypeCustomer, IsSuperuser: true}).IsAdmin())
	assert.False(t, (&User{UserType: UserTypeCustomer}).IsBackOffice())
}

func TestValidUserType(t *testing.T) {
	assert.True(t, ValidUserType(UserTypeAgent))
	assert.False(t, ValidUserType("root"))
}
