package entity

type UserRole string

const (
	RoleCustomer    UserRole = "customer"
	RoleDriver      UserRole = "driver"
	RoleSaccoAdmin  UserRole = "sacco_admin"
	RoleSystemAdmin UserRole = "system_admin"
)

type User struct {
	Base
	FullName     string   `db:"full_name"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	PhoneNumber  string   `db:"phone_number"`
	IDNumber     *string  `db:"id_number"`
	Role         UserRole `db:"role"`
	IsVerified   bool     `db:"is_verified"`
	IsActive     bool     `db:"is_active"`
}
