package models

// UserRole is carried in the bearer token issued by the account service.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RolePlayer UserRole = "player"
)
