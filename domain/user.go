package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type UserRole string

const (
	Guest      UserRole = "guest"
	Owner      UserRole = "owner"
	Admin      UserRole = "admin"
	Superadmin UserRole = "superadmin"
)

type Address struct {
	Country string `bson:"country" json:"country"`
	City    string `bson:"city" json:"city"`
	Street  string `bson:"street" json:"street"`
}

// User is the persisted profile document. GuestID links the profile to the
// guest record held by the property-management system.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name" validate:"required"`
	Lastname string             `bson:"lastname" json:"lastname" validate:"required"`
	Email    string             `bson:"email" json:"email" validate:"required,email"`
	Phone    string             `bson:"phone" json:"phone"`
	Address  Address            `bson:"address" json:"address"`
	Role     UserRole           `bson:"role" json:"role"`
	GuestID  int                `bson:"guest_id,omitempty" json:"guestId,omitempty"`
}

// ProfileUpdate carries a partial profile edit. Empty fields are left
// untouched; the endpoint is deliberately permissive about which fields
// arrive.
type ProfileUpdate struct {
	Name     string  `json:"name"`
	Lastname string  `json:"lastname"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Address  Address `json:"address"`
}
