package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Driver is a shuttle driver registered with email and password.
type Driver struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName         string             `bson:"first_name" json:"first_name"`
	Surname           string             `bson:"surname" json:"surname"`
	Email             string             `bson:"email" json:"email"`
	PasswordHash      string             `bson:"password_hash" json:"-"`
	LicenseNumber     string             `bson:"license_number" json:"license_number"`
	YearsOfExperience int                `bson:"years_of_experience" json:"years_of_experience"`
	LicenseImage      string             `bson:"license_image,omitempty" json:"license_image,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// SignupDriverRequest is the payload for driver registration.
type SignupDriverRequest struct {
	FirstName         string `json:"first_name" validate:"required"`
	Surname           string `json:"surname" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=8"`
	LicenseNumber     string `json:"license_number" validate:"required"`
	YearsOfExperience int    `json:"years_of_experience" validate:"required,min=1"`
	LicenseImage      string `json:"license_image,omitempty"`
}

// LoginDriverRequest is the payload for login step one.
type LoginDriverRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyOTPRequest is the payload for login step two.
type VerifyOTPRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}
