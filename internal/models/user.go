package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the persisted identity, keyed by mobile number. Name stays empty
// while registration is in flight; OTP/OTPExpires are present only while a
// challenge is outstanding and are always written or cleared together.
type User struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Mobile     string             `json:"mobile" bson:"mobile"`
	Name       string             `json:"name,omitempty" bson:"name,omitempty"`
	OTP        string             `json:"-" bson:"otp,omitempty"`
	OTPExpires *time.Time         `json:"-" bson:"otpExpires,omitempty"`
	Location   *Location          `json:"location,omitempty" bson:"location,omitempty"`
}

type Location struct {
	City        string      `json:"city" bson:"city"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
}

type Coordinates struct {
	Latitude  *float64 `json:"latitude" bson:"latitude"`
	Longitude *float64 `json:"longitude" bson:"longitude"`
}

// PublicProfile is the view returned to clients after a successful
// verification or profile fetch. Challenge fields never leave the store.
type PublicProfile struct {
	Name     string    `json:"name"`
	Mobile   string    `json:"mobile"`
	Location *Location `json:"location"`
}

func (u *User) PublicProfile() PublicProfile {
	return PublicProfile{
		Name:     u.Name,
		Mobile:   u.Mobile,
		Location: u.Location,
	}
}

// Provisional reports whether the identity is still mid-registration.
func (u *User) Provisional() bool {
	return u.Name == ""
}
