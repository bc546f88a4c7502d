package model

import "time"

// User is an account owned by the identity provider. This service only reads it.
type User struct {
	ID        string `json:"id" bson:"_id"`
	Name      string `json:"name" bson:"name"`
	Email     string `json:"email" bson:"email"`
	Role      string `json:"role" bson:"role"`
	AvatarURL string `json:"avatarUrl" bson:"avatarUrl"`
}

// Gender values accepted on a profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// UserProfile holds the editable personal details of a user. One per user.
type UserProfile struct {
	ID            string     `json:"id" bson:"_id"`
	User          string     `json:"user" bson:"user"`
	FirstName     string     `json:"firstName" bson:"firstName"`
	LastName      string     `json:"lastName" bson:"lastName"`
	Gender        Gender     `json:"gender" bson:"gender"`
	DOB           *time.Time `json:"dob" bson:"dob"`
	Phone         string     `json:"phone" bson:"phone"`
	AvatarURL     string     `json:"avatarUrl" bson:"avatarUrl"`
	Bio           string     `json:"bio" bson:"bio"`
	Address       string     `json:"address" bson:"address"`
	AcademicTitle string     `json:"academicTitle" bson:"academicTitle"`
	Expertise     string     `json:"expertise" bson:"expertise"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the user projection attached to a profile response.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ProfileView is a profile with its user populated.
type ProfileView struct {
	UserProfile
	User *UserSummary `json:"user"`
}
