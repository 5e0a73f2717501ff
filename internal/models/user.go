package models

import "time"

// User represents an account holder.
type User struct {
	ID           string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name         string    `json:"name" bson:"name" gorm:"type:varchar(100)"`
	Email        string    `json:"email" bson:"email" gorm:"uniqueIndex;type:varchar(255)"`
	MobileNumber string    `json:"mobileNumber" bson:"mobileNumber" gorm:"type:varchar(20)"`
	Password     string    `json:"-" bson:"password" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Public returns a copy of u without the password hash.
func (u User) Public() User {
	u.Password = ""
	return u
}

// ProfileFields is the mutable part of a User exposed through profile updates.
type ProfileFields struct {
	Name         string
	Email        string
	MobileNumber string
}

// Apply copies the fields onto u.
func (f ProfileFields) Apply(u *User) {
	u.Name = f.Name
	u.Email = f.Email
	u.MobileNumber = f.MobileNumber
}
