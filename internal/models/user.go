package models

import (
	"strconv"

	"gorm.io/gorm"
)

// User is a client or salon account stored in PostgreSQL, linked to its
// Firebase identity by FirebaseUID.
type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
}

// ViewerID renders the account id as the viewer identifier stored in ledger
// membership sets.
func (u *User) ViewerID() string {
	return strconv.FormatUint(uint64(u.ID), 10)
}

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=50"`
	Email string `json:"email" validate:"required,email"`
}
