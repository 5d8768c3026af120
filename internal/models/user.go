package models

import (
	"github.com/go-playground/validator/v10"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

type User struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name" validate:"required"`
	Email        string `db:"email" json:"email" validate:"required,email"`
	PasswordHash string `db:"password_hash" json:"-"`
	ProfileImage string `db:"profile_image" json:"profileImage,omitempty"`
	Role         string `db:"role" json:"role" validate:"required,oneof=student instructor"`
}

func (u *User) Validate() error {
	validate := validator.New()
	return validate.Struct(u)
}
