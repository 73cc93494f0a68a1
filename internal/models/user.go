package models

import "time"

// User is an account holder. Password holds the argon2id hash, never the
// plain text.
type User struct {
	ID        int64     `json:"id" db:"id"`
	CPF       string    `json:"cpf" db:"cpf"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	BirthDate time.Time `json:"birth_date" db:"birth_date"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
