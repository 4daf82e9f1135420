package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64      `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Name      string     `json:"name" db:"name" example:"Maria Souza"`                     // Full name
	Email     string     `json:"email" db:"email" example:"maria@escola.edu.br"`           // Email address, unique among live users
	Login     string     `json:"login" db:"login" example:"maria.souza"`                   // Login name, unique among live users
	Password  string     `json:"-" db:"password"`                                          // Hashed password (excluded from JSON)
	CPF       string     `json:"cpf" db:"cpf" example:"123.456.789-00"`                    // National ID, unique among live users
	RG        string     `json:"rg,omitempty" db:"rg" example:"12.345.678-9"`              // State ID
	Role      RoleType   `json:"role" db:"role" example:"STUDENT"`                         // ADMIN, TEACHER or STUDENT
	IsActive  bool       `json:"isActive" db:"is_active" example:"true"`                   // Whether the account may log in
	CreatedAt time.Time  `json:"createdAt" db:"created_at" example:"2025-01-01T10:00:00Z"` // Creation timestamp
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at" example:"2025-01-02T15:30:00Z"` // Last update timestamp
	DeletedAt *time.Time `json:"-" db:"deleted_at"`                                        // Soft-delete marker
}
