package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "ROLE_CUSTOMER"
	RoleEngineer Role = "ROLE_ENGINEER"
	RoleAdmin    Role = "ROLE_ADMIN"
)

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string    `gorm:"not null"` // uniqueness via lower(email) index in migrate
	Password        string    `gorm:"not null"` // bcrypt hash
	Name            string    `gorm:"type:text"`
	Phone           string    `gorm:"type:text"`
	Role            Role      `gorm:"type:text;not null;default:'ROLE_CUSTOMER';index"`
	IsEmailVerified bool      `gorm:"not null;default:false;index"`
	CreatedAt       time.Time `gorm:"not null;default:now()"`
	UpdatedAt       time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

type RefreshToken struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash  string    `gorm:"not null;index"` // sha256 of the opaque token
	IP         *string   `gorm:"type:inet"`
	UserAgent  *string   `gorm:"type:text"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	Revoked    bool      `gorm:"not null;default:false;index"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
	LastUsedAt *time.Time
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

type EmailVerification struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Email     string    `gorm:"not null"`
	CodeHash  string    `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Consumed  bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (EmailVerification) TableName() string { return "email_verifications" }

type PasswordResetToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Email     string    `gorm:"not null"`
	CodeHash  string    `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Consumed  bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }
