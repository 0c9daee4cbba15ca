// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserRole is the closed set of account roles.
type UserRole string

const (
	RoleSeeker   UserRole = "paw-seeker"
	RoleGuardian UserRole = "paw-guardian"
	RoleOther    UserRole = "other"
	RoleAdmin    UserRole = "paw-admin"
)

// IsAdmin reports whether the role grants administrative privileges.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleSeeker, RoleGuardian, RoleOther, RoleAdmin:
		return true
	}
	return false
}

// SurveyResults holds the optional adoption survey a user fills at signup.
type SurveyResults struct {
	Purpose           string `json:"purpose,omitempty"`
	AnimalPreference  string `json:"animalPreference,omitempty"`
	AgeRange          string `json:"ageRange,omitempty"`
	GenderPreference  string `json:"genderPreference,omitempty"`
	HealthStatus      string `json:"healthStatus,omitempty"`
	AnimalCareHistory bool   `json:"animalCareHistory,omitempty"`
}

// User represents a marketplace account.
type User struct {
	ID             uint                                 `gorm:"primaryKey" json:"id"`
	Username       string                               `gorm:"uniqueIndex;not null" json:"username"`
	Email          string                               `gorm:"uniqueIndex;not null" json:"email"`
	Password       string                               `gorm:"not null" json:"-"`
	FirstName      string                               `json:"firstName"`
	LastName       string                               `json:"lastName"`
	UserType       UserRole                             `gorm:"not null;default:other" json:"userType"`
	SurveyResults  datatypes.JSONType[*SurveyResults]   `json:"surveyResults"`
	Country        string                               `json:"country"`
	City           string                               `json:"city"`
	ProfilePicture string                               `json:"profilePicture,omitempty"`
	Favorites      datatypes.JSONSlice[uint]            `json:"favorites"`
	CreatedAt      time.Time                            `json:"createdAt"`
	UpdatedAt      time.Time                            `json:"updatedAt"`
}

// InferRole resolves the stored role for a registration request. An explicit
// admin request is downgraded to prevent self-escalation; when no role is
// supplied the survey purpose decides.
func InferRole(requested UserRole, survey *SurveyResults) UserRole {
	if requested == RoleAdmin {
		return RoleOther
	}
	if requested.Valid() {
		return requested
	}
	if survey != nil {
		switch survey.Purpose {
		case "looking-guardian":
			return RoleGuardian
		case "looking-pet":
			return RoleSeeker
		}
	}
	return RoleOther
}
