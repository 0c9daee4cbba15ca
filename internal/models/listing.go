package models

import (
	"time"

	"gorm.io/datatypes"
)

// Location is the required place a listed animal lives.
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// HealthDetails holds the optional health flags of a listed animal.
type HealthDetails struct {
	IsVaccinated    bool `json:"isVaccinated,omitempty"`
	IsNeutered      bool `json:"isNeutered,omitempty"`
	IsDewormed      bool `json:"isDewormed,omitempty"`
	IsHouseTrained  bool `json:"isHouseTrained,omitempty"`
	HasSpecialNeeds bool `json:"hasSpecialNeeds,omitempty"`
}

// ListingDetails is the nested animal record embedded in a listing.
type ListingDetails struct {
	AnimalType    string         `json:"animalType"` // cat, dog, other
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Breed         string         `json:"breed,omitempty"`
	Photos        []string       `json:"photos,omitempty"`
	Location      Location       `json:"location"`
	Age           string         `json:"age"`    // baby, adult, senior
	Gender        string         `json:"gender"` // female, male
	HealthDetails *HealthDetails `json:"healthDetails,omitempty"`
	FromWhere     string         `json:"fromWhere"` // shelter, foster, owner, stray, other
}

// ContactDetails is how adopters reach the listing's owner.
type ContactDetails struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Listing is a single animal-adoption post. CreatedBy and CreatedDate are
// server-assigned at creation and never reassigned; IsApproved is the sole
// visibility gate for non-owner, non-admin readers.
type Listing struct {
	ID             uint                                `gorm:"primaryKey" json:"id"`
	Title          string                              `gorm:"not null" json:"title"`
	CreatedDate    time.Time                           `gorm:"not null" json:"createdDate"`
	CreatedBy      uint                                `gorm:"not null;index" json:"createdBy"`
	Details        datatypes.JSONType[ListingDetails]  `json:"details"`
	ContactDetails datatypes.JSONType[ContactDetails]  `json:"contactDetails"`
	IsApproved     bool                                `gorm:"not null;default:false" json:"isApproved"`
}
