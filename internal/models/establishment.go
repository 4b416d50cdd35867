package models

// Establishment is the venue a post reviews.
type Establishment struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;uniqueIndex;not null"`
}

// DefaultEstablishments are inserted when the establishments table is empty.
var DefaultEstablishments = []string{"Starbucks", "McDonald's", "KFC"}
