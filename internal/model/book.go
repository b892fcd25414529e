package model

import "time"

// Book is a catalog entry. Quantity counts the copies currently available
// for issue and is only mutated by loan operations or a direct catalog edit.
type Book struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Author    string    `json:"author" gorm:"size:255;not null"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
