package models

import "time"

// User & auth related models
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:50;uniqueIndex;not null"` // normalisé en minuscules
	PasswordHash string `gorm:"size:255;not null"`            // hash bcrypt, jamais en clair
	FullName     string `gorm:"size:100;not null"`
	Active       bool   `gorm:"not null;default:true"` // jamais supprimé, seulement désactivé
	CreatedAt    time.Time
}
