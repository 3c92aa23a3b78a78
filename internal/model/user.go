// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered shop account.
//
// Both Email and Name are UNIQUE in every backend. Registration checks the
// email first, so a request that collides on both reports the email.
//
// PasswordHash holds the full bcrypt output (salt and cost included). It is
// never rendered; the json tag keeps it out of any accidental encoding.
type User struct {
	ID           int64     `json:"id"        gorm:"primaryKey"`
	Name         string    `json:"name"      gorm:"size:100;uniqueIndex;not null"`
	Email        string    `json:"email"     gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `json:"-"         gorm:"column:password;size:100;not null"`
	CreatedAt    time.Time `json:"createdAt"`
}
