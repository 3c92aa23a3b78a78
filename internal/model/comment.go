package model

import "time"

// Comment is free text attached to a product by a logged-in user.
//
// AuthorName and AuthorEmail are filled in by the list query (a join with
// users) and are not stored on the comment row.
type Comment struct {
	ID          int64     `json:"id"        gorm:"primaryKey"`
	Text        string    `json:"text"      gorm:"not null"`
	AuthorID    int64     `json:"authorId"  gorm:"column:author_id;not null;index"`
	ProductID   int64     `json:"productId" gorm:"column:product_id;not null;index"`
	AuthorName  string    `json:"authorName"  gorm:"-"`
	AuthorEmail string    `json:"authorEmail" gorm:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
