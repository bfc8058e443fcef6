// model/borrow.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BorrowRecord is one outstanding loan of one copy to one user. Its existence
// is the "currently borrowed" state; returning the copy deletes it.
type BorrowRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	BookID       primitive.ObjectID `bson:"bookId" json:"bookId"`
	UserEmail    string             `bson:"userEmail" json:"userEmail"`
	ReturnDate   string             `bson:"returnDate" json:"returnDate"`
	BorrowedDate time.Time          `bson:"borrowedDate" json:"borrowedDate"`

	// Display fields copied from the book at borrow time. Deliberately not
	// kept in sync with later catalog edits.
	Name     string `bson:"name" json:"name"`
	Category string `bson:"category" json:"category"`
	Image    string `bson:"image,omitempty" json:"image,omitempty"`
}
