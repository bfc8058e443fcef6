package lending

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"booklending/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound ErrCode = "BOOK_NOT_FOUND"
	ErrOutOfStock   ErrCode = "OUT_OF_STOCK"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// BorrowInput carries everything a borrow needs: the target book, the
// borrower's identity, the caller-chosen due date, and the display fields the
// record denormalizes.
type BorrowInput struct {
	BookID     primitive.ObjectID
	UserEmail  string
	ReturnDate string
	Name       string
	Category   string
	Image      string
}

type BookRepo interface {
	ByID(ctx context.Context, id primitive.ObjectID) (*model.Book, error)
	IncQuantity(ctx context.Context, id primitive.ObjectID, delta int) error
}

type BorrowRepo interface {
	Insert(ctx context.Context, rec *model.BorrowRecord) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	ListByEmail(ctx context.Context, email string) ([]model.BorrowRecord, error)
}

type Service interface {
	// Borrow takes one copy of a book: availability check, decrement, ledger
	// insert, in that order.
	Borrow(ctx context.Context, in BorrowInput) (primitive.ObjectID, error)

	// Return hands one copy back: increment, then ledger delete. The record
	// id and book id are trusted to belong together.
	Return(ctx context.Context, recordID, bookID primitive.ObjectID) error

	// ListBorrowed lists a user's outstanding borrow records.
	ListBorrowed(ctx context.Context, email string) ([]model.BorrowRecord, error)
}

// ----- Service implementation -----

type service struct {
	books   BookRepo
	borrows BorrowRepo
}

func New(books BookRepo, borrows BorrowRepo) Service {
	return &service{books: books, borrows: borrows}
}

func (s *service) Borrow(ctx context.Context, in BorrowInput) (primitive.ObjectID, error) {
	book, err := s.books.ByID(ctx, in.BookID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if book == nil {
		return primitive.NilObjectID, makeErr(ErrBookNotFound)
	}

	if !book.Available() {
		return primitive.NilObjectID, makeErr(ErrOutOfStock)
	}

	// The decrement must land before the ledger insert; the two writes are
	// independent store operations and are not rolled back on later failure.
	if err := s.books.IncQuantity(ctx, in.BookID, -1); err != nil {
		return primitive.NilObjectID, err
	}

	rec := &model.BorrowRecord{
		BookID:       in.BookID,
		UserEmail:    in.UserEmail,
		ReturnDate:   in.ReturnDate,
		BorrowedDate: time.Now().UTC(),
		Name:         firstNonEmpty(in.Name, book.Name),
		Category:     firstNonEmpty(in.Category, book.Category),
		Image:        firstNonEmpty(in.Image, book.Image),
	}
	return s.borrows.Insert(ctx, rec)
}

func (s *service) Return(ctx context.Context, recordID, bookID primitive.ObjectID) error {
	book, err := s.books.ByID(ctx, bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return makeErr(ErrBookNotFound)
	}

	// Unconditional increment; there is no capacity ceiling to check against.
	if err := s.books.IncQuantity(ctx, bookID, 1); err != nil {
		return err
	}

	_, err = s.borrows.Delete(ctx, recordID)
	return err
}

func (s *service) ListBorrowed(ctx context.Context, email string) ([]model.BorrowRecord, error) {
	return s.borrows.ListByEmail(ctx, email)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
