package lending

type BorrowReq struct {
	BookID     string `json:"bookId" validate:"required"`
	UserEmail  string `json:"userEmail" validate:"required,email"`
	ReturnDate string `json:"returnDate" validate:"required"`

	// display fields denormalized onto the borrow record
	Name     string `json:"name"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

type ReturnReq struct {
	BookID string `json:"bookId" validate:"required"`
}
