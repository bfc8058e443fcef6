package lending

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"booklending/app/echoServer/jwtx"
	"booklending/model"
	ls "booklending/service/lending"
)

type Controller struct {
	Svc ls.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /borrow
func (h *Controller) Borrow(c echo.Context) error {
	var req BorrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	bookID, err := primitive.ObjectIDFromHex(req.BookID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid bookId"})
	}

	_, err = h.Svc.Borrow(c.Request().Context(), ls.BorrowInput{
		BookID:     bookID,
		UserEmail:  req.UserEmail,
		ReturnDate: req.ReturnDate,
		Name:       req.Name,
		Category:   req.Category,
		Image:      req.Image,
	})
	if err != nil {
		switch ls.Code(err) {
		case ls.ErrOutOfStock:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Book is out of stock!"})
		case ls.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Book not found"})
		default:
			h.Log.Error("borrow error", "err", err, "bookId", req.BookID)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Book borrowed successfully!"})
}

// DELETE /return-book/:id
func (h *Controller) Return(c echo.Context) error {
	recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req ReturnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	bookID, err := primitive.ObjectIDFromHex(req.BookID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid bookId"})
	}

	if err := h.Svc.Return(c.Request().Context(), recordID, bookID); err != nil {
		switch ls.Code(err) {
		case ls.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Book not found"})
		default:
			h.Log.Error("return error", "err", err, "recordId", c.Param("id"))
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Book returned successfully!"})
}

// GET /borrowed-books
func (h *Controller) ListBorrowed(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email is required"})
	}

	authEmail, err := jwtx.EmailFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized access"})
	}
	if authEmail != email {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden access"})
	}

	rows, err := h.Svc.ListBorrowed(c.Request().Context(), email)
	if err != nil {
		h.Log.Error("borrowed list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if rows == nil {
		rows = []model.BorrowRecord{}
	}
	return c.JSON(http.StatusOK, rows)
}
