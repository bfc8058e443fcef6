package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"booklending/app/echoServer/controller/auth"
	"booklending/app/echoServer/controller/catalog"
	"booklending/app/echoServer/controller/lending"
)

type C struct {
	Catalog   *catalog.Controller
	Lending   *lending.Controller
	Auth      *auth.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	e.POST("/add-book", c.Catalog.Create)
	e.GET("/books", c.Catalog.List)
	e.GET("/books/:id", c.Catalog.Detail)

	e.POST("/borrow", c.Lending.Borrow)
	e.DELETE("/return-book/:id", c.Lending.Return)

	e.POST("/jwt", c.Auth.Token)
	e.POST("/logout", c.Auth.Logout)

	// Secured: signed token arrives in an httpOnly cookie.
	secured := e.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "cookie:" + auth.CookieName,
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized access"})
		},
	}))
	secured.PUT("/books/:id", c.Catalog.Update)
	secured.GET("/borrowed-books", c.Lending.ListBorrowed)
}
