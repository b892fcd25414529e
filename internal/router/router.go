package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"libstack/internal/auth"
	"libstack/internal/handler"
	"libstack/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	memberHandler *handler.MemberHandler,
	loanHandler *handler.LoanHandler,
) {
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// Secured routes: token validation plus account resolution
	secured := e.Group("", auth.Guard(jwtService), auth.LoadAccount(userRepo))

	secured.GET("/auth/me", authHandler.Me)

	// Book routes
	secured.POST("/books", bookHandler.CreateBook)
	secured.GET("/books", bookHandler.ListBooks)
	secured.GET("/books/:id", bookHandler.GetBook)
	secured.PUT("/books/:id", bookHandler.UpdateBook)
	secured.DELETE("/books/:id", bookHandler.DeleteBook)

	// Member routes
	secured.POST("/members", memberHandler.CreateMember)
	secured.GET("/members", memberHandler.ListMembers)

	// Transaction routes
	secured.POST("/transactions/issue", loanHandler.IssueBook)
	secured.PUT("/transactions/return/:id", loanHandler.ReturnBook)
	secured.GET("/transactions", loanHandler.ListActiveLoans)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
