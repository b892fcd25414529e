package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"libstack/internal/errors"
	"libstack/internal/service"
)

// LoanHandler handles the transaction (issue/return) endpoints.
type LoanHandler struct {
	loanService service.LoanService
}

// NewLoanHandler creates a new loan handler.
func NewLoanHandler(loanService service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// IssueBookRequest represents a book issue request.
type IssueBookRequest struct {
	BookID   uint `json:"book_id" validate:"required"`
	MemberID uint `json:"member_id" validate:"required"`
}

// IssueBook godoc
// @Summary Issue a book to a member
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body IssueBookRequest true "Issue data"
// @Success 201 {object} service.LoanDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/issue [post]
func (h *LoanHandler) IssueBook(c echo.Context) error {
	var req IssueBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	loan, err := h.loanService.Issue(c.Request().Context(), req.BookID, req.MemberID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, loan)
}

// ReturnBook godoc
// @Summary Return a book
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} service.LoanDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/return/{id} [put]
func (h *LoanHandler) ReturnBook(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	loan, err := h.loanService.Return(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, loan)
}

// ListActiveLoans godoc
// @Summary List all active (unreturned) transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.LoanDetail
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /transactions [get]
func (h *LoanHandler) ListActiveLoans(c echo.Context) error {
	loans, err := h.loanService.ListActive(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, loans)
}
