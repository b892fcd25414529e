package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"libstack/internal/cache"
	"libstack/internal/errors"
	"libstack/internal/model"
	"libstack/internal/repository"
)

const dateLayout = "2006-01-02"

// LoanDetail is a loan enriched with the book title and member name for
// display, looked up explicitly at read time.
type LoanDetail struct {
	ID         uint    `json:"id"`
	BookID     uint    `json:"book_id"`
	MemberID   uint    `json:"member_id"`
	IssueDate  string  `json:"issue_date"`
	ReturnDate *string `json:"return_date"`
	BookTitle  string  `json:"book_title"`
	MemberName string  `json:"member_name"`
}

// LoanService handles the issue/return ledger. Every quantity mutation is
// paired with a ledger write inside one transaction, with the book row
// locked so concurrent issues of the last copy cannot both succeed.
type LoanService interface {
	Issue(ctx context.Context, bookID, memberID uint) (*LoanDetail, error)
	Return(ctx context.Context, loanID uint) (*LoanDetail, error)
	ListActive(ctx context.Context) ([]LoanDetail, error)
}

type loanService struct {
	bookRepo   repository.BookRepository
	memberRepo repository.MemberRepository
	loanRepo   repository.LoanRepository
	txManager  repository.TxManager
	cache      *cache.Client
}

// NewLoanService creates a new loan service.
func NewLoanService(
	bookRepo repository.BookRepository,
	memberRepo repository.MemberRepository,
	loanRepo repository.LoanRepository,
	txManager repository.TxManager,
	cache *cache.Client,
) LoanService {
	return &loanService{
		bookRepo:   bookRepo,
		memberRepo: memberRepo,
		loanRepo:   loanRepo,
		txManager:  txManager,
		cache:      cache,
	}
}

// Issue lends a copy of a book to a member: the book's quantity decrement
// and the new ledger row commit atomically, or neither does.
func (s *loanService) Issue(ctx context.Context, bookID, memberID uint) (*LoanDetail, error) {
	var detail *LoanDetail

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, books repository.BookRepository, loans repository.LoanRepository) error {
		book, err := books.FindByIDForUpdate(ctx, bookID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrBookNotFound
			}
			return err
		}

		if book.Quantity <= 0 {
			return errors.ErrNoCopiesAvailable
		}

		// Members are immutable and never deleted, so the existence check
		// does not need the book's transaction.
		member, err := s.memberRepo.FindByID(ctx, memberID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrMemberNotFound
			}
			return err
		}

		if err := books.UpdateQuantity(ctx, book.ID, book.Quantity-1); err != nil {
			return fmt.Errorf("decrement quantity: %w", err)
		}

		loan := &model.Loan{
			BookID:    book.ID,
			MemberID:  member.ID,
			IssueDate: time.Now(),
		}
		if err := loans.Create(ctx, loan); err != nil {
			return fmt.Errorf("create loan: %w", err)
		}

		detail = newLoanDetail(loan, book.Title, member.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBook(ctx, bookID)
	return detail, nil
}

// Return closes a loan: marks the return date and restores the book's
// quantity in the same transaction. A loan can only be returned once.
func (s *loanService) Return(ctx context.Context, loanID uint) (*LoanDetail, error) {
	var detail *LoanDetail
	var bookID uint

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, books repository.BookRepository, loans repository.LoanRepository) error {
		loan, err := loans.FindByIDForUpdate(ctx, loanID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrLoanNotFound
			}
			return err
		}

		if loan.Returned() {
			return errors.ErrLoanAlreadyReturned
		}

		book, err := books.FindByIDForUpdate(ctx, loan.BookID)
		if err != nil {
			return fmt.Errorf("find loaned book: %w", err)
		}

		now := time.Now()
		loan.ReturnDate = &now
		if err := loans.Update(ctx, loan); err != nil {
			return fmt.Errorf("update loan: %w", err)
		}

		if err := books.UpdateQuantity(ctx, book.ID, book.Quantity+1); err != nil {
			return fmt.Errorf("increment quantity: %w", err)
		}

		memberName := ""
		if member, err := s.memberRepo.FindByID(ctx, loan.MemberID); err == nil {
			memberName = member.Name
		}

		bookID = book.ID
		detail = newLoanDetail(loan, book.Title, memberName)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBook(ctx, bookID)
	return detail, nil
}

// ListActive returns all loans that have not been returned, enriched with
// book titles and member names.
func (s *loanService) ListActive(ctx context.Context) ([]LoanDetail, error) {
	loans, err := s.loanRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	titles := make(map[uint]string)
	names := make(map[uint]string)
	details := make([]LoanDetail, 0, len(loans))

	for i := range loans {
		loan := &loans[i]

		title, ok := titles[loan.BookID]
		if !ok {
			if book, err := s.bookRepo.FindByID(ctx, loan.BookID); err == nil {
				title = book.Title
			}
			titles[loan.BookID] = title
		}

		name, ok := names[loan.MemberID]
		if !ok {
			if member, err := s.memberRepo.FindByID(ctx, loan.MemberID); err == nil {
				name = member.Name
			}
			names[loan.MemberID] = name
		}

		details = append(details, *newLoanDetail(loan, title, name))
	}
	return details, nil
}

func (s *loanService) invalidateBook(ctx context.Context, bookID uint) {
	_ = s.cache.Delete(ctx, bookCacheKey(bookID))
	_ = s.cache.Delete(ctx, bookListCacheKey)
}

func newLoanDetail(loan *model.Loan, bookTitle, memberName string) *LoanDetail {
	detail := &LoanDetail{
		ID:         loan.ID,
		BookID:     loan.BookID,
		MemberID:   loan.MemberID,
		IssueDate:  loan.IssueDate.Format(dateLayout),
		BookTitle:  bookTitle,
		MemberName: memberName,
	}
	if loan.ReturnDate != nil {
		formatted := loan.ReturnDate.Format(dateLayout)
		detail.ReturnDate = &formatted
	}
	return detail
}
