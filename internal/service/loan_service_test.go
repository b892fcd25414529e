package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"libstack/internal/errors"
	"libstack/internal/model"
)

func newLoanServiceForTest(books *MockBookRepository, members *MockMemberRepository, loans *MockLoanRepository) LoanService {
	tx := &passthroughTxManager{books: books, loans: loans}
	return NewLoanService(books, members, loans, tx, nil)
}

func TestLoanService_Issue(t *testing.T) {
	tests := []struct {
		name          string
		bookID        uint
		memberID      uint
		setupMock     func(*MockBookRepository, *MockMemberRepository, *MockLoanRepository)
		expectedError error
	}{
		{
			name:     "successful issue",
			bookID:   1,
			memberID: 2,
			setupMock: func(books *MockBookRepository, members *MockMemberRepository, loans *MockLoanRepository) {
				books.On("FindByIDForUpdate", mock.Anything, uint(1)).
					Return(&model.Book{ID: 1, Title: "Dune", Author: "Herbert", Quantity: 1}, nil)
				members.On("FindByID", mock.Anything, uint(2)).
					Return(&model.Member{ID: 2, Name: "Paul"}, nil)
				books.On("UpdateQuantity", mock.Anything, uint(1), 0).Return(nil)
				loans.On("Create", mock.Anything, mock.AnythingOfType("*model.Loan")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*model.Loan).ID = 10
					}).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "book not found",
			bookID:   99,
			memberID: 2,
			setupMock: func(books *MockBookRepository, members *MockMemberRepository, loans *MockLoanRepository) {
				books.On("FindByIDForUpdate", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrBookNotFound,
		},
		{
			name:     "no copies available",
			bookID:   1,
			memberID: 2,
			setupMock: func(books *MockBookRepository, members *MockMemberRepository, loans *MockLoanRepository) {
				books.On("FindByIDForUpdate", mock.Anything, uint(1)).
					Return(&model.Book{ID: 1, Title: "Dune", Quantity: 0}, nil)
			},
			expectedError: errors.ErrNoCopiesAvailable,
		},
		{
			name:     "member not found",
			bookID:   1,
			memberID: 99,
			setupMock: func(books *MockBookRepository, members *MockMemberRepository, loans *MockLoanRepository) {
				books.On("FindByIDForUpdate", mock.Anything, uint(1)).
					Return(&model.Book{ID: 1, Title: "Dune", Quantity: 1}, nil)
				members.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrMemberNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books := new(MockBookRepository)
			members := new(MockMemberRepository)
			loans := new(MockLoanRepository)
			tt.setupMock(books, members, loans)

			svc := newLoanServiceForTest(books, members, loans)
			detail, err := svc.Issue(context.Background(), tt.bookID, tt.memberID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, detail)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, detail)
				assert.Equal(t, uint(10), detail.ID)
				assert.Equal(t, tt.bookID, detail.BookID)
				assert.Equal(t, tt.memberID, detail.MemberID)
				assert.Equal(t, "Dune", detail.BookTitle)
				assert.Equal(t, "Paul", detail.MemberName)
				assert.Equal(t, time.Now().Format("2006-01-02"), detail.IssueDate)
				assert.Nil(t, detail.ReturnDate)
			}

			books.AssertExpectations(t)
			members.AssertExpectations(t)
			loans.AssertExpectations(t)
		})
	}
}

func TestLoanService_Return(t *testing.T) {
	issueDate := time.Now().AddDate(0, 0, -7)
	returned := time.Now().AddDate(0, 0, -1)

	tests := []struct {
		name          string
		loanID        uint
		setupMock     func(*MockBookRepository, *MockMemberRepository, *MockLoanRepository)
		expectedError error
	}{
		{
			name:   "successful return",
			loanID: 10,
			setupMock: func(books *MockBookRepository, members *MockMemberRepository, loans *MockLoanRepository) {
				loans.On("FindByIDForUpdate", mock.Anything, uint(10)).
					Return(&model.Loan{ID: 10, BookID: 1, MemberID: 2, IssueDate: issueDate}, nil)
				books.On("FindByIDForUpdate", mock.Anything, uint(1)).
					Return(&model.Book{ID: 1, Title: "Dune", Quantity: 0}, nil)
				loans.On("Update", mock.Anything, mock.AnythingOfType("*model.Loan")).Return(nil)
				books.On("UpdateQuantity", mock.Anything, uint(1), 1).Return(nil)
				members.On("FindByID", mock.Anything, uint(2)).
					Return(&model.Member{ID: 2, Name: "Paul"}, nil)
			},
			expectedError: nil,
		},
		{
			name:   "loan not found",
			loanID: 99,
			setupMock: func(books *MockBookRepository, members *MockMemberRepository, loans *MockLoanRepository) {
				loans.On("FindByIDForUpdate", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrLoanNotFound,
		},
		{
			name:   "already returned",
			loanID: 10,
			setupMock: func(books *MockBookRepository, members *MockMemberRepository, loans *MockLoanRepository) {
				loans.On("FindByIDForUpdate", mock.Anything, uint(10)).
					Return(&model.Loan{ID: 10, BookID: 1, MemberID: 2, IssueDate: issueDate, ReturnDate: &returned}, nil)
			},
			expectedError: errors.ErrLoanAlreadyReturned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books := new(MockBookRepository)
			members := new(MockMemberRepository)
			loans := new(MockLoanRepository)
			tt.setupMock(books, members, loans)

			svc := newLoanServiceForTest(books, members, loans)
			detail, err := svc.Return(context.Background(), tt.loanID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, detail)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, detail)
				assert.Equal(t, uint(10), detail.ID)
				assert.NotNil(t, detail.ReturnDate)
				assert.Equal(t, time.Now().Format("2006-01-02"), *detail.ReturnDate)
				assert.Equal(t, "Dune", detail.BookTitle)
				assert.Equal(t, "Paul", detail.MemberName)
			}

			books.AssertExpectations(t)
			members.AssertExpectations(t)
			loans.AssertExpectations(t)
		})
	}
}

// Issue followed by Return must restore the book's quantity to its
// pre-issue value.
func TestLoanService_IssueReturnRoundTrip(t *testing.T) {
	const startQuantity = 3

	books := new(MockBookRepository)
	members := new(MockMemberRepository)
	loans := new(MockLoanRepository)

	books.On("FindByIDForUpdate", mock.Anything, uint(1)).
		Return(&model.Book{ID: 1, Title: "Dune", Quantity: startQuantity}, nil).Once()
	members.On("FindByID", mock.Anything, uint(2)).Return(&model.Member{ID: 2, Name: "Paul"}, nil)
	books.On("UpdateQuantity", mock.Anything, uint(1), startQuantity-1).Return(nil).Once()

	var issued *model.Loan
	loans.On("Create", mock.Anything, mock.AnythingOfType("*model.Loan")).
		Run(func(args mock.Arguments) {
			issued = args.Get(1).(*model.Loan)
			issued.ID = 10
		}).Return(nil)

	svc := newLoanServiceForTest(books, members, loans)
	_, err := svc.Issue(context.Background(), 1, 2)
	assert.NoError(t, err)

	loans.On("FindByIDForUpdate", mock.Anything, uint(10)).Return(issued, nil)
	books.On("FindByIDForUpdate", mock.Anything, uint(1)).
		Return(&model.Book{ID: 1, Title: "Dune", Quantity: startQuantity - 1}, nil).Once()
	loans.On("Update", mock.Anything, issued).Return(nil)
	books.On("UpdateQuantity", mock.Anything, uint(1), startQuantity).Return(nil).Once()

	detail, err := svc.Return(context.Background(), 10)
	assert.NoError(t, err)
	assert.NotNil(t, detail.ReturnDate)

	books.AssertExpectations(t)
	loans.AssertExpectations(t)
}

func TestLoanService_ListActive(t *testing.T) {
	books := new(MockBookRepository)
	members := new(MockMemberRepository)
	loans := new(MockLoanRepository)

	issueDate := time.Now().AddDate(0, 0, -3)
	loans.On("ListActive", mock.Anything).Return([]model.Loan{
		{ID: 1, BookID: 1, MemberID: 2, IssueDate: issueDate},
		{ID: 2, BookID: 1, MemberID: 3, IssueDate: issueDate},
	}, nil)

	// Both loans reference the same book; one lookup serves both.
	books.On("FindByID", mock.Anything, uint(1)).
		Return(&model.Book{ID: 1, Title: "Dune"}, nil).Once()
	members.On("FindByID", mock.Anything, uint(2)).Return(&model.Member{ID: 2, Name: "Paul"}, nil)
	members.On("FindByID", mock.Anything, uint(3)).Return(&model.Member{ID: 3, Name: "Leto"}, nil)

	svc := newLoanServiceForTest(books, members, loans)
	details, err := svc.ListActive(context.Background())

	assert.NoError(t, err)
	assert.Len(t, details, 2)
	assert.Equal(t, "Dune", details[0].BookTitle)
	assert.Equal(t, "Paul", details[0].MemberName)
	assert.Equal(t, "Leto", details[1].MemberName)
	assert.Nil(t, details[0].ReturnDate)

	books.AssertExpectations(t)
	members.AssertExpectations(t)
	loans.AssertExpectations(t)
}
