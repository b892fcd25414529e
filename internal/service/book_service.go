package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"libstack/internal/cache"
	"libstack/internal/errors"
	"libstack/internal/model"
	"libstack/internal/repository"
)

const catalogCacheTTL = 5 * time.Minute

func bookCacheKey(id uint) string {
	return fmt.Sprintf("book:%d", id)
}

const bookListCacheKey = "books:all"

// BookUpdate carries the optional fields of a partial catalog edit; nil
// pointers leave the stored value untouched.
type BookUpdate struct {
	Title    *string
	Author   *string
	Quantity *int
}

// BookService handles catalog operations.
type BookService interface {
	Create(ctx context.Context, book *model.Book) (*model.Book, error)
	Get(ctx context.Context, id uint) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Update(ctx context.Context, id uint, updates BookUpdate) (*model.Book, error)
	Delete(ctx context.Context, id uint) error
}

type bookService struct {
	bookRepo  repository.BookRepository
	loanRepo  repository.LoanRepository
	txManager repository.TxManager
	cache     *cache.Client
}

// NewBookService creates a new book service.
func NewBookService(
	bookRepo repository.BookRepository,
	loanRepo repository.LoanRepository,
	txManager repository.TxManager,
	cache *cache.Client,
) BookService {
	return &bookService{
		bookRepo:  bookRepo,
		loanRepo:  loanRepo,
		txManager: txManager,
		cache:     cache,
	}
}

// Create adds a new book to the catalog.
func (s *bookService) Create(ctx context.Context, book *model.Book) (*model.Book, error) {
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	_ = s.cache.Delete(ctx, bookListCacheKey)
	return book, nil
}

// Get retrieves a book by ID with caching.
func (s *bookService) Get(ctx context.Context, id uint) (*model.Book, error) {
	if data, _ := s.cache.Get(ctx, bookCacheKey(id)); data != nil {
		var cached model.Book
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(book); err == nil {
		_ = s.cache.Set(ctx, bookCacheKey(id), payload, catalogCacheTTL)
	}
	return book, nil
}

// List returns all books in the catalog.
func (s *bookService) List(ctx context.Context) ([]model.Book, error) {
	if data, _ := s.cache.Get(ctx, bookListCacheKey); data != nil {
		var cached []model.Book
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(books); err == nil {
		_ = s.cache.Set(ctx, bookListCacheKey, payload, catalogCacheTTL)
	}
	return books, nil
}

// Update applies only the provided fields to an existing book.
func (s *bookService) Update(ctx context.Context, id uint, updates BookUpdate) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookNotFound
		}
		return nil, err
	}

	if updates.Title != nil {
		book.Title = *updates.Title
	}
	if updates.Author != nil {
		book.Author = *updates.Author
	}
	if updates.Quantity != nil {
		book.Quantity = *updates.Quantity
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.invalidate(ctx, id)
	return book, nil
}

// Delete removes a book and its loan history. A book with an active loan
// cannot be deleted; the history purge and the book removal commit as one
// transaction.
func (s *bookService) Delete(ctx context.Context, id uint) error {
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, books repository.BookRepository, loans repository.LoanRepository) error {
		if _, err := books.FindByIDForUpdate(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrBookNotFound
			}
			return err
		}

		onLoan, err := loans.ExistsActiveByBookID(ctx, id)
		if err != nil {
			return fmt.Errorf("check active loans: %w", err)
		}
		if onLoan {
			return errors.ErrBookOnLoan
		}

		if err := loans.DeleteByBookID(ctx, id); err != nil {
			return fmt.Errorf("delete loan history: %w", err)
		}
		return books.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *bookService) invalidate(ctx context.Context, id uint) {
	_ = s.cache.Delete(ctx, bookCacheKey(id))
	_ = s.cache.Delete(ctx, bookListCacheKey)
}
