package model

import "time"

// Loan records one book issued to one member. A nil ReturnDate means the
// loan is still active; the only legal mutation is setting ReturnDate once.
type Loan struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	BookID     uint       `json:"book_id" gorm:"not null;index"`
	MemberID   uint       `json:"member_id" gorm:"not null;index"`
	IssueDate  time.Time  `json:"issue_date" gorm:"type:date;not null"`
	ReturnDate *time.Time `json:"return_date" gorm:"type:date"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Returned reports whether the loan has reached its terminal state.
func (l *Loan) Returned() bool {
	return l.ReturnDate != nil
}
