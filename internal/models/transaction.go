package models

import "time"

// Transaction represents a single ledger entry. It has no owner column:
// the owner is always the owner of the referenced account.
type Transaction struct {
	Base
	Amount     int64     `gorm:"not null" json:"amount"` // minor units, see money.Scale
	Payee      string    `gorm:"not null" json:"payee"`
	Notes      *string   `json:"notes"`
	Date       time.Time `gorm:"type:date;not null;index" json:"date"`
	AccountID  string    `gorm:"size:36;not null;index" json:"accountId"`
	CategoryID *string   `gorm:"size:36;index" json:"categoryId"`
}

// TransactionRow is a transaction joined with its account and category names
// for listing.
type TransactionRow struct {
	ID         string
	Date       time.Time
	Amount     int64
	Payee      string
	Notes      *string
	AccountID  string
	Account    string
	CategoryID *string
	Category   *string
}
