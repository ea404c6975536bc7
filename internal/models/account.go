package models

// Account represents a financial account owned by a single user.
// Names are unique per owner under case-insensitive comparison.
type Account struct {
	Base
	UserID  string  `gorm:"not null;uniqueIndex:accounts_user_id_name_uniq" json:"-"`
	Name    string  `gorm:"not null;uniqueIndex:accounts_user_id_name_uniq,expression:lower(name)" json:"name"`
	PlaidID *string `json:"-"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
}
