package models

// Category represents a transaction category owned by a single user.
type Category struct {
	Base
	UserID  string  `gorm:"not null;uniqueIndex:categories_user_id_name_uniq" json:"-"`
	Name    string  `gorm:"not null;uniqueIndex:categories_user_id_name_uniq,expression:lower(name)" json:"name"`
	PlaidID *string `json:"-"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}
