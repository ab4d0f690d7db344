package models

// User represents a subscriber with read access to private lists
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null;size:255" json:"username"`

	// Relationships
	Lists []EmailList `gorm:"many2many:email_list_members" json:"-"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
