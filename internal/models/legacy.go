package models

// Legacy maps a historical archive numbering scheme to a message-id, used
// only for back-compatible URL resolution
type Legacy struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	EmailListID string `gorm:"size:40;index" json:"email_list_id"`
	MsgID       string `gorm:"size:255;index" json:"msgid"`
	Number      int    `gorm:"index" json:"number"`
}

// TableName returns the table name for Legacy
func (Legacy) TableName() string {
	return "legacies"
}
