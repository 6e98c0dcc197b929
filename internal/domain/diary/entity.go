package diary

import "time"

// Entry is a journal entry. Full diary CRUD lives in the web frontend's
// domain; the API side only needs entries as attachment targets.
type Entry struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64     `gorm:"column:user_id;index" json:"userId"`
	Date      time.Time `gorm:"column:date;index" json:"date"`
	Text      string    `gorm:"column:text;type:text" json:"text"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Entry) TableName() string { return "journal_entries" }
