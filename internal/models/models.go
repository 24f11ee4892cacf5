package models

import "time"

// User is a local account resolved from a verified Google identity.
// OAuth credentials are never stored here; they live in the session store.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:80;not null" json:"name"`
	Email     string    `gorm:"size:250;not null;uniqueIndex" json:"email"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
}

// Category is a fixed browse bucket. Categories are seeded, not user-managed.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:80;not null" json:"name"`
}

// Item is a catalog entry owned by the user who created it.
type Item struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:80;not null" json:"name"`
	Description string    `json:"description"`
	Picture     string    `json:"picture"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CategoryID  uint      `gorm:"index;not null" json:"category_id"`
	Category    Category  `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	User        User      `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}

// ItemView is the wire shape of an item in the JSON mirror.
type ItemView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    uint   `json:"category"`
}

// CategoryView is the wire shape of a category, optionally with its items.
type CategoryView struct {
	ID    uint       `json:"id"`
	Name  string     `json:"name"`
	Items []ItemView `json:"Items"`
}

func (i *Item) Serialize() ItemView {
	return ItemView{ID: i.ID, Name: i.Name, Description: i.Description, Category: i.CategoryID}
}

// Serialize starts with an empty, non-nil item list so a category with no
// items renders as [] rather than null.
func (c *Category) Serialize() CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Items: []ItemView{}}
}
