package post

import (
	"time"

	"go-board/internal/user"

	"gorm.io/gorm"
)

// Post is a published (or hidden) article. URL is the slug and is unique.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	URL         string    `gorm:"uniqueIndex;size:128;not null" json:"url"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	TextMD      string    `gorm:"type:text" json:"text_md"`
	TextHTML    string    `gorm:"type:text" json:"text_html"`
	AuthorID    uint      `gorm:"index;not null" json:"author_id"`
	Author      user.User `gorm:"foreignKey:AuthorID" json:"-"`
	Hide        bool      `gorm:"default:false;index" json:"hide"`
	CreatedDate time.Time `gorm:"index" json:"created_date"`
	Tags        []Tag     `gorm:"many2many:post_tags;" json:"tags,omitempty"`

	// Derived from TextHTML on save
	Image       string `gorm:"size:255" json:"image"`
	Description string `gorm:"size:255" json:"description"`
	ReadTime    int    `json:"read_time"`
}

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Value string `gorm:"uniqueIndex;size:50;not null" json:"value"`
}

// IsVisible reports whether readers may see the post at now.
func (p *Post) IsVisible(now time.Time) bool {
	return !p.Hide && !p.CreatedDate.After(now)
}

// BeforeSave refreshes the cached fields that are derived from the rendered body.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	if p.CreatedDate.IsZero() {
		p.CreatedDate = time.Now().UTC()
	}
	d := Derive(p.TextHTML)
	if p.Image == "" {
		p.Image = d.Image
	}
	p.Description = d.Description
	p.ReadTime = d.ReadTime
	return nil
}
