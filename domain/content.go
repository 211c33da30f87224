package domain

import "time"

// ContentItem is an expertise-hub article. Content is archived rather than
// purged: deletion flips IsActive and keeps the record.
type ContentItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    string    `json:"category,omitempty"`
	DateCreated time.Time `json:"dateCreated"`
	IsActive    bool      `json:"isActive"`
}

// ContentPatch carries a partial content update.
type ContentPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Category    *string `json:"category,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

func (p ContentPatch) Apply(item *ContentItem, _ Source) {
	if item == nil {
		return
	}
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.IsActive != nil {
		item.IsActive = *p.IsActive
	}
}
