package model

import (
	"encoding/json"
	"time"
)

// HomePageID is the id of the storefront landing page document.
const HomePageID = "home"

// Page is a free-form content document edited from the back-office.
type Page struct {
	ID        string                     `json:"id"`
	Content   map[string]json.RawMessage `json:"content"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

// Merge overwrites the top-level keys present in patch and keeps the rest.
func (p *Page) Merge(patch map[string]json.RawMessage) {
	if p.Content == nil {
		p.Content = make(map[string]json.RawMessage, len(patch))
	}
	for k, v := range patch {
		p.Content[k] = v
	}
}
