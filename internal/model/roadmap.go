package model

import (
	"strconv"
	"time"
)

// Roadmap is a bundle of courses sold as one guided curriculum ("track").
type Roadmap struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Level       string          `json:"level"`
	Tag         string          `json:"tag"`
	IsPublished bool            `json:"isPublished"`
	Pricing     Pricing         `json:"pricing"`
	Modules     []RoadmapModule `json:"modules"`
	Instructor  Instructor      `json:"instructor"`
	Outcomes    []string        `json:"outcomes"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// RoadmapModule references a course. Title, Image and Level are a snapshot
// taken when the module was added and may drift from the course.
type RoadmapModule struct {
	ID       string `json:"id"`
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Level    string `json:"level"`
	Locked   bool   `json:"locked"`
}

func (r Roadmap) ProductID() string        { return r.ID }
func (r Roadmap) ProductTitle() string     { return r.Title }
func (r Roadmap) ProductType() ProductType { return ProductTypeTrack }
func (r Roadmap) ProductPricing() Pricing  { return r.Pricing }

// CourseIDs returns the referenced course ids in module order.
func (r Roadmap) CourseIDs() []string {
	ids := make([]string, 0, len(r.Modules))
	for _, m := range r.Modules {
		ids = append(ids, m.CourseID)
	}
	return ids
}

// Validate checks the fields staff must supply when editing a roadmap.
func (r *Roadmap) Validate() error {
	verr := &ValidationError{}
	if r.Title == "" {
		verr.Add("title", "is required")
	}
	r.Pricing.Validate(verr)
	for i, m := range r.Modules {
		if m.CourseID == "" {
			verr.Add("modules["+strconv.Itoa(i)+"].courseId", "is required")
		}
	}
	return verr.Err()
}
