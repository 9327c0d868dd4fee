package model

import "time"

// Course represents a single purchasable learning unit.
type Course struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsPublished bool       `json:"isPublished"`
	Pricing     Pricing    `json:"pricing"`
	Media       Media      `json:"media"`
	Instructor  Instructor `json:"instructor"`
	Sections    []Section  `json:"sections"`
	Meta        CourseMeta `json:"meta"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Media holds the hosted assets of a course.
type Media struct {
	Thumbnail    string `json:"thumbnail"`
	PreviewVideo string `json:"previewVideo"`
}

// Section groups lessons inside a course.
type Section struct {
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// Lesson is one entry of a course section.
type Lesson struct {
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	FreePreview bool   `json:"freePreview"`
}

// CourseMeta carries display metadata.
type CourseMeta struct {
	Duration    string `json:"duration"`
	Level       string `json:"level"`
	Certificate bool   `json:"certificate"`
}

func (c Course) ProductID() string        { return c.ID }
func (c Course) ProductTitle() string     { return c.Title }
func (c Course) ProductType() ProductType { return ProductTypeCourse }
func (c Course) ProductPricing() Pricing  { return c.Pricing }

// Validate checks the fields staff must supply when editing a course.
func (c *Course) Validate() error {
	verr := &ValidationError{}
	if c.Title == "" {
		verr.Add("title", "is required")
	}
	c.Pricing.Validate(verr)
	return verr.Err()
}
