// Package legacy converts the historical catalog document shapes into the
// canonical model types.
//
// Two generations of documents exist. The flat generation stores a roadmap's
// price and an absolute discount at the top level. The nested generation keeps
// prices under "pricing" (snake_case keys) and display data under "meta". The
// service itself writes camelCase canonical documents. Decoding accepts all
// three so conversion happens once, at ingestion.
package legacy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"shams-elarab/internal/model"

	"github.com/shopspring/decimal"
)

// Number decodes a JSON number, a numeric string, null or an empty string.
// Anything unparsable decodes as zero.
type Number struct {
	Value decimal.Decimal
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	raw = strings.Trim(raw, `"`)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	n.Value = d
	n.Set = true
	return nil
}

// firstSet returns the first number that was present in the document.
func firstSet(nums ...Number) Number {
	for _, n := range nums {
		if n.Set {
			return n
		}
	}
	return Number{}
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type pricingDoc struct {
	Price                   Number `json:"price"`
	OriginalPrice           Number `json:"original_price"`
	OriginalPriceCamel      Number `json:"originalPrice"`
	DiscountPercentage      Number `json:"discount_percentage"`
	DiscountPercentageCamel Number `json:"discountPercentage"`
}

type mediaDoc struct {
	Thumbnail         string `json:"thumbnail"`
	PreviewVideo      string `json:"preview_video"`
	PreviewVideoCamel string `json:"previewVideo"`
}

type lessonDoc struct {
	Title            string `json:"title"`
	Duration         string `json:"duration"`
	FreePreview      bool   `json:"free_preview"`
	FreePreviewCamel bool   `json:"freePreview"`
}

type sectionDoc struct {
	Title   string      `json:"title"`
	Lessons []lessonDoc `json:"lessons"`
}

type metaDoc struct {
	Duration    string `json:"duration"`
	Level       string `json:"level"`
	Certificate bool   `json:"certificate"`
}

type courseDoc struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	IsPublished *bool            `json:"isPublished"`
	Price       Number           `json:"price"`
	Pricing     *pricingDoc      `json:"pricing"`
	Media       mediaDoc         `json:"media"`
	Instructor  model.Instructor `json:"instructor"`
	Sections    []sectionDoc     `json:"sections"`
	Meta        metaDoc          `json:"meta"`
	Level       string           `json:"level"`
}

type moduleDoc struct {
	ID       string `json:"id"`
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Level    string `json:"level"`
	Locked   bool   `json:"locked"`
}

type roadmapDoc struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Level       string           `json:"level"`
	Tag         string           `json:"tag"`
	IsPublished *bool            `json:"isPublished"`
	Price       Number           `json:"price"`
	Discount    Number           `json:"discount"`
	Pricing     *pricingDoc      `json:"pricing"`
	Meta        metaDoc          `json:"meta"`
	Modules     []moduleDoc      `json:"modules"`
	Instructor  model.Instructor `json:"instructor"`
	Outcomes    []string         `json:"outcomes"`
}

// DecodeCourse converts one course document of any generation.
func DecodeCourse(data []byte) (*model.Course, error) {
	var doc courseDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode course document: %w", err)
	}

	course := &model.Course{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		IsPublished: doc.IsPublished == nil || *doc.IsPublished,
		Media: model.Media{
			Thumbnail:    doc.Media.Thumbnail,
			PreviewVideo: firstString(doc.Media.PreviewVideoCamel, doc.Media.PreviewVideo),
		},
		Instructor: doc.Instructor,
		Meta: model.CourseMeta{
			Duration:    doc.Meta.Duration,
			Level:       firstString(doc.Meta.Level, doc.Level),
			Certificate: doc.Meta.Certificate,
		},
	}

	if doc.Pricing != nil {
		course.Pricing = model.Pricing{
			Price:              doc.Pricing.Price.Value,
			OriginalPrice:      firstSet(doc.Pricing.OriginalPriceCamel, doc.Pricing.OriginalPrice).Value,
			DiscountPercentage: firstSet(doc.Pricing.DiscountPercentageCamel, doc.Pricing.DiscountPercentage).Value,
		}
	} else {
		course.Pricing = model.Pricing{Price: doc.Price.Value}
	}

	for _, s := range doc.Sections {
		section := model.Section{Title: s.Title, Lessons: make([]model.Lesson, 0, len(s.Lessons))}
		for _, l := range s.Lessons {
			section.Lessons = append(section.Lessons, model.Lesson{
				Title:       l.Title,
				Duration:    l.Duration,
				FreePreview: l.FreePreview || l.FreePreviewCamel,
			})
		}
		course.Sections = append(course.Sections, section)
	}

	return course, nil
}

// DecodeRoadmap converts one roadmap document of any generation. A flat
// "discount" is an absolute amount and becomes OriginalPrice = price + discount.
func DecodeRoadmap(data []byte) (*model.Roadmap, error) {
	var doc roadmapDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode roadmap document: %w", err)
	}

	roadmap := &model.Roadmap{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Level:       firstString(doc.Level, doc.Meta.Level),
		Tag:         doc.Tag,
		IsPublished: doc.IsPublished == nil || *doc.IsPublished,
		Instructor:  doc.Instructor,
		Outcomes:    doc.Outcomes,
	}

	var price, original, percentage Number
	if doc.Pricing != nil {
		price = firstSet(doc.Pricing.Price, doc.Price)
		original = firstSet(doc.Pricing.OriginalPriceCamel, doc.Pricing.OriginalPrice)
		percentage = firstSet(doc.Pricing.DiscountPercentageCamel, doc.Pricing.DiscountPercentage)
	} else {
		price = doc.Price
	}

	roadmap.Pricing.Price = price.Value
	roadmap.Pricing.DiscountPercentage = percentage.Value
	switch {
	case original.Set:
		roadmap.Pricing.OriginalPrice = original.Value
	case doc.Discount.Set && doc.Discount.Value.IsPositive():
		roadmap.Pricing.OriginalPrice = price.Value.Add(doc.Discount.Value)
	}

	for _, m := range doc.Modules {
		roadmap.Modules = append(roadmap.Modules, model.RoadmapModule{
			ID:       m.ID,
			CourseID: m.CourseID,
			Title:    m.Title,
			Image:    m.Image,
			Level:    m.Level,
			Locked:   m.Locked,
		})
	}

	return roadmap, nil
}

// SplitArray splits a JSON array document into its raw elements.
func SplitArray(data []byte) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &items); err != nil {
		return nil, fmt.Errorf("failed to decode document array: %w", err)
	}
	return items, nil
}
