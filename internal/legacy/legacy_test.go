package legacy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

func TestDecodeCourse_NestedSnakeCase(t *testing.T) {
	doc := []byte(`{
		"id": "react-basics",
		"title": "React Basics",
		"pricing": {"price": 100, "original_price": "120", "discount_percentage": 17},
		"media": {"thumbnail": "https://img/t.png", "preview_video": "https://vid/p.mp4"},
		"instructor": {"name": "Sara", "title": "Engineer"},
		"sections": [{"title": "Intro", "lessons": [{"title": "Hello", "duration": "5m", "free_preview": true}]}],
		"meta": {"duration": "10h", "level": "Beginner", "certificate": true}
	}`)

	course, err := DecodeCourse(doc)
	require.NoError(t, err)

	assert.Equal(t, "react-basics", course.ID)
	assert.True(t, course.IsPublished)
	assertDecimal(t, "100", course.Pricing.Price)
	assertDecimal(t, "120", course.Pricing.OriginalPrice)
	assertDecimal(t, "17", course.Pricing.DiscountPercentage)
	assert.Equal(t, "https://vid/p.mp4", course.Media.PreviewVideo)
	require.Len(t, course.Sections, 1)
	require.Len(t, course.Sections[0].Lessons, 1)
	assert.True(t, course.Sections[0].Lessons[0].FreePreview)
	assert.Equal(t, "Beginner", course.Meta.Level)
	assert.True(t, course.Meta.Certificate)
}

func TestDecodeCourse_Canonical(t *testing.T) {
	doc := []byte(`{
		"id": "go",
		"title": "Go",
		"isPublished": false,
		"pricing": {"price": "50", "originalPrice": "80"},
		"media": {"previewVideo": "https://vid/go.mp4"}
	}`)

	course, err := DecodeCourse(doc)
	require.NoError(t, err)

	assert.False(t, course.IsPublished)
	assertDecimal(t, "50", course.Pricing.Price)
	assertDecimal(t, "80", course.Pricing.OriginalPrice)
	assert.Equal(t, "https://vid/go.mp4", course.Media.PreviewVideo)
}

func TestDecodeCourse_FlatPriceAndGarbage(t *testing.T) {
	course, err := DecodeCourse([]byte(`{"id": "x", "price": "abc", "level": "Advanced"}`))
	require.NoError(t, err)
	assert.True(t, course.Pricing.Price.IsZero())
	assert.Equal(t, "Advanced", course.Meta.Level)

	_, err = DecodeCourse([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeRoadmap(t *testing.T) {
	tests := []struct {
		name          string
		doc           string
		price         string
		originalPrice string
		level         string
	}{
		{
			name:          "Flat schema with absolute discount",
			doc:           `{"id": "backend", "price": 200, "discount": 50, "level": "Intermediate"}`,
			price:         "200",
			originalPrice: "250",
			level:         "Intermediate",
		},
		{
			name:          "Flat schema without discount",
			doc:           `{"id": "backend", "price": 200}`,
			price:         "200",
			originalPrice: "0",
		},
		{
			name:          "Nested schema with explicit original price",
			doc:           `{"id": "backend", "pricing": {"price": 300, "original_price": 400}, "meta": {"level": "Advanced"}}`,
			price:         "300",
			originalPrice: "400",
			level:         "Advanced",
		},
		{
			name:          "Nested schema falls back to flat price and discount",
			doc:           `{"id": "backend", "price": "150", "discount": "30", "pricing": {}}`,
			price:         "150",
			originalPrice: "180",
		},
		{
			name:          "Canonical schema",
			doc:           `{"id": "backend", "pricing": {"price": "99", "originalPrice": "120"}}`,
			price:         "99",
			originalPrice: "120",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roadmap, err := DecodeRoadmap([]byte(tt.doc))
			require.NoError(t, err)

			assertDecimal(t, tt.price, roadmap.Pricing.Price)
			assertDecimal(t, tt.originalPrice, roadmap.Pricing.OriginalPrice)
			assert.Equal(t, tt.level, roadmap.Level)
		})
	}
}

func TestDecodeRoadmap_Modules(t *testing.T) {
	doc := []byte(`{
		"id": "frontend",
		"modules": [
			{"id": "m1", "courseId": "html", "title": "HTML", "locked": false},
			{"id": "m2", "courseId": "css", "title": "CSS", "locked": true}
		],
		"outcomes": ["Build sites"]
	}`)

	roadmap, err := DecodeRoadmap(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"html", "css"}, roadmap.CourseIDs())
	assert.True(t, roadmap.Modules[1].Locked)
	assert.Equal(t, []string{"Build sites"}, roadmap.Outcomes)
}

func TestSplitArray(t *testing.T) {
	items, err := SplitArray([]byte(` [{"id": "a"}, {"id": "b"}] `))
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = SplitArray([]byte(`{"id": "a"}`))
	assert.Error(t, err)
}
