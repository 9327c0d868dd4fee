//go:build ignore

package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Writes one document per legacy generation so cmd/seed can be tried
// locally:
//
//	go run scripts/generate_sample_catalog.go
//	go run ./cmd/seed -courses data/seed/courses.json.gz \
//		-roadmaps data/seed/roadmaps.json.gz -homepage data/seed/homepage.json
func main() {
	dataDir := "data/seed"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	documents := []struct {
		name    string
		gzipped bool
		body    string
	}{
		{
			name:    "courses.json.gz",
			gzipped: true,
			body: `[
  {"id": "go-basics", "title": "Go Basics", "level": "beginner",
   "pricing": {"price": 100, "original_price": 150},
   "media": {"thumbnail": "https://media.example/go.png", "preview_video": "https://media.example/go.mp4"},
   "sections": [{"title": "Intro", "lessons": [{"title": "Hello", "duration": "5m", "free_preview": true}]}]},
  {"id": "sql-101", "title": "SQL 101", "price": "80",
   "meta": {"duration": "6h", "level": "beginner", "certificate": true}},
  {"id": "draft", "title": "Unreleased", "price": 50, "isPublished": false}
]`,
		},
		{
			name:    "roadmaps.json.gz",
			gzipped: true,
			body: `[
  {"id": "backend", "title": "Backend Track", "price": 250, "discount": 50, "tag": "popular",
   "modules": [{"courseId": "go-basics", "title": "Go Basics"}, {"courseId": "sql-101", "title": "SQL 101", "locked": true}],
   "outcomes": ["Ship an API"]}
]`,
		},
		{
			name: "homepage.json",
			body: `{"hero": {"title": "Learn to build", "subtitle": "Courses and tracks"}, "faq": []}`,
		},
	}

	for _, doc := range documents {
		filePath := filepath.Join(dataDir, doc.name)

		if err := writeDocument(filePath, doc.body, doc.gzipped); err != nil {
			log.Fatalf("Failed to create %s: %v", doc.name, err)
		}

		fmt.Printf("Created %s\n", filePath)
	}

	fmt.Println("\nSample catalog documents created successfully!")
	fmt.Println("Expect 3 courses (1 draft), 1 roadmap and the home page after seeding.")
}

func writeDocument(filePath, body string, gzipped bool) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if !gzipped {
		_, err = file.WriteString(body)
		return err
	}

	gzipWriter := gzip.NewWriter(file)
	if _, err := gzipWriter.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return gzipWriter.Close()
}
