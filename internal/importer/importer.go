package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"shams-elarab/internal/legacy"
	"shams-elarab/internal/model"

	"github.com/rs/zerolog"
)

// CourseStore persists imported courses and resolves the courses roadmap
// modules point at.
type CourseStore interface {
	Save(ctx context.Context, course *model.Course) error
	GetByIDs(ctx context.Context, ids []string) ([]model.Course, error)
}

// RoadmapStore persists imported roadmaps.
type RoadmapStore interface {
	Save(ctx context.Context, roadmap *model.Roadmap) error
}

// PageStore persists imported content pages.
type PageStore interface {
	Merge(ctx context.Context, id string, patch *model.Page) (*model.Page, error)
}

// Sources names the documents to import. Empty paths are skipped.
type Sources struct {
	Courses  string
	Roadmaps string
	HomePage string
}

// DefaultSources returns the document names used by the legacy export.
func DefaultSources() Sources {
	return Sources{
		Courses:  "courses.json",
		Roadmaps: "roadmaps.json",
		HomePage: "homepage.json",
	}
}

// Summary counts what an import run wrote.
type Summary struct {
	Courses  int  `json:"courses"`
	Roadmaps int  `json:"roadmaps"`
	Skipped  int  `json:"skipped"`
	HomePage bool `json:"homePage"`
}

// Importer converts legacy documents through the schema adapter and upserts
// them.
type Importer struct {
	loader   Loader
	courses  CourseStore
	roadmaps RoadmapStore
	pages    PageStore
	logger   zerolog.Logger
}

// New creates an importer.
func New(loader Loader, courses CourseStore, roadmaps RoadmapStore, pages PageStore, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:   loader,
		courses:  courses,
		roadmaps: roadmaps,
		pages:    pages,
		logger:   logger.With().Str("component", "importer").Logger(),
	}
}

// Run loads every source concurrently, then writes them. Any load failure
// aborts the run before anything is written.
func (im *Importer) Run(ctx context.Context, src Sources) (*Summary, error) {
	paths := []string{src.Courses, src.Roadmaps, src.HomePage}

	type loadResult struct {
		index int
		data  []byte
		err   error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		if path == "" {
			continue
		}
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			data, err := im.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, data: data, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	docs := make([][]byte, len(paths))
	for result := range resultChan {
		if result.err != nil {
			im.logger.Error().
				Err(result.err).
				Str("source", paths[result.index]).
				Msg("failed to load source document")
			return nil, fmt.Errorf("failed to load %s: %w", paths[result.index], result.err)
		}
		docs[result.index] = result.data
	}

	summary := &Summary{}

	if docs[0] != nil {
		if err := im.importCourses(ctx, docs[0], summary); err != nil {
			return nil, err
		}
	}
	if docs[1] != nil {
		if err := im.importRoadmaps(ctx, docs[1], summary); err != nil {
			return nil, err
		}
	}
	if docs[2] != nil {
		if err := im.importHomePage(ctx, docs[2], summary); err != nil {
			return nil, err
		}
	}

	im.logger.Info().
		Int("courses", summary.Courses).
		Int("roadmaps", summary.Roadmaps).
		Int("skipped", summary.Skipped).
		Bool("home_page", summary.HomePage).
		Msg("import finished")

	return summary, nil
}

func (im *Importer) importCourses(ctx context.Context, data []byte, summary *Summary) error {
	records, err := legacy.SplitArray(data)
	if err != nil {
		return fmt.Errorf("failed to parse courses: %w", err)
	}

	for i, raw := range records {
		course, err := legacy.DecodeCourse(raw)
		if err != nil || course.ID == "" {
			im.logger.Warn().Err(err).Int("index", i).Msg("skipping course without id")
			summary.Skipped++
			continue
		}
		if err := validPricing(course.Pricing); err != nil {
			im.logger.Warn().Err(err).Str("course_id", course.ID).Msg("skipping course with invalid pricing")
			summary.Skipped++
			continue
		}

		if err := im.courses.Save(ctx, course); err != nil {
			return fmt.Errorf("failed to save course %s: %w", course.ID, err)
		}
		summary.Courses++
	}
	return nil
}

func (im *Importer) importRoadmaps(ctx context.Context, data []byte, summary *Summary) error {
	records, err := legacy.SplitArray(data)
	if err != nil {
		return fmt.Errorf("failed to parse roadmaps: %w", err)
	}

	for i, raw := range records {
		roadmap, err := legacy.DecodeRoadmap(raw)
		if err != nil || roadmap.ID == "" {
			im.logger.Warn().Err(err).Int("index", i).Msg("skipping roadmap without id")
			summary.Skipped++
			continue
		}
		if err := validPricing(roadmap.Pricing); err != nil {
			im.logger.Warn().Err(err).Str("roadmap_id", roadmap.ID).Msg("skipping roadmap with invalid pricing")
			summary.Skipped++
			continue
		}

		missing, err := im.missingCourses(ctx, roadmap)
		if err != nil {
			return fmt.Errorf("failed to resolve modules of roadmap %s: %w", roadmap.ID, err)
		}
		if len(missing) > 0 {
			im.logger.Warn().
				Str("roadmap_id", roadmap.ID).
				Strs("missing_courses", missing).
				Msg("skipping roadmap with modules referencing unknown courses")
			summary.Skipped++
			continue
		}

		if err := im.roadmaps.Save(ctx, roadmap); err != nil {
			return fmt.Errorf("failed to save roadmap %s: %w", roadmap.ID, err)
		}
		summary.Roadmaps++
	}
	return nil
}

// missingCourses returns the module course ids with no stored course. Courses
// are imported before roadmaps, so ids from the same run resolve.
func (im *Importer) missingCourses(ctx context.Context, roadmap *model.Roadmap) ([]string, error) {
	if len(roadmap.Modules) == 0 {
		return nil, nil
	}

	var missing, lookup []string
	for _, id := range roadmap.CourseIDs() {
		if id == "" {
			missing = append(missing, id)
			continue
		}
		lookup = append(lookup, id)
	}
	if len(lookup) == 0 {
		return missing, nil
	}

	found, err := im.courses.GetByIDs(ctx, lookup)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(found))
	for _, c := range found {
		known[c.ID] = true
	}
	for _, id := range lookup {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (im *Importer) importHomePage(ctx context.Context, data []byte, summary *Summary) error {
	var content map[string]json.RawMessage
	if err := json.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("failed to parse home page: %w", err)
	}

	if _, err := im.pages.Merge(ctx, model.HomePageID, &model.Page{ID: model.HomePageID, Content: content}); err != nil {
		return fmt.Errorf("failed to save home page: %w", err)
	}
	summary.HomePage = true
	return nil
}

func validPricing(p model.Pricing) error {
	verr := &model.ValidationError{}
	p.Validate(verr)
	return verr.Err()
}
