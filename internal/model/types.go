package model

import "time"

// Post represents the subset of scraped short-video fields used by the pipeline.
type Post struct {
	Text         string
	Author       string
	Music        string
	Duration     float64 // seconds
	CreatedAt    time.Time
	TimeValid    bool // false when the source timestamp did not parse
	DiggCount    int
	ShareCount   int
	CommentCount int
	PlayCount    int
}

// Prediction is a scored post as returned by bulk inference.
type Prediction struct {
	Post    Post
	Popular bool
	Label   string
}

// Display labels for the binary popularity outcome.
const (
	LabelPopular    = "Popular"
	LabelNotPopular = "Not popular"
)

// DisplayLabel maps a binary class to its human-readable form.
func DisplayLabel(class int) string {
	if class == 1 {
		return LabelPopular
	}
	return LabelNotPopular
}
