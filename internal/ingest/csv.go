package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"clipcast/internal/feature"
	"clipcast/internal/model"
)

// Column names as produced by the scraper export.
const (
	colText     = "text"
	colAuthor   = "authorMeta.name"
	colMusic    = "musicMeta.musicName"
	colDuration = "videoMeta.duration"
	colCreated  = "createTimeISO"
	colDigg     = "diggCount"
	colShare    = "shareCount"
	colComment  = "commentCount"
	colPlay     = "playCount"
)

var trainingColumns = []string{colText, colAuthor, colMusic, colDuration, colCreated, colDigg, colShare, colComment, colPlay}
var bulkColumns = []string{colText, colAuthor, colMusic, colDuration, colCreated}

// LoadTrainingCSV reads the training corpus from path. Malformed rows are
// skipped, never fatal; the second return value is the skip count.
func LoadTrainingCSV(path string) ([]model.Post, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return ReadTraining(f)
}

// ReadTraining parses training rows. A row is dropped when a required field is
// missing, a counter is absent or negative, or the timestamp does not parse.
// Dropping is row-level by design: one bad row never fails the batch.
func ReadTraining(r io.Reader) ([]model.Post, int, error) {
	rows, idx, err := readAll(r, trainingColumns)
	if err != nil {
		return nil, 0, err
	}
	var posts []model.Post
	dropped := 0
	for _, rec := range rows {
		if !hasFields(rec, idx, trainingColumns) {
			dropped++
			continue
		}
		p, ok := parseRow(rec, idx)
		if !ok || !p.TimeValid {
			dropped++
			continue
		}
		digg, ok1 := parseCount(rec[idx[colDigg]])
		share, ok2 := parseCount(rec[idx[colShare]])
		comment, ok3 := parseCount(rec[idx[colComment]])
		play, ok4 := parseCount(rec[idx[colPlay]])
		if !ok1 || !ok2 || !ok3 || !ok4 {
			dropped++
			continue
		}
		p.DiggCount, p.ShareCount, p.CommentCount, p.PlayCount = digg, share, comment, play
		posts = append(posts, p)
	}
	return posts, dropped, nil
}

// ReadBulk parses inference rows. Every input row is kept: bad timestamps mark
// the post TimeValid=false (zero-filled downstream) and bad durations become 0,
// so output row count always equals input row count.
func ReadBulk(r io.Reader) ([]model.Post, error) {
	rows, idx, err := readAll(r, bulkColumns)
	if err != nil {
		return nil, err
	}
	posts := make([]model.Post, 0, len(rows))
	for _, rec := range rows {
		p, _ := parseRow(rec, idx)
		posts = append(posts, p)
	}
	return posts, nil
}

// LoadBulkCSV reads an uploaded inference batch from path.
func LoadBulkCSV(path string) ([]model.Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBulk(f)
}

// readAll reads the CSV and maps required column names to field positions.
func readAll(r io.Reader, required []string) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("empty csv")
	}
	header := all[0]
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return all[1:], idx, nil
}

// hasFields reports whether rec is long enough to address every column in cols.
func hasFields(rec []string, idx map[string]int, cols []string) bool {
	for _, name := range cols {
		if idx[name] >= len(rec) {
			return false
		}
	}
	return true
}

// parseRow extracts the shared (non-counter) fields. ok is false when the row
// is too short to address the required columns.
func parseRow(rec []string, idx map[string]int) (model.Post, bool) {
	if !hasFields(rec, idx, bulkColumns) {
		return model.Post{}, false
	}
	p := model.Post{
		Text:   rec[idx[colText]],
		Author: rec[idx[colAuthor]],
		Music:  rec[idx[colMusic]],
	}
	if d, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[colDuration]]), 64); err == nil && d >= 0 {
		p.Duration = d
	}
	if t, ok := feature.ParseTimestamp(rec[idx[colCreated]]); ok {
		p.CreatedAt = t
		p.TimeValid = true
	}
	return p, true
}

func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
