package predict

import (
	"errors"
	"time"

	"clipcast/internal/feature"
	"clipcast/internal/forest"
	"clipcast/internal/metrics"
	"clipcast/internal/model"
)

// ErrNotFitted is returned when inference is requested before any successful
// training run exists in the session.
var ErrNotFitted = errors.New("no fitted model: run a training pass first")

// Params are the tunable policy knobs of a training run.
type Params struct {
	Threshold    int     // popularity cutoff on total interactions
	VocabSize    int     // TF-IDF vocabulary cap
	Trees        int     // ensemble size
	Seed         int64   // split and forest seed
	TestFraction float64 // held-out share for evaluation
	MaxDepth     int     // 0 = unbounded
}

// DefaultParams returns the standard training policy.
func DefaultParams() Params {
	return Params{
		Threshold:    model.DefaultPopularityThreshold,
		VocabSize:    feature.DefaultVocabSize,
		Trees:        forest.DefaultTrees,
		Seed:         forest.DefaultSeed,
		TestFraction: 0.2,
	}
}

// Artifacts is the matched set produced by one training run: two categorical
// encoders, the text vectorizer, and the fitted forest. The four pieces must be
// used together; mixing artifacts across fits breaks the column contract.
// Artifacts are immutable after fitting and safe for concurrent reads.
type Artifacts struct {
	Authors   *feature.LabelEncoder
	Music     *feature.LabelEncoder
	Text      *feature.Vectorizer
	Model     *forest.Forest
	Threshold int
	CreatedAt time.Time
}

// featurize applies the fitted transforms, in training order, to one raw
// record. An invalid clock zero-fills the time columns.
func (a *Artifacts) featurize(text, author, music string, duration float64, clk feature.Clock) []float64 {
	tags := feature.Hashtags(text)
	vec := a.Text.Transform(tags)
	authorCode := a.Authors.Transform(author)
	musicCode := a.Music.Transform(music)
	if authorCode == feature.UnseenCode {
		metrics.IncUnseenCategory("author")
	}
	if musicCode == feature.UnseenCode {
		metrics.IncUnseenCategory("music")
	}
	return feature.AssembleRow(vec, authorCode, musicCode, duration, clk, feature.TextLength(text))
}

// PredictOne scores a single raw record with the fitted artifact set. Unseen
// authors or tracks never fail; they fall back to the encoder sentinel.
func (a *Artifacts) PredictOne(text, author, music string, duration float64, clk feature.Clock) int {
	return a.Model.Predict(a.featurize(text, author, music, duration, clk))
}

// PredictBulk scores a batch row-wise and returns exactly len(posts) results in
// input order. Posts with invalid timestamps keep their slot with zero-filled
// time features rather than being dropped.
func (a *Artifacts) PredictBulk(posts []model.Post) []model.Prediction {
	out := make([]model.Prediction, len(posts))
	for i, p := range posts {
		clk := feature.Clock{}
		if p.TimeValid {
			clk = feature.ClockFrom(p.CreatedAt)
		}
		class := a.PredictOne(p.Text, p.Author, p.Music, p.Duration, clk)
		out[i] = model.Prediction{
			Post:    p,
			Popular: class == 1,
			Label:   model.DisplayLabel(class),
		}
	}
	return out
}
