package predict

import (
	"fmt"
	"time"

	"clipcast/internal/feature"
	"clipcast/internal/forest"
	"clipcast/internal/logging"
	"clipcast/internal/metrics"
	"clipcast/internal/model"
)

// TrainResult bundles the fitted artifact set with its held-out evaluation.
type TrainResult struct {
	Artifacts *Artifacts
	Eval      forest.Evaluation
	Rows      int // rows used for fitting
	Dropped   int // rows excluded for invalid timestamps
}

// Train fits the full pipeline on a training corpus: encoders over author and
// music identifiers, the TF-IDF vectorizer over extracted hashtags, then the
// forest on the assembled matrix with a stratified holdout for evaluation.
//
// Rows without a parseable timestamp are excluded from fitting (they would
// poison the time columns); at inference the same rows are zero-filled instead,
// which keeps batch shapes stable.
func Train(posts []model.Post, p Params) (*TrainResult, error) {
	usable := make([]model.Post, 0, len(posts))
	for _, post := range posts {
		if post.TimeValid {
			usable = append(usable, post)
		}
	}
	dropped := len(posts) - len(usable)
	if len(usable) == 0 {
		return nil, fmt.Errorf("no trainable rows (%d dropped)", dropped)
	}

	authors := make([]string, len(usable))
	music := make([]string, len(usable))
	corpus := make([]string, len(usable))
	y := make([]int, len(usable))
	for i, post := range usable {
		authors[i] = post.Author
		music[i] = post.Music
		corpus[i] = feature.Hashtags(post.Text)
		y[i] = model.PopularityLabel(post, p.Threshold)
	}

	authorEnc := feature.FitLabelEncoder(authors)
	musicEnc := feature.FitLabelEncoder(music)
	vec := feature.FitVectorizer(corpus, p.VocabSize)

	X := make([][]float64, len(usable))
	for i, post := range usable {
		X[i] = feature.AssembleRow(
			vec.Transform(corpus[i]),
			authorEnc.Transform(authors[i]),
			musicEnc.Transform(music[i]),
			post.Duration,
			feature.ClockFrom(post.CreatedAt),
			feature.TextLength(post.Text),
		)
	}

	trainIdx, testIdx, err := forest.StratifiedSplit(y, p.TestFraction, p.Seed)
	if err != nil {
		return nil, err
	}
	Xtr, ytr := take(X, trainIdx), takeInts(y, trainIdx)
	Xte, yte := take(X, testIdx), takeInts(y, testIdx)

	opt := forest.DefaultOptions()
	opt.Trees = p.Trees
	opt.Seed = p.Seed
	opt.MaxDepth = p.MaxDepth
	f, err := forest.Train(Xtr, ytr, opt)
	if err != nil {
		return nil, err
	}
	eval := forest.Evaluate(yte, f.PredictBatch(Xte))

	logging.Info("train_complete", map[string]any{
		"rows":     len(usable),
		"dropped":  dropped,
		"vocab":    vec.Width(),
		"accuracy": eval.Accuracy,
		"f1":       eval.F1,
	})
	metrics.TrainRuns.Inc()

	return &TrainResult{
		Artifacts: &Artifacts{
			Authors:   authorEnc,
			Music:     musicEnc,
			Text:      vec,
			Model:     f,
			Threshold: p.Threshold,
			CreatedAt: time.Now().UTC(),
		},
		Eval:    eval,
		Rows:    len(usable),
		Dropped: dropped,
	}, nil
}

func take(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func takeInts(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
