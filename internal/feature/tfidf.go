package feature

import (
	"math"
	"sort"

	"clipcast/internal/util"
)

// DefaultVocabSize caps the fitted vocabulary at the most frequent tokens.
const DefaultVocabSize = 100

// Vectorizer is a fitted TF-IDF model over hashtag text. Column order is fixed
// at fit time; Transform emits vectors of exactly Width() columns in that order
// for both single documents and batches.
type Vectorizer struct {
	vocab []string
	index map[string]int
	idf   []float64
}

// FitVectorizer learns a vocabulary of at most maxFeatures tokens from the
// corpus, ranked by total term count with lexicographic tie-break, and computes
// smoothed inverse document frequencies.
func FitVectorizer(corpus []string, maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultVocabSize
	}
	termCount := make(map[string]int)
	docCount := make(map[string]int)
	for _, doc := range corpus {
		tokens := util.Tokenize(doc)
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			termCount[tok]++
			if _, ok := seen[tok]; !ok {
				docCount[tok]++
				seen[tok] = struct{}{}
			}
		}
	}

	vocab := make([]string, 0, len(termCount))
	for tok := range termCount {
		vocab = append(vocab, tok)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if termCount[vocab[i]] != termCount[vocab[j]] {
			return termCount[vocab[i]] > termCount[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > maxFeatures {
		vocab = vocab[:maxFeatures]
	}
	// Columns are ordered lexicographically within the selected vocabulary so
	// the layout does not depend on frequency ties.
	sort.Strings(vocab)

	v := &Vectorizer{
		vocab: vocab,
		index: make(map[string]int, len(vocab)),
		idf:   make([]float64, len(vocab)),
	}
	n := float64(len(corpus))
	for i, tok := range vocab {
		v.index[tok] = i
		// Smoothed IDF: ln((1+n)/(1+df)) + 1.
		v.idf[i] = math.Log((1+n)/(1+float64(docCount[tok]))) + 1
	}
	return v
}

// NewVectorizerFromState restores a fitted vectorizer from persisted vocabulary
// and IDF weights. Both slices must be in fitted column order.
func NewVectorizerFromState(vocab []string, idf []float64) *Vectorizer {
	v := &Vectorizer{
		vocab: append([]string(nil), vocab...),
		index: make(map[string]int, len(vocab)),
		idf:   append([]float64(nil), idf...),
	}
	for i, tok := range v.vocab {
		v.index[tok] = i
	}
	return v
}

// Transform converts a hashtag document into an L2-normalized TF-IDF vector of
// Width() columns. Tokens outside the fitted vocabulary contribute nothing; the
// call is side-effect-free.
func (v *Vectorizer) Transform(doc string) []float64 {
	vec := make([]float64, len(v.vocab))
	for _, tok := range util.Tokenize(doc) {
		if i, ok := v.index[tok]; ok {
			vec[i] += v.idf[i]
		}
	}
	norm := 0.0
	for _, x := range vec {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// TransformBatch applies Transform row-wise, preserving input order.
func (v *Vectorizer) TransformBatch(docs []string) [][]float64 {
	out := make([][]float64, len(docs))
	for i, d := range docs {
		out[i] = v.Transform(d)
	}
	return out
}

// Width returns the fitted vector width.
func (v *Vectorizer) Width() int { return len(v.vocab) }

// Vocab returns the fitted vocabulary in column order.
func (v *Vectorizer) Vocab() []string { return append([]string(nil), v.vocab...) }

// IDF returns the fitted inverse document frequencies in column order.
func (v *Vectorizer) IDF() []float64 { return append([]float64(nil), v.idf...) }
