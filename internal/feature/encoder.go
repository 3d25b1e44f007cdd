package feature

import "sort"

// UnseenCode is returned by LabelEncoder.Transform for values absent from the
// fitted class set. Mapping unseen values to -1 instead of failing is a
// deliberate contract: inference must survive authors and tracks that did not
// exist in the training corpus.
const UnseenCode = -1

// LabelEncoder maps a fitted set of strings to contiguous integer codes.
// Codes follow lexicographic order of the deduplicated values, so fitting is
// deterministic for any input ordering.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// FitLabelEncoder builds an encoder over the sorted, deduplicated values.
func FitLabelEncoder(values []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelEncoder{classes: classes, index: index}
}

// NewLabelEncoderFromClasses restores an encoder from a persisted class list.
// The list must already be in fitted (sorted) order.
func NewLabelEncoderFromClasses(classes []string) *LabelEncoder {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelEncoder{classes: append([]string(nil), classes...), index: index}
}

// Transform returns the fitted code for v, or UnseenCode if v was not observed
// during fitting. It never fails and never mutates fitted state.
func (e *LabelEncoder) Transform(v string) int {
	if code, ok := e.index[v]; ok {
		return code
	}
	return UnseenCode
}

// Classes returns the fitted values in code order.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// Len returns the number of fitted classes.
func (e *LabelEncoder) Len() int { return len(e.classes) }
