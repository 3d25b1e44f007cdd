package feature

import "unicode/utf8"

// DenseWidth is the number of dense numeric columns appended after the TF-IDF
// block: author code, music code, duration, hour, minute, second, text length.
const DenseWidth = 7

// AssembleRow concatenates the TF-IDF block with the dense numeric block in the
// fixed column order the classifier was trained on. The column layout is a
// contract between fit and inference: any change requires retraining.
//
// An invalid clock zero-fills the three time columns, which keeps batch shapes
// stable at inference; training rows with invalid clocks are dropped upstream.
func AssembleRow(text []float64, authorCode, musicCode int, duration float64, clk Clock, textLen int) []float64 {
	row := make([]float64, 0, len(text)+DenseWidth)
	row = append(row, text...)
	hour, minute, second := 0, 0, 0
	if clk.Valid {
		hour, minute, second = clk.Hour, clk.Minute, clk.Second
	}
	row = append(row,
		float64(authorCode),
		float64(musicCode),
		duration,
		float64(hour),
		float64(minute),
		float64(second),
		float64(textLen),
	)
	return row
}

// TextLength counts characters (runes) in the caption, matching the length
// feature computed at fit time.
func TextLength(text string) int {
	return utf8.RuneCountInString(text)
}
