package forest

// ClassReport carries per-class precision/recall/F1 and support.
type ClassReport struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Evaluation summarizes held-out performance. Headline metrics treat class 1
// (popular) as positive; Confusion is rows=actual, cols=predicted, in label
// order [0,1].
type Evaluation struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	PerClass  [2]ClassReport
	Confusion [2][2]int
	TestSize  int
}

// Evaluate computes metrics from aligned actual/predicted binary labels.
func Evaluate(actual, predicted []int) Evaluation {
	var ev Evaluation
	ev.TestSize = len(actual)
	correct := 0
	for i := range actual {
		ev.Confusion[actual[i]][predicted[i]]++
		if actual[i] == predicted[i] {
			correct++
		}
	}
	if ev.TestSize > 0 {
		ev.Accuracy = float64(correct) / float64(ev.TestSize)
	}
	for c := 0; c < 2; c++ {
		tp := ev.Confusion[c][c]
		predCount := ev.Confusion[0][c] + ev.Confusion[1][c]
		support := ev.Confusion[c][0] + ev.Confusion[c][1]
		r := ClassReport{Support: support}
		if predCount > 0 {
			r.Precision = float64(tp) / float64(predCount)
		}
		if support > 0 {
			r.Recall = float64(tp) / float64(support)
		}
		if r.Precision+r.Recall > 0 {
			r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
		}
		ev.PerClass[c] = r
	}
	ev.Precision = ev.PerClass[1].Precision
	ev.Recall = ev.PerClass[1].Recall
	ev.F1 = ev.PerClass[1].F1
	return ev
}
