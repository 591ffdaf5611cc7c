package training

import "strconv"

// Report carries per-class evaluation metrics for one trained model, keyed
// by class label ("0" legitimate, "1" fraud). Divisions by zero report 0.
type Report struct {
	Accuracy float64                 `json:"accuracy"`
	Classes  map[string]ClassMetrics `json:"classes"`
}

type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

func EvaluateReport(yTrue, yPred []int) *Report {
	report := &Report{Classes: map[string]ClassMetrics{}}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	if len(yTrue) > 0 {
		report.Accuracy = float64(correct) / float64(len(yTrue))
	}

	for _, class := range []int{0, 1} {
		name := strconv.Itoa(class)
		tp, fp, fn := 0, 0, 0
		for i := range yTrue {
			switch {
			case yPred[i] == class && yTrue[i] == class:
				tp++
			case yPred[i] == class && yTrue[i] != class:
				fp++
			case yPred[i] != class && yTrue[i] == class:
				fn++
			}
		}

		precision := safeRatio(tp, tp+fp)
		recall := safeRatio(tp, tp+fn)

		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		report.Classes[name] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   tp + fn,
		}
	}

	return report
}

func safeRatio(num, den int) float64 {
	if den == 0 {
		return 0
	}

	return float64(num) / float64(den)
}
