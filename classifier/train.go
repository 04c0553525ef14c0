package classifier

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/happyhackingspace/campo/internal/textutil"
	"github.com/happyhackingspace/campo/internal/vectorizer"
)

// TrainingExample is one (signals, type) pair used to fit the model.
type TrainingExample struct {
	Signals string    `json:"signals"`
	Type    FieldType `json:"type"`
}

// TrainConfig holds model training configuration.
type TrainConfig struct {
	C       float64 // inverse regularization strength
	MaxIter int
	Verbose bool
}

// DefaultTrainConfig returns the default training configuration.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{C: 5.0, MaxIter: 100}
}

// TrainModel fits a softmax model on the given examples. Signal text is
// normalized, vectorized with word 1-2 grams and L2-normalized, matching the
// vectorization applied at classification time.
func TrainModel(examples []TrainingExample, config TrainConfig) (*Model, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("no training examples")
	}

	corpus := make([]string, len(examples))
	for i, ex := range examples {
		corpus[i] = textutil.Normalize(ex.Signals)
	}

	cv := vectorizer.NewCountVectorizer([2]int{1, 2}, false, "word", 1)
	xData := cv.FitTransform(corpus)
	for i := range xData {
		xData[i].Normalize()
	}
	totalDim := cv.VocabSize()
	if totalDim == 0 {
		return nil, fmt.Errorf("empty vocabulary: no usable signal tokens")
	}

	classSet := make(map[FieldType]int)
	var classes []FieldType
	for _, ex := range examples {
		if _, ok := classSet[ex.Type]; !ok {
			classSet[ex.Type] = len(classes)
			classes = append(classes, ex.Type)
		}
	}
	if len(classes) < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", len(classes))
	}

	y := make([]int, len(examples))
	for i, ex := range examples {
		y[i] = classSet[ex.Type]
	}

	numClasses := len(classes)
	reg := config.C
	if reg <= 0 {
		reg = 5.0
	}
	maxIter := config.MaxIter
	if maxIter <= 0 {
		maxIter = 100
	}

	numParams := numClasses * (totalDim + 1)
	params := make([]float64, numParams)

	opt := newLBFGS(10)
	for iter := 0; iter < maxIter; iter++ {
		loss, gradients := objective(xData, y, params, numClasses, totalDim, reg)

		if config.Verbose && iter%10 == 0 {
			slog.Info("Training", "iter", iter, "loss", loss)
		}

		dir := opt.computeDirection(gradients, numParams)
		step := lineSearch(xData, y, params, dir, numClasses, totalDim, reg, loss)

		prevParams := make([]float64, numParams)
		copy(prevParams, params)
		for i := range numParams {
			params[i] += step * dir[i]
		}

		_, newGrad := objective(xData, y, params, numClasses, totalDim, reg)
		s := make([]float64, numParams)
		yVec := make([]float64, numParams)
		for i := range numParams {
			s[i] = params[i] - prevParams[i]
			yVec[i] = newGrad[i] - gradients[i]
		}
		opt.update(s, yVec)

		maxGrad := 0.0
		for _, g := range newGrad {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < 1e-5 {
			break
		}
	}

	model := &Model{
		Classes:   classes,
		Coef:      make([][]float64, numClasses),
		Intercept: make([]float64, numClasses),
		Vocab:     cv,
	}
	for c := range numClasses {
		model.Coef[c] = make([]float64, totalDim)
		offset := c * (totalDim + 1)
		copy(model.Coef[c], params[offset:offset+totalDim])
		model.Intercept[c] = params[offset+totalDim]
	}
	return model, nil
}

func objective(x []vectorizer.SparseVector, y []int, params []float64, numClasses, totalDim int, c float64) (float64, []float64) {
	n := len(x)
	grad := make([]float64, len(params))
	loss := 0.0

	for j := range n {
		logits := make([]float64, numClasses)
		for k := range numClasses {
			offset := k * (totalDim + 1)
			logits[k] = x[j].Dot(params[offset:offset+totalDim]) + params[offset+totalDim]
		}

		probs := softmax(logits)

		if probs[y[j]] > 0 {
			loss -= math.Log(probs[y[j]])
		} else {
			loss += 100
		}

		for k := range numClasses {
			offset := k * (totalDim + 1)
			indicator := 0.0
			if k == y[j] {
				indicator = 1.0
			}
			diff := probs[k] - indicator
			for vi, idx := range x[j].Indices {
				grad[offset+idx] += diff * x[j].Values[vi]
			}
			grad[offset+totalDim] += diff
		}
	}

	regCoeff := 1.0 / c
	for k := range numClasses {
		offset := k * (totalDim + 1)
		for i := range totalDim {
			loss += 0.5 * regCoeff * params[offset+i] * params[offset+i]
			grad[offset+i] += regCoeff * params[offset+i]
		}
	}

	return loss, grad
}

func lineSearch(x []vectorizer.SparseVector, y []int, params, dir []float64, numClasses, totalDim int, c, currentLoss float64) float64 {
	step := 1.0
	n := len(params)
	wNew := make([]float64, n)

	for trial := 0; trial < 20; trial++ {
		for i := range n {
			wNew[i] = params[i] + step*dir[i]
		}
		newLoss, _ := objective(x, y, wNew, numClasses, totalDim, c)
		if newLoss < currentLoss {
			return step
		}
		step *= 0.5
	}
	return step
}

type lbfgs struct {
	m    int
	s    [][]float64
	y    [][]float64
	rho  []float64
	k    int
	size int
}

func newLBFGS(m int) *lbfgs {
	return &lbfgs{
		m:   m,
		s:   make([][]float64, m),
		y:   make([][]float64, m),
		rho: make([]float64, m),
	}
}

func (l *lbfgs) update(s, y []float64) {
	sy := 0.0
	for i := range s {
		sy += s[i] * y[i]
	}
	if sy <= 0 {
		return
	}
	idx := l.k % l.m
	l.s[idx] = make([]float64, len(s))
	l.y[idx] = make([]float64, len(y))
	copy(l.s[idx], s)
	copy(l.y[idx], y)
	l.rho[idx] = 1.0 / sy
	l.k++
	if l.size < l.m {
		l.size++
	}
}

func (l *lbfgs) computeDirection(grad []float64, n int) []float64 {
	q := make([]float64, n)
	copy(q, grad)

	if l.size == 0 {
		for i := range q {
			q[i] = -q[i]
		}
		return q
	}

	alpha := make([]float64, l.size)

	for i := l.size - 1; i >= 0; i-- {
		idx := (l.k - 1 - (l.size - 1 - i)) % l.m
		if idx < 0 {
			idx += l.m
		}
		a := 0.0
		for j := range n {
			a += l.rho[idx] * l.s[idx][j] * q[j]
		}
		alpha[i] = a
		for j := range n {
			q[j] -= a * l.y[idx][j]
		}
	}

	latestIdx := (l.k - 1) % l.m
	if latestIdx < 0 {
		latestIdx += l.m
	}
	yy := 0.0
	sy := 0.0
	for i := range n {
		yy += l.y[latestIdx][i] * l.y[latestIdx][i]
		sy += l.s[latestIdx][i] * l.y[latestIdx][i]
	}
	if yy > 0 {
		gamma := sy / yy
		for i := range q {
			q[i] *= gamma
		}
	}

	for i := range l.size {
		idx := (l.k - l.size + i) % l.m
		if idx < 0 {
			idx += l.m
		}
		beta := 0.0
		for j := range n {
			beta += l.rho[idx] * l.y[idx][j] * q[j]
		}
		for j := range n {
			q[j] += (alpha[i] - beta) * l.s[idx][j]
		}
	}

	for i := range q {
		q[i] = -q[i]
	}
	return q
}
