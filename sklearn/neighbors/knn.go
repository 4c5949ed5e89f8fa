package neighbors

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-knn/core/model"
	"github.com/YuminosukeSato/scigo-knn/metrics"
	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
	"github.com/YuminosukeSato/scigo-knn/pkg/log"
)

const modelName = "KNeighborsClassifier"

// TiePolicy decides a binary vote in which both classes got the same count.
type TiePolicy int

const (
	// TieNegative predicts the negative class.
	TieNegative TiePolicy = iota
	// TiePositive predicts the positive class.
	TiePositive
	// TieNearest predicts the label of the single nearest selected neighbour.
	TieNearest
)

// String implements fmt.Stringer.
func (p TiePolicy) String() string {
	switch p {
	case TieNegative:
		return "negative"
	case TiePositive:
		return "positive"
	case TieNearest:
		return "nearest"
	default:
		return fmt.Sprintf("TiePolicy(%d)", int(p))
	}
}

// KNeighborsClassifier is a k-nearest-neighbours classifier over the L1
// distance. Compatible with scikit-learn's KNeighborsClassifier(p=1).
type KNeighborsClassifier struct {
	state *model.StateManager // State management (composition)

	// Hyperparameters
	nNeighbors int
	strategy   Strategy
	positive   model.Label // zero value: larger of the two classes
	tiePolicy  TiePolicy
	logger     log.Logger

	// Fitted data
	reference *mat.Dense
	labels    []model.Label
	classes_  []model.Label
	positive_ model.Label
	negative_ model.Label
}

var _ model.ClassifierWithParams = (*KNeighborsClassifier)(nil)

// KNeighborsOption is a functional option for KNeighborsClassifier
type KNeighborsOption func(*KNeighborsClassifier)

// NewKNeighborsClassifier creates a new KNeighborsClassifier.
// Defaults: k=1, NoLoops, TieNegative.
func NewKNeighborsClassifier(opts ...KNeighborsOption) *KNeighborsClassifier {
	c := &KNeighborsClassifier{
		state:      model.NewStateManager(),
		nNeighbors: 1,
		strategy:   NoLoops,
		tiePolicy:  TieNegative,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.GetLoggerWithName("neighbors.KNeighborsClassifier")
	}
	return c
}

// WithNNeighbors sets the k used by Predict.
func WithNNeighbors(k int) KNeighborsOption {
	return func(c *KNeighborsClassifier) {
		c.nNeighbors = k
	}
}

// WithStrategy sets the distance strategy used by Predict.
func WithStrategy(s Strategy) KNeighborsOption {
	return func(c *KNeighborsClassifier) {
		c.strategy = s
	}
}

// WithPositiveLabel sets the positive class of a binary problem.
func WithPositiveLabel(l model.Label) KNeighborsOption {
	return func(c *KNeighborsClassifier) {
		c.positive = l
	}
}

// WithTiePolicy sets how binary vote ties are decided.
func WithTiePolicy(p TiePolicy) KNeighborsOption {
	return func(c *KNeighborsClassifier) {
		c.tiePolicy = p
	}
}

// WithLogger sets the structured logger.
func WithLogger(l log.Logger) KNeighborsOption {
	return func(c *KNeighborsClassifier) {
		c.logger = l
	}
}

// Fit stores a copy of the training set.
//
// X must be non-empty and finite, y must hold one valid label per row, all
// of the same kind, with at least two distinct values. A failed Fit leaves
// the previous fit untouched.
func (c *KNeighborsClassifier) Fit(X mat.Matrix, y []model.Label) (err error) {
	defer errors.Recover(&err, "KNeighborsClassifier.Fit")
	start := time.Now()

	if X == nil {
		return errors.Wrap(errors.ErrEmptyData, "KNeighborsClassifier.Fit: X is nil")
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.Wrapf(errors.ErrEmptyData, "KNeighborsClassifier.Fit: X has shape (%d, %d)", rows, cols)
	}
	if len(y) != rows {
		return errors.NewDimensionError("KNeighborsClassifier.Fit", rows, len(y), 0)
	}
	if err := c.validateSettings(); err != nil {
		return err
	}
	if err := errors.CheckMatrix("KNeighborsClassifier.Fit", X, rows, cols); err != nil {
		return err
	}
	if err := model.ValidateLabels(y); err != nil {
		return err
	}

	classes := model.UniqueLabels(y)
	if len(classes) < 2 {
		return errors.NewValidationError("y", "at least two distinct labels are required", len(classes))
	}

	var positive, negative model.Label
	if len(classes) == 2 {
		positive, negative = classes[1], classes[0]
		if c.positive.IsValid() {
			switch c.positive {
			case classes[0]:
				positive, negative = classes[0], classes[1]
			case classes[1]:
			default:
				return errors.NewValidationError("positive_label",
					fmt.Sprintf("not among the fitted labels %v", classes), c.positive.String())
			}
		}
	}

	labels := make([]model.Label, rows)
	copy(labels, y)

	c.reference = mat.DenseCopyOf(X)
	c.labels = labels
	c.classes_ = classes
	c.positive_ = positive
	c.negative_ = negative
	c.state.SetDimensions(cols, rows)
	c.state.SetFitted()

	c.logger.Info("Fit completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, len(classes),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func (c *KNeighborsClassifier) validateSettings() error {
	if !c.strategy.valid() {
		return errors.NewValidationError("strategy", "unknown distance strategy", int(c.strategy))
	}
	switch c.tiePolicy {
	case TieNegative, TiePositive, TieNearest:
	default:
		return errors.NewValidationError("tie_policy", "unknown tie policy", int(c.tiePolicy))
	}
	return nil
}

// Predict returns one label per row of X using the configured k and strategy.
func (c *KNeighborsClassifier) Predict(X mat.Matrix) ([]model.Label, error) {
	return c.PredictWith(X, c.nNeighbors, c.strategy)
}

// PredictWith returns one label per row of X, voting among the k nearest
// reference rows found with the given strategy.
//
// Binary problems predict the positive class iff it holds a strict majority
// of the k votes; equal counts are resolved by the tie policy. Problems with
// three or more classes predict the most frequent label, ties going to the
// smallest label.
func (c *KNeighborsClassifier) PredictWith(X mat.Matrix, k int, strategy Strategy) (labels []model.Label, err error) {
	defer errors.Recover(&err, "KNeighborsClassifier.PredictWith")
	start := time.Now()

	if err := c.state.RequireFitted(modelName, "Predict"); err != nil {
		return nil, err
	}
	if err := c.checkK(k); err != nil {
		return nil, err
	}

	dist, err := ComputeDistances(c.reference, X, strategy)
	if err != nil {
		return nil, err
	}

	m, n := dist.Dims()
	labels = make([]model.Label, m)
	idx := make([]int, n)
	binary := len(c.classes_) == 2
	for i := 0; i < m; i++ {
		row := dist.RawRowView(i)
		selected := selectNearest(row, idx, k)
		if binary {
			labels[i] = c.voteBinary(row, selected)
		} else {
			labels[i] = c.voteMulticlass(selected)
		}
	}

	if c.logger.Enabled(context.Background(), log.LevelDebug) {
		voting := "multiclass"
		if binary {
			voting = "binary"
		}
		c.logger.Debug("Predict completed",
			log.OperationKey, log.OperationPredict,
			log.PredsKey, m,
			log.NeighborsKey, k,
			log.StrategyKey, strategy.String(),
			log.VotingKey, voting,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
	return labels, nil
}

func (c *KNeighborsClassifier) checkK(k int) error {
	_, n := c.state.GetDimensions()
	if k < 1 || k > n {
		return errors.NewValidationError("n_neighbors",
			fmt.Sprintf("must be in [1, %d] (number of fitted samples)", n), k)
	}
	return nil
}

func (c *KNeighborsClassifier) voteBinary(dist []float64, selected []int) model.Label {
	var pos, neg int
	for _, j := range selected {
		if c.labels[j] == c.positive_ {
			pos++
		} else {
			neg++
		}
	}
	switch {
	case pos > neg:
		return c.positive_
	case pos < neg:
		return c.negative_
	}

	switch c.tiePolicy {
	case TiePositive:
		return c.positive_
	case TieNearest:
		return c.labels[nearestOf(dist, selected)]
	default:
		return c.negative_
	}
}

func (c *KNeighborsClassifier) voteMulticlass(selected []int) model.Label {
	counts := make(map[model.Label]int, len(c.classes_))
	for _, j := range selected {
		counts[c.labels[j]]++
	}
	best := c.classes_[0]
	bestCount := counts[best]
	for _, l := range c.classes_[1:] {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best
}

// KNeighbors returns, for every row of X, the indices of the k nearest
// reference rows ordered nearest first, together with the full distance
// matrix. Equal distances are ordered by reference index.
func (c *KNeighborsClassifier) KNeighbors(X mat.Matrix, k int) (indices [][]int, dist *DistanceMatrix, err error) {
	defer errors.Recover(&err, "KNeighborsClassifier.KNeighbors")

	if err := c.state.RequireFitted(modelName, "KNeighbors"); err != nil {
		return nil, nil, err
	}
	if err := c.checkK(k); err != nil {
		return nil, nil, err
	}

	dist, err = ComputeDistances(c.reference, X, c.strategy)
	if err != nil {
		return nil, nil, err
	}

	m, n := dist.Dims()
	indices = make([][]int, m)
	idx := make([]int, n)
	for i := 0; i < m; i++ {
		row := dist.RawRowView(i)
		nearest := make([]int, k)
		copy(nearest, selectNearest(row, idx, k))
		sortNearest(row, nearest)
		indices[i] = nearest
	}
	return indices, dist, nil
}

// Score returns the mean accuracy of Predict(X) against y.
func (c *KNeighborsClassifier) Score(X mat.Matrix, y []model.Label) (float64, error) {
	pred, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(pred) != len(y) {
		return 0, errors.NewDimensionError("KNeighborsClassifier.Score", len(pred), len(y), 0)
	}
	score, err := metrics.MulticlassAccuracy(y, pred)
	if err != nil {
		return 0, err
	}
	c.logger.Info("Score computed",
		log.OperationKey, log.OperationScore,
		log.SamplesKey, len(y),
		log.AccuracyKey, score,
	)
	return score, nil
}

// Classes returns the fitted labels in sorted order.
func (c *KNeighborsClassifier) Classes() []model.Label {
	out := make([]model.Label, len(c.classes_))
	copy(out, c.classes_)
	return out
}

// NClasses returns the number of fitted labels.
func (c *KNeighborsClassifier) NClasses() int {
	return len(c.classes_)
}

// PositiveLabel returns the positive class of a fitted binary problem and
// false otherwise.
func (c *KNeighborsClassifier) PositiveLabel() (model.Label, bool) {
	return c.positive_, c.IsFitted() && len(c.classes_) == 2
}

// IsFitted returns whether the model has been fitted.
func (c *KNeighborsClassifier) IsFitted() bool {
	return c.state.IsFitted()
}

// GetParams returns the model's hyperparameters.
func (c *KNeighborsClassifier) GetParams() map[string]interface{} {
	params := map[string]interface{}{
		"n_neighbors": c.nNeighbors,
		"strategy":    c.strategy.String(),
		"tie_policy":  c.tiePolicy.String(),
		"metric":      "manhattan",
	}
	if c.positive.IsValid() {
		params["positive_label"] = c.positive.String()
	}
	return params
}
