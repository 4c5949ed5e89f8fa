// Package scigo is a small machine learning toolkit for Go built around an
// exact k-nearest-neighbours classifier under the L1 (Manhattan) distance.
//
// The classifier offers a scikit-learn-like API on top of gonum matrices,
// together with the evaluation metrics and the exploratory data analysis
// report that usually surround it.
//
// # Features
//
// - Three interchangeable distance strategies (two loops, one loop, no loops) that produce identical matrices
// - Binary and multiclass voting with integer or string labels
// - Deterministic neighbour selection: equal distances resolve to the lower training index
// - Robust Error Handling: categorised errors built on cockroachdb/errors
// - Structured logging through a slog-compatible interface backed by zerolog
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scigo-knn/core/model"
//	    "github.com/YuminosukeSato/scigo-knn/sklearn/neighbors"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{1, 2, 8, 9})
//	    y := model.IntLabels(0, 0, 1, 1)
//
//	    clf := neighbors.NewKNeighborsClassifier(neighbors.WithNNeighbors(3))
//	    if err := clf.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := clf.Predict(mat.NewDense(2, 1, []float64{0, 10}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Predictions:", pred)
//	}
//
// # Packages
//
//   - sklearn/neighbors: KNeighborsClassifier and the L1 distance strategies
//   - metrics: classification (precision, recall, F1, accuracy) and regression metrics
//   - eda: tabular data profiling and the text report (CSV and Arrow input)
//   - core/model: labels, estimator interfaces and fitted-state tracking
//   - core/parallel: parallel processing utilities
//   - pkg/errors: error types and panic recovery
//   - pkg/log: structured logging
//
// The eda command (cmd/eda) prints the report for a CSV file.
//
// # License
//
// scigo is released under the MIT License.
package scigo
