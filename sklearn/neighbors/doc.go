// Package neighbors implements k-nearest-neighbours classification over the
// L1 (Manhattan) distance.
//
// The distance engine, ComputeDistances, offers three interchangeable
// strategies that return the same M×N matrix:
//
//   - TwoLoops iterates every (query, reference) pair element by element.
//   - OneLoop iterates queries and reduces each against the whole reference
//     set with gonum vector operations.
//   - NoLoops tiles both sets with Kronecker products and reduces everything
//     in a single pass.
//
// KNeighborsClassifier stores the training set at Fit time and votes among
// the k nearest reference rows at Predict time:
//
//	knn := neighbors.NewKNeighborsClassifier(
//	    neighbors.WithNNeighbors(5),
//	    neighbors.WithStrategy(neighbors.NoLoops),
//	)
//	if err := knn.Fit(X, y); err != nil {
//	    return err
//	}
//	labels, err := knn.Predict(Xtest)
//
// Neighbour selection is deterministic. Reference rows at equal distance are
// ordered by their index, so repeated predictions on the same fitted state
// always agree.
package neighbors
