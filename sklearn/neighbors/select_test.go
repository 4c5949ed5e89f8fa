package neighbors

import (
	"math/rand"
	"sort"
	"testing"
)

func TestSelectNearestMatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(40)
		dist := make([]float64, n)
		for i := range dist {
			// few distinct values so that ties are common
			dist[i] = float64(rng.Intn(5))
		}
		k := 1 + rng.Intn(n)

		want := make([]int, n)
		for i := range want {
			want[i] = i
		}
		sort.SliceStable(want, func(a, b int) bool { return dist[want[a]] < dist[want[b]] })
		want = want[:k]

		got := append([]int(nil), selectNearest(dist, make([]int, n), k)...)
		sortNearest(dist, got)

		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("trial %d (n=%d, k=%d): got %v, want %v", trial, n, k, got, want)
			}
		}
	}
}

func TestNearestOf(t *testing.T) {
	dist := []float64{5, 1, 3, 1}
	if got := nearestOf(dist, []int{0, 2, 3, 1}); got != 1 {
		t.Errorf("nearestOf() = %d, want 1 (lowest index among equal distances)", got)
	}
}
