package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversEveryItem(t *testing.T) {
	for _, items := range []int{0, 1, 7, 1000} {
		seen := make([]int32, items)
		Parallelize(items, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("items=%d: index %d visited %d times, want 1", items, i, c)
			}
		}
	}
}

func TestParallelizeWithThresholdSequential(t *testing.T) {
	var calls int32
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		if start != 0 || end != 10 {
			t.Errorf("sequential range = [%d, %d), want [0, 10)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("fn called %d times below threshold, want 1", calls)
	}
}

func TestParallelizeWithThresholdParallel(t *testing.T) {
	var total int64
	ParallelizeWithThreshold(500, 10, func(start, end int) {
		atomic.AddInt64(&total, int64(end-start))
	})
	if total != 500 {
		t.Errorf("covered %d items, want 500", total)
	}
}

func TestParallelizeNSingleWorker(t *testing.T) {
	var calls int32
	ParallelizeN(50, 0, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		if start != 0 || end != 50 {
			t.Errorf("range = [%d, %d), want [0, 50)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}
