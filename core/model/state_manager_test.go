package model

import (
	"sync"
	"testing"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	if s.IsFitted() {
		t.Fatal("new StateManager should not be fitted")
	}

	err := s.RequireFitted("KNeighborsClassifier", "Predict")
	if err == nil {
		t.Fatal("RequireFitted() should fail before SetFitted")
	}
	if !errors.Is(err, errors.ErrInvalidState) {
		t.Errorf("RequireFitted() error should be ErrInvalidState, got %v", err)
	}

	s.SetDimensions(4, 150)
	s.SetFitted()
	if err := s.RequireFitted("KNeighborsClassifier", "Predict"); err != nil {
		t.Errorf("RequireFitted() after SetFitted = %v, want nil", err)
	}

	state := s.GetState()
	if !state.Fitted || state.NFeatures != 4 || state.NSamples != 150 {
		t.Errorf("GetState() = %+v", state)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("Reset() should clear the fitted flag")
	}
	if f, n := s.GetDimensions(); f != 0 || n != 0 {
		t.Errorf("GetDimensions() after Reset = (%d, %d), want (0, 0)", f, n)
	}
}

func TestStateManagerConcurrentAccess(t *testing.T) {
	s := NewStateManager()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s.SetDimensions(n, n)
			s.SetFitted()
		}(i)
		go func() {
			defer wg.Done()
			_ = s.IsFitted()
			_, _ = s.GetDimensions()
		}()
	}
	wg.Wait()
	if !s.IsFitted() {
		t.Error("expected fitted after concurrent SetFitted")
	}
}
