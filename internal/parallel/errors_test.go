package parallel

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestErrorCollector_SetError(t *testing.T) {
	t.Parallel()
	var ec ErrorCollector
	first := errors.New("first error")

	ec.SetError(nil)
	if ec.Err() != nil || ec.Count() != 0 {
		t.Fatal("nil errors must be ignored")
	}

	ec.SetError(first)
	ec.SetError(errors.New("second error"))
	if ec.Err() != first {
		t.Errorf("expected first error to persist, got %v", ec.Err())
	}
	if ec.Count() != 2 {
		t.Errorf("expected 2 reports, got %d", ec.Count())
	}
}

func TestErrorCollector_Concurrency(t *testing.T) {
	t.Parallel()
	var ec ErrorCollector
	var wg sync.WaitGroup
	const workers = 100

	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			if i%2 == 0 {
				ec.SetError(fmt.Errorf("worker %d", i))
			} else {
				ec.SetError(nil)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	if ec.Err() == nil {
		t.Fatal("expected an error to be recorded")
	}
	if ec.Count() != workers/2 {
		t.Errorf("expected %d reports, got %d", workers/2, ec.Count())
	}
}

func TestErrorCollector_Reset(t *testing.T) {
	t.Parallel()
	var ec ErrorCollector
	ec.SetError(errors.New("boom"))
	ec.Reset()
	if ec.Err() != nil || ec.Count() != 0 {
		t.Fatal("Reset should clear the collector")
	}
	second := errors.New("again")
	ec.SetError(second)
	if ec.Err() != second {
		t.Errorf("expected %v after reset, got %v", second, ec.Err())
	}
}
