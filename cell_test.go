package swapz

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCell_ReadInitial(t *testing.T) {
	cell, _ := New(42)

	if got := cell.Read(); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestCell_Replace_ReturnsPrevious(t *testing.T) {
	cell, _ := New("old")

	prev := cell.Replace("new")
	if prev != "old" {
		t.Errorf("expected previous 'old', got %q", prev)
	}
	if got := cell.Read(); got != "new" {
		t.Errorf("expected 'new', got %q", got)
	}
}

func TestCell_ReadNeverBlocksDuringWrite(t *testing.T) {
	cell, _ := New(1)

	entered := make(chan struct{})
	release := make(chan struct{})

	// Hold the write lock inside a Modify function.
	go func() {
		_, _ = cell.Modify(func(v int) (int, error) {
			close(entered)
			<-release
			return v + 1, nil
		})
	}()

	<-entered

	// Reads must complete while the writer's critical section is held.
	done := make(chan int, 1)
	go func() {
		done <- cell.Read()
	}()

	select {
	case got := <-done:
		if got != 1 {
			t.Errorf("expected pre-write value 1, got %d", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Read blocked on an in-progress write")
	}

	close(release)
}

func TestCell_ConcurrentReplace_TotalOrder(t *testing.T) {
	cell, _ := New(-1)

	const writers = 32
	published := make(map[int]bool, writers)
	for i := 0; i < writers; i++ {
		published[i] = true
	}

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(v int) {
			defer wg.Done()
			cell.Replace(v)
		}(i)
	}
	wg.Wait()

	final := cell.Read()
	if !published[final] {
		t.Fatalf("final value %d was never published", final)
	}

	// All subsequent reads agree.
	for i := 0; i < 100; i++ {
		if got := cell.Read(); got != final {
			t.Fatalf("read %d observed %d after all writes completed, expected %d", i, got, final)
		}
	}
}

// pair carries an invariant (A == B) that a torn read would break.
type pair struct {
	A, B int
}

func TestCell_NoReadTearing(t *testing.T) {
	cell, _ := New(pair{A: 0, B: 0})

	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; ; i++ {
			select {
			case <-stop:
				return
			default:
				cell.Replace(pair{A: i, B: i})
			}
		}
	}()

	var torn atomic.Bool
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					p := cell.Read()
					if p.A != p.B {
						torn.Store(true)
						return
					}
				}
			}
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(stop)
	wg.Wait()

	if torn.Load() {
		t.Fatal("observed a torn snapshot")
	}
}

func TestCell_Modify_PublishesResult(t *testing.T) {
	cell, _ := New(10)

	next, err := cell.Modify(func(v int) (int, error) {
		return v * 2, nil
	})
	if err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	if next != 20 {
		t.Errorf("expected returned snapshot 20, got %d", next)
	}
	if got := cell.Read(); got != 20 {
		t.Errorf("expected published snapshot 20, got %d", got)
	}
}

func TestCell_Modify_FailureLeavesCellUnchanged(t *testing.T) {
	cell, _ := New(10)

	_, err := cell.Modify(func(v int) (int, error) {
		return 0, errors.New("rejected")
	})
	if err == nil {
		t.Fatal("expected error from Modify")
	}
	if got := cell.Read(); got != 10 {
		t.Errorf("expected pre-call value 10, got %d", got)
	}
}

func TestCell_Modify_SerializedObservesPriorWrite(t *testing.T) {
	cell, _ := New(0)

	entered := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_, _ = cell.Modify(func(v int) (int, error) {
			close(entered)
			<-release
			return v + 1, nil
		})
	}()

	<-entered

	go func() {
		defer wg.Done()
		// Blocks on the write lock until the first modify publishes,
		// then observes its result.
		_, _ = cell.Modify(func(v int) (int, error) {
			return v + 10, nil
		})
	}()

	// Give the second modify time to queue on the lock.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := cell.Read(); got != 11 {
		t.Errorf("expected serialized result 11, got %d", got)
	}
}

func TestCell_Cloner_DuplicatesBeforeMutate(t *testing.T) {
	type config struct {
		Tags map[string]string
	}

	initial := config{Tags: map[string]string{"env": "prod"}}
	cell, _ := New(initial)
	cell.Cloner(func(c config) config {
		tags := make(map[string]string, len(c.Tags))
		for k, v := range c.Tags {
			tags[k] = v
		}
		return config{Tags: tags}
	})

	// A reader holding the old snapshot across the write.
	held := cell.Read()

	_, err := cell.Modify(func(c config) (config, error) {
		c.Tags["env"] = "staging"
		return c, nil
	})
	if err != nil {
		t.Fatalf("Modify failed: %v", err)
	}

	if held.Tags["env"] != "prod" {
		t.Errorf("published snapshot was mutated in place: %v", held.Tags)
	}
	if got := cell.Read(); got.Tags["env"] != "staging" {
		t.Errorf("expected staging after modify, got %v", got.Tags)
	}
}

func TestCell_PointerSnapshot_SharedWithoutCopy(t *testing.T) {
	first := &pair{A: 1, B: 1}
	cell, _ := New(first)

	if got := cell.Read(); got != first {
		t.Error("expected pointer-typed snapshot to be shared, not copied")
	}

	second := &pair{A: 2, B: 2}
	prev := cell.Replace(second)
	if prev != first {
		t.Error("expected Replace to return the superseded pointer")
	}
	if got := cell.Read(); got != second {
		t.Error("expected Read to observe the swapped-in pointer")
	}
}
