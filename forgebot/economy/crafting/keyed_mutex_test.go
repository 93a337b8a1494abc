package crafting

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			release := km.Lock("user:craft")
			defer release()
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Errorf("counter = %d, want %d", counter, workers)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	releaseA := km.Lock("a")
	// Locking a different key must not block while "a" is held.
	done := make(chan struct{})
	go func() {
		releaseB := km.Lock("b")
		releaseB()
		close(done)
	}()
	<-done
	releaseA()
}

func TestKeyedMutexReleaseIdempotent(t *testing.T) {
	km := NewKeyedMutex()

	release := km.Lock("x")
	release()
	release() // second call must be a no-op, not an unlock of someone else

	// The key should be freshly lockable afterwards.
	release2 := km.Lock("x")
	release2()
}
