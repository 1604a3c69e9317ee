package memory_test

import (
	"sync"
	"testing"

	"github.com/randomtoy/oura/internal/adapters/storage/memory"
)

type item struct {
	id  string
	val int
}

func (i *item) ID() string { return i.id }

func TestStore_PutGetDelete(t *testing.T) {
	s := memory.NewStore[*item]()
	s.Put(&item{id: "a", val: 1})
	s.Put(&item{id: "b", val: 2})
	s.Put(&item{id: "a", val: 3})

	if s.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", s.Len())
	}
	got, ok := s.Get("a")
	if !ok || got.val != 3 {
		t.Errorf("expected replaced value 3, got %+v", got)
	}

	list := s.List()
	if len(list) != 2 || list[0].id != "a" || list[1].id != "b" {
		t.Errorf("expected insertion order [a b], got %+v", list)
	}

	if _, ok := s.Delete("a"); !ok {
		t.Error("expected delete to find a")
	}
	if _, ok := s.Delete("a"); ok {
		t.Error("expected second delete to miss")
	}
	if _, ok := s.Get("a"); ok {
		t.Error("deleted item still present")
	}
	if list := s.List(); len(list) != 1 || list[0].id != "b" {
		t.Errorf("expected [b], got %+v", list)
	}
}

func TestStore_Concurrent(t *testing.T) {
	s := memory.NewStore[*item]()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := string(rune('a' + i%26))
			s.Put(&item{id: id, val: i})
			s.Get(id)
			s.List()
		}()
	}
	wg.Wait()
	if s.Len() != 26 {
		t.Errorf("expected 26 distinct ids, got %d", s.Len())
	}
}
