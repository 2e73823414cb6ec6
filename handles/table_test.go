package handles

import (
	stderrors "errors"
	"sync"
	"testing"
)

type testObserver struct {
	mu     sync.Mutex
	events []Event
}

func (o *testObserver) OnHandleEvent(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

type dropCounter struct{ drops int }

func (d *dropCounter) Drop() { d.drops++ }

func TestTableBasic(t *testing.T) {
	table := NewTable()

	h, err := table.Insert("delegate", "cb")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if h == 0 {
		t.Fatal("expected non-zero handle")
	}

	if v, ok := table.Get(h); !ok || v != "cb" {
		t.Fatalf("Get = %v, %v", v, ok)
	}
	if _, ok := table.GetTyped(h, "delegate"); !ok {
		t.Error("GetTyped with matching kind failed")
	}
	if _, ok := table.GetTyped(h, "object"); ok {
		t.Error("GetTyped with other kind should fail")
	}

	if v, ok := table.Remove(h); !ok || v != "cb" {
		t.Fatalf("Remove = %v, %v", v, ok)
	}
	if _, ok := table.Get(h); ok {
		t.Error("Get after Remove should fail")
	}
	if _, ok := table.Remove(h); ok {
		t.Error("second Remove should fail")
	}
	if table.Len() != 0 {
		t.Errorf("Len = %d, want 0", table.Len())
	}
}

func TestTableInvalidHandles(t *testing.T) {
	table := NewTable()
	for _, h := range []Handle{0, 1, 99} {
		if _, ok := table.Get(h); ok {
			t.Errorf("Get(%d) should fail", h)
		}
		if _, ok := table.Remove(h); ok {
			t.Errorf("Remove(%d) should fail", h)
		}
	}
}

func TestTableReusesSlots(t *testing.T) {
	table := NewTable()
	a, _ := table.Insert("k", 1)
	b, _ := table.Insert("k", 2)
	table.Remove(a)

	c, _ := table.Insert("k", 3)
	if c != a {
		t.Errorf("reused handle = %d, want %d", c, a)
	}
	if v, _ := table.Get(b); v != 2 {
		t.Errorf("Get(b) = %v", v)
	}
	if table.Len() != 2 {
		t.Errorf("Len = %d, want 2", table.Len())
	}
}

func TestTableObserver(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	h, _ := table.Insert("k", "v")
	table.Remove(h)
	table.Unsubscribe(obs)
	table.Insert("k", "w")

	if len(obs.events) != 2 {
		t.Fatalf("events = %d, want 2", len(obs.events))
	}
	if obs.events[0].Type != EventCreated || obs.events[0].Handle != h || obs.events[0].Kind != "k" {
		t.Errorf("created event = %+v", obs.events[0])
	}
	if obs.events[1].Type != EventDropped || obs.events[1].Value != "v" {
		t.Errorf("dropped event = %+v", obs.events[1])
	}
}

func TestTableDropper(t *testing.T) {
	table := NewTable()
	removed := &dropCounter{}
	kept := &dropCounter{}

	h, _ := table.Insert("k", removed)
	table.Insert("k", kept)
	table.Remove(h)
	if removed.drops != 1 {
		t.Errorf("drops on Remove = %d, want 1", removed.drops)
	}

	if err := table.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if kept.drops != 1 || removed.drops != 1 {
		t.Errorf("drops after Close = %d, %d", kept.drops, removed.drops)
	}
	if err := table.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := table.Insert("k", 1); !stderrors.Is(err, ErrClosed) {
		t.Errorf("Insert after Close = %v, want ErrClosed", err)
	}
	if table.Len() != 0 {
		t.Errorf("Len after Close = %d", table.Len())
	}
}

func TestTableEach(t *testing.T) {
	table := NewTable()
	for i := 0; i < 5; i++ {
		table.Insert("k", i)
	}
	table.Remove(2)

	var seen []any
	table.Each(func(_ Handle, _ string, v any) bool {
		seen = append(seen, v)
		return len(seen) < 3
	})
	if len(seen) != 3 || seen[0] != 0 || seen[1] != 2 || seen[2] != 3 {
		t.Errorf("Each = %v", seen)
	}
}

func TestWord(t *testing.T) {
	tests := []struct {
		word uint64
		h    Handle
		ok   bool
	}{
		{Handle(7).Word(), 7, true},
		{Handle(0xffffffff).Word(), 0xffffffff, true},
		{0, 0, false},
		{0x1000, 0, false},
		{Mark | 1<<40, 0, false},
	}
	for _, tc := range tests {
		h, ok := FromWord(tc.word)
		if h != tc.h || ok != tc.ok {
			t.Errorf("FromWord(%#x) = %d, %v; want %d, %v", tc.word, h, ok, tc.h, tc.ok)
		}
	}
	if Handle(0).Word() != 0 {
		t.Error("zero handle should map to a null word")
	}
}

func TestTableConcurrent(t *testing.T) {
	table := NewTable()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				h, err := table.Insert("k", g*1000+i)
				if err != nil {
					t.Error(err)
					return
				}
				if v, ok := table.Get(h); !ok || v != g*1000+i {
					t.Errorf("Get(%d) = %v, %v", h, v, ok)
					return
				}
				table.Remove(h)
			}
		}(g)
	}
	wg.Wait()
	if table.Len() != 0 {
		t.Errorf("Len = %d, want 0", table.Len())
	}
}
