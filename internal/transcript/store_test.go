package transcript

import (
	"testing"
	"time"

	"github.com/diogo/chatty/internal/models"
)

func newTestStore() *Store {
	s := NewStore()
	s.now = func() time.Time { return time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC) }
	return s
}

func TestStore_AppendIsPending(t *testing.T) {
	s := newTestStore()

	msg := s.Append("What is 2+2?", models.ProviderAtlas)
	if !msg.Pending {
		t.Error("new entry should be pending")
	}
	if msg.Response != "" {
		t.Errorf("new entry response = %q, want empty", msg.Response)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if s.PendingCount() != 1 {
		t.Errorf("PendingCount() = %d, want 1", s.PendingCount())
	}
}

func TestStore_IDsAreStable(t *testing.T) {
	s := newTestStore()

	first := s.Append("a", models.ProviderAtlas)
	second := s.Append("b", models.ProviderAtlas)
	if first.ID == second.ID {
		t.Fatal("ids must be unique")
	}

	s.Reset()
	third := s.Append("c", models.ProviderAtlas)
	if third.ID == first.ID || third.ID == second.ID {
		t.Error("ids must not be reused after Reset")
	}
}

func TestStore_Resolve(t *testing.T) {
	s := newTestStore()
	msg := s.Append("What is 2+2?", models.ProviderAtlas)

	got, ok := s.Resolve(msg.ID, "4", false)
	if !ok {
		t.Fatal("Resolve() returned false")
	}
	if got.Response != "4" || got.Pending || got.Failed {
		t.Errorf("resolved entry = %+v", got)
	}

	if _, ok := s.Resolve(msg.ID, "5", false); ok {
		t.Error("resolving twice should fail")
	}
	last, _ := s.Last()
	if last.Response != "4" {
		t.Errorf("second Resolve() overwrote response: %q", last.Response)
	}
}

func TestStore_ResolveAfterResetIsIgnored(t *testing.T) {
	s := newTestStore()
	msg := s.Append("q", models.ProviderAtlas)
	gen := s.Generation()

	if n := s.Reset(); n != 1 {
		t.Errorf("Reset() = %d, want 1", n)
	}
	if s.Generation() == gen {
		t.Error("Reset() must bump the generation")
	}

	if _, ok := s.Resolve(msg.ID, "late", false); ok {
		t.Error("Resolve() after Reset() must not succeed")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStore_Remove(t *testing.T) {
	s := newTestStore()
	a := s.Append("a", models.ProviderAtlas)
	b := s.Append("b", models.ProviderAtlas)

	if !s.Remove(b.ID) {
		t.Fatal("Remove() returned false")
	}
	if s.Remove(b.ID) {
		t.Error("Remove() of a missing id should return false")
	}

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].ID != a.ID {
		t.Errorf("Messages() = %+v", msgs)
	}
}

func TestStore_MessagesIsSnapshot(t *testing.T) {
	s := newTestStore()
	s.Append("a", models.ProviderAtlas)

	msgs := s.Messages()
	msgs[0].Query = "mutated"

	if got, _ := s.Last(); got.Query != "a" {
		t.Error("Messages() must return a copy")
	}
}

func TestStore_InsertionOrder(t *testing.T) {
	s := newTestStore()
	for _, q := range []string{"one", "two", "three"} {
		m := s.Append(q, models.ProviderAtlas)
		s.Resolve(m.ID, q+"!", false)
	}

	msgs := s.Messages()
	for i, want := range []string{"one", "two", "three"} {
		if msgs[i].Query != want {
			t.Errorf("msgs[%d].Query = %q, want %q", i, msgs[i].Query, want)
		}
	}
}

func TestStore_LastAnswered(t *testing.T) {
	s := newTestStore()
	if _, ok := s.LastAnswered(); ok {
		t.Error("empty store has no answered entry")
	}

	a := s.Append("a", models.ProviderAtlas)
	s.Resolve(a.ID, "answer a", false)
	b := s.Append("b", models.ProviderAtlas)
	s.Resolve(b.ID, "Error: API error: boom", true)
	s.Append("c", models.ProviderAtlas)

	got, ok := s.LastAnswered()
	if !ok || got.ID != a.ID {
		t.Errorf("LastAnswered() = %+v, %v; want entry a", got, ok)
	}
}

func TestStore_Get(t *testing.T) {
	s := newTestStore()
	m := s.Append("a", models.ProviderPerplexity)

	got, ok := s.Get(m.ID)
	if !ok || got.Provider != models.ProviderPerplexity {
		t.Errorf("Get() = %+v, %v", got, ok)
	}
	if _, ok := s.Get(999); ok {
		t.Error("Get() of unknown id should fail")
	}
}
