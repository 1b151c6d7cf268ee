package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"gamechat/internal/chat"
)

func TestStoreEvictsOldestAtCapacity(t *testing.T) {
	t.Parallel()

	s := New(3, "")
	for i := 0; i < 5; i++ {
		if _, err := s.AddReceived("bob", fmt.Sprintf("m%d", i)); err != nil {
			t.Fatalf("AddReceived: %v", err)
		}
	}
	got := s.List()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"m2", "m3", "m4"} {
		if got[i].Message != want {
			t.Fatalf("List()[%d] = %q, want %q", i, got[i].Message, want)
		}
	}
}

func TestStoreAppendFillsIDAndTimestamp(t *testing.T) {
	t.Parallel()

	s := New(0, "")
	if s.Capacity() != DefaultCapacity {
		t.Fatalf("Capacity = %d, want %d", s.Capacity(), DefaultCapacity)
	}
	msg, err := s.AddSent("hi")
	if err != nil {
		t.Fatalf("AddSent: %v", err)
	}
	if msg.ID == "" || msg.Timestamp.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", msg)
	}
	if msg.Sender != chat.SelfSender || msg.Direction != chat.DirectionSent {
		t.Fatalf("unexpected sent message: %+v", msg)
	}
}

func TestStoreListIsCopy(t *testing.T) {
	t.Parallel()

	s := New(2, "")
	_, _ = s.AddSent("a")
	got := s.List()
	got[0].Message = "mutated"
	if s.List()[0].Message != "a" {
		t.Fatalf("List() must return a copy")
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if l := s.List(); l == nil || len(l) != 0 {
		t.Fatalf("List() after Clear = %#v, want empty non-nil", l)
	}
}

func TestStorePersistAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.jsonl")
	s := New(2, path)
	for _, text := range []string{"one", "two", "three"} {
		if _, err := s.AddSent(text); err != nil {
			t.Fatalf("AddSent: %v", err)
		}
	}

	reloaded := New(2, path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := reloaded.List()
	if len(got) != 2 || got[0].Message != "two" || got[1].Message != "three" {
		t.Fatalf("reloaded = %+v", got)
	}
}

func TestStoreLoadSkipsGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join([]string{
		`{"sender":"Self","message":"one","timestamp":"2025-01-01T00:00:00Z","direction":"sent"}`,
		`{not json}`,
		`{"sender":"bob","message":"  ","timestamp":"2025-01-01T00:00:00Z","direction":"received"}`,
		`{"sender":"bob","message":"two","timestamp":"2025-01-01T00:00:00Z","direction":"received"}`,
		"",
	}, "\n")), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := New(10, path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := s.List()
	if len(got) != 2 || got[0].Message != "one" || got[1].Message != "two" {
		t.Fatalf("Load() = %+v", got)
	}
}

func TestStoreClearTruncatesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.jsonl")
	s := New(5, path)
	_, _ = s.AddSent("one")
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("file size after Clear = %d", info.Size())
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	t.Parallel()

	s := New(5, filepath.Join(t.TempDir(), "missing.jsonl"))
	if err := s.Load(); err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}

	var nilStore *Store
	if _, err := nilStore.Append(chat.Message{Message: "x"}); err == nil {
		t.Fatalf("expected error for nil store")
	}
}

func TestStoreConcurrentAppend(t *testing.T) {
	t.Parallel()

	s := New(50, "")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, _ = s.AddReceived("p", fmt.Sprintf("%d-%d", n, j))
				_ = s.List()
			}
		}(i)
	}
	wg.Wait()
	if s.Len() != 50 {
		t.Fatalf("Len = %d, want 50", s.Len())
	}
}
