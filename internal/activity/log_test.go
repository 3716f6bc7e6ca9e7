package activity

import (
	"fmt"
	"testing"

	"github.com/nichelab/brandbrain/internal/models"
)

func TestAppendLevels(t *testing.T) {
	l := NewLog()
	l.Info("a")
	l.Success("b")
	l.Error("c")
	l.Warning("d")

	entries := l.Entries()
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}

	want := []string{
		models.LogLevelInfo,
		models.LogLevelSuccess,
		models.LogLevelError,
		models.LogLevelWarning,
	}
	for i, w := range want {
		if entries[i].Level != w {
			t.Errorf("entries[%d].Level = %q, want %q", i, entries[i].Level, w)
		}
		if entries[i].ID == "" {
			t.Errorf("entries[%d].ID is empty", i)
		}
	}
}

func TestBufferKeepsMostRecent100(t *testing.T) {
	l := NewLog()
	for i := 0; i < 150; i++ {
		l.Info(fmt.Sprintf("entry %d", i))
	}

	entries := l.Entries()
	if len(entries) != 100 {
		t.Fatalf("got %d entries, want 100", len(entries))
	}
	if entries[0].Message != "entry 50" {
		t.Errorf("oldest entry = %q, want %q", entries[0].Message, "entry 50")
	}
	if entries[99].Message != "entry 149" {
		t.Errorf("newest entry = %q, want %q", entries[99].Message, "entry 149")
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := NewLog()
	l.Info("original")

	entries := l.Entries()
	entries[0].Message = "mutated"

	if got := l.Entries()[0].Message; got != "original" {
		t.Errorf("buffer entry = %q, want %q", got, "original")
	}
}
