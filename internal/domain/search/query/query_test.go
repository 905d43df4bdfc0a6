package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/windrose-search/windrose/internal/domain"
)

func TestNewDefaults(t *testing.T) {
	q, err := New("indie web blog", 0, 0, "", "", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if q.Page() != 1 {
		t.Errorf("Page = %d, want 1", q.Page())
	}
	if q.PageSize() != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", q.PageSize(), DefaultPageSize)
	}
}

func TestNewRejectsEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := New(text, 1, 20, "", "", false); !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("New(%q) err = %v, want ErrEmptyQuery", text, err)
		}
	}
}

func TestNewClampsPageSize(t *testing.T) {
	q, err := New("x", 1, 10_000, "", "", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if q.PageSize() != MaxPageSize {
		t.Errorf("PageSize = %d, want %d", q.PageSize(), MaxPageSize)
	}
}

func TestNewRejectsOverlongText(t *testing.T) {
	if _, err := New(strings.Repeat("a", MaxTextLength+1), 1, 20, "", "", false); err == nil {
		t.Error("expected error for overlong query")
	}
}

func TestWithText(t *testing.T) {
	q, _ := New("original", 2, 30, "example.com", "blogs", true)
	q2 := q.WithText("rewritten")

	if q2.Text() != "rewritten" {
		t.Errorf("Text = %q", q2.Text())
	}
	if q.Text() != "original" {
		t.Error("WithText mutated the receiver")
	}
	if q2.Page() != 2 || q2.PageSize() != 30 || q2.Site() != "example.com" || !q2.SafeSearch() {
		t.Error("WithText dropped other fields")
	}
}
