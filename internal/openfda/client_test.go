package openfda

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testServerClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := NewClient()
	c.BaseURL = server.URL
	return c
}

func TestAnswer_DrugLabel(t *testing.T) {
	c := testServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/drug/label.json" {
			t.Errorf("wrong endpoint %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("search"); got != "openfda.brand_name:Tylenol" {
			t.Errorf("wrong search %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Errorf("wrong limit %q", got)
		}
		fmt.Fprint(w, `{"results":[{"id":"x"}]}`)
	})

	ans, err := c.Answer(context.Background(), "Get drug label for Tylenol")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.Keyword != "label" || ans.Entity != "Tylenol" {
		t.Errorf("wrong routing: %+v", ans)
	}
	if len(ans.Body) == 0 {
		t.Error("body should carry the raw response")
	}
}

func TestAnswer_SideEffectsUsesCount(t *testing.T) {
	c := testServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/drug/event.json" {
			t.Errorf("wrong endpoint %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("count"); got != "patient.reaction.reactionmeddrapt.exact" {
			t.Errorf("wrong count %q", got)
		}
		if r.URL.Query().Has("limit") {
			t.Error("reaction counts should not carry a limit")
		}
		fmt.Fprint(w, `{"results":[]}`)
	})

	ans, err := c.Answer(context.Background(), "What are side effects of Aspirin?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.Entity != "Aspirin" {
		t.Errorf("trailing punctuation should be stripped, got %q", ans.Entity)
	}
}

func TestAnswer_RecallBeatsFood(t *testing.T) {
	// "recall" sits before "food" in dispatch order, so a question naming
	// both routes to the drug enforcement endpoint
	c := testServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/drug/enforcement.json" {
			t.Errorf("expected drug enforcement, got %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"results":[]}`)
	})

	ans, err := c.Answer(context.Background(), "Food recalls involving Spinach")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.Keyword != "recall" {
		t.Errorf("expected keyword recall, got %q", ans.Keyword)
	}
}

func TestAnswer_FoodWithoutRecall(t *testing.T) {
	c := testServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/food/enforcement.json" {
			t.Errorf("expected food enforcement, got %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"results":[]}`)
	})

	ans, err := c.Answer(context.Background(), "Food safety reports for Spinach")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.Keyword != "food" {
		t.Errorf("expected keyword food, got %q", ans.Keyword)
	}
}

func TestAnswer_NoQueryMatched(t *testing.T) {
	c := NewClient()
	_, err := c.Answer(context.Background(), "tell me a joke")
	if !errors.Is(err, ErrNoQuery) {
		t.Errorf("expected ErrNoQuery, got %v", err)
	}
}

func TestAnswer_NoEntity(t *testing.T) {
	c := NewClient()
	_, err := c.Answer(context.Background(), "(ndc) 123 456")
	if !errors.Is(err, ErrNoEntity) {
		t.Errorf("expected ErrNoEntity, got %v", err)
	}
}

func TestAnswer_HTTPErrorSurfaces(t *testing.T) {
	c := testServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	_, err := c.Answer(context.Background(), "Get drug label for Ghostodrine")
	if err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestExtractEntity(t *testing.T) {
	cases := []struct {
		question string
		want     string
		ok       bool
	}{
		{"Get drug label for Tylenol", "Tylenol", true},
		{"What are side effects of Aspirin?", "Aspirin", true},
		{"Recall info for Valsartan.", "Valsartan", true},
		{"adverse events at 100mg", "at", true},
		{"123 456?", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractEntity(tc.question)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ExtractEntity(%q) = %q,%v want %q,%v", tc.question, got, ok, tc.want, tc.ok)
		}
	}
}

func TestKeywords_DispatchOrder(t *testing.T) {
	want := []string{"label", "adverse event", "side effect", "recall", "ndc", "device", "food"}
	got := Keywords()
	if len(got) != len(want) {
		t.Fatalf("expected %d keywords, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keyword %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
