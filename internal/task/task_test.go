package task

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"", Low, false},
		{"low", Low, false},
		{"MEDIUM", Medium, false},
		{" high ", High, false},
		{"baja", Low, false},
		{"media", Medium, false},
		{"alta", High, false},
		{"urgent", Low, true},
	}

	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePriority(%q): unexpected error state: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePriority(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestPriority_Ordered(t *testing.T) {
	if !(Low < Medium && Medium < High) {
		t.Error("expected low < medium < high")
	}
}

func TestNormalizeText(t *testing.T) {
	if _, ok := NormalizeText("   "); ok {
		t.Error("expected whitespace-only text to be rejected")
	}
	got, ok := NormalizeText("  Buy milk \n")
	if !ok || got != "Buy milk" {
		t.Errorf("expected 'Buy milk', got %q", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-03-09" {
		t.Errorf("expected 2024-03-09, got %q", d.String())
	}

	d, err = ParseDate("")
	if err != nil || !d.IsZero() {
		t.Errorf("expected zero date for empty input, got %v (%v)", d, err)
	}

	if _, err := ParseDate("09/03/2024"); err == nil {
		t.Error("expected error for bad layout")
	}
}

func TestTask_DecodeLegacyDocument(t *testing.T) {
	// Shape written by the older browser client.
	doc := `{"id":1700000000000,"text":"Comprar pan","dueDate":"","priority":"alta","completed":false,"createdAt":"2024-01-02T03:04:05.000Z"}`

	var got Task
	if err := json.Unmarshal([]byte(doc), &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "1700000000000" {
		t.Errorf("expected numeric id as string, got %q", got.ID)
	}
	if !got.DueDate.IsZero() {
		t.Errorf("expected no due date, got %v", got.DueDate)
	}
	if got.Priority != High {
		t.Errorf("expected high priority, got %v", got.Priority)
	}
	if got.CreatedAt.Year() != 2024 {
		t.Errorf("expected createdAt in 2024, got %v", got.CreatedAt)
	}
}

func TestTask_JSONShape(t *testing.T) {
	in := Task{
		ID:        "abc",
		Text:      "Buy milk",
		DueDate:   NewDate(2024, time.May, 1),
		Priority:  Medium,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `{"id":"abc","text":"Buy milk","dueDate":"2024-05-01","priority":"medium","completed":false,"createdAt":"2024-01-01T00:00:00Z"}`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, data)
	}

	in.DueDate = Date{}
	data, _ = json.Marshal(in)
	var raw map[string]any
	_ = json.Unmarshal(data, &raw)
	if raw["dueDate"] != nil {
		t.Errorf("expected null dueDate, got %v", raw["dueDate"])
	}
}

func TestPending(t *testing.T) {
	if !(Task{}).Pending() {
		t.Error("new task should be pending")
	}
	if (Task{Completed: true}).Pending() {
		t.Error("completed task should not be pending")
	}
}
