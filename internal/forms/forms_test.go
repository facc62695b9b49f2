package forms

import (
	"strings"
	"testing"
)

func TestPostFormTextLength(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{name: "empty", text: "", valid: false},
		{name: "short", text: "too short", valid: false},
		{name: "nineteen characters", text: strings.Repeat("a", 19), valid: false},
		{name: "exactly twenty characters", text: strings.Repeat("a", 20), valid: true},
		{name: "long", text: strings.Repeat("a", 200), valid: true},
		{name: "padding does not count", text: "   short   ", valid: false},
		{name: "multibyte runes counted as characters", text: strings.Repeat("ф", 20), valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewPostForm(tt.text, "", "", 20)
			if got := f.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if !tt.valid {
				if msg := f.Errors()["text"]; msg != "Minimum character count — 20" {
					t.Errorf("text error = %q, want fixed minimum-count message", msg)
				}
			}
		})
	}
}

func TestPostFormGroup(t *testing.T) {
	f := NewPostForm(strings.Repeat("a", 20), "5", "", 20)
	if !f.Valid() {
		t.Fatalf("unexpected errors: %v", f.Errors())
	}
	if f.GroupID == nil || *f.GroupID != 5 {
		t.Errorf("GroupID = %v, want 5", f.GroupID)
	}

	// group is optional
	f = NewPostForm(strings.Repeat("a", 20), "", "", 20)
	if !f.Valid() || f.GroupID != nil {
		t.Errorf("empty group should validate with nil GroupID, got %v %v", f.Valid(), f.GroupID)
	}

	// unparsable group id is a field error
	f = NewPostForm(strings.Repeat("a", 20), "not-a-number", "", 20)
	if f.Valid() {
		t.Error("expected group field error")
	}
	if _, ok := f.Errors()["group"]; !ok {
		t.Errorf("errors = %v, want group field error", f.Errors())
	}
}

func TestPostFormAddError(t *testing.T) {
	f := NewPostForm(strings.Repeat("a", 20), "99", "", 20)
	f.AddError("group", "Select a valid group")
	if f.Valid() {
		t.Error("externally attached error should fail validation")
	}
}

func TestCommentForm(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{name: "empty", text: "", valid: false},
		{name: "whitespace only", text: "   ", valid: false},
		{name: "non-empty", text: "nice post", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewCommentForm(tt.text).Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}
