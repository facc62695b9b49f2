// Package forms validates post and comment submissions. Validation is pure:
// a form either yields a clean data bag or a map of field-scoped errors, and
// never touches the store.
package forms

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Errors maps a field name to its validation message
type Errors map[string]string

// PostForm carries a post submission
type PostForm struct {
	Text    string
	GroupID *int64
	Image   string

	minTextLength int
	errors        Errors
}

// NewPostForm builds a post form from raw submitted values. rawGroupID is
// the group select value, empty when no group was chosen.
func NewPostForm(text, rawGroupID, image string, minTextLength int) *PostForm {
	f := &PostForm{
		Text:          strings.TrimSpace(text),
		Image:         image,
		minTextLength: minTextLength,
		errors:        Errors{},
	}
	if rawGroupID != "" {
		id, err := strconv.ParseInt(rawGroupID, 10, 64)
		if err != nil {
			f.errors["group"] = "Select a valid group"
		} else {
			f.GroupID = &id
		}
	}
	return f
}

// Valid reports whether the submission passes validation
func (f *PostForm) Valid() bool {
	if utf8.RuneCountInString(f.Text) < f.minTextLength {
		f.errors["text"] = fmt.Sprintf("Minimum character count — %d", f.minTextLength)
	}
	return len(f.errors) == 0
}

// Errors returns the field errors collected by Valid
func (f *PostForm) Errors() Errors {
	return f.errors
}

// AddError attaches an external field error, e.g. an unknown group id
// discovered by the caller
func (f *PostForm) AddError(field, message string) {
	f.errors[field] = message
}

// CommentForm carries a comment submission
type CommentForm struct {
	Text string
}

// NewCommentForm builds a comment form from the raw submitted text
func NewCommentForm(text string) *CommentForm {
	return &CommentForm{Text: strings.TrimSpace(text)}
}

// Valid reports whether the comment text satisfies the required-field contract
func (f *CommentForm) Valid() bool {
	return f.Text != ""
}
