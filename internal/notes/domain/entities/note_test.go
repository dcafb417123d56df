package entities_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"tagnote/internal/notes/domain/entities"
)

func TestDistinctTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil", in: nil, want: []string{}},
		{name: "dedup and sort", in: []string{"work", "home", "work", "idea"}, want: []string{"home", "idea", "work"}},
		{name: "drops blanks", in: []string{"", "  ", "a"}, want: []string{"a"}},
		{name: "case sensitive", in: []string{"B", "a", "b"}, want: []string{"B", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entities.DistinctTags(tt.in))
		})
	}
}

func TestListFilterOffset(t *testing.T) {
	assert.Equal(t, 0, entities.ListFilter{Page: 1, PageSize: 3}.Offset())
	assert.Equal(t, 6, entities.ListFilter{Page: 3, PageSize: 3}.Offset())

	last := entities.ListFilter{Page: entities.MaxPage(100), PageSize: 100}
	assert.Positive(t, last.Offset())
	assert.Equal(t, math.MaxInt, entities.MaxPage(0))
}

func TestNoteUpdateIsEmpty(t *testing.T) {
	title := "t"
	assert.True(t, entities.NoteUpdate{}.IsEmpty())
	assert.False(t, entities.NoteUpdate{Title: &title}.IsEmpty())
}
