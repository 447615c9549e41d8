package viewmodel

import (
	"reflect"
	"strings"
	"testing"

	"github.com/haierkeys/fast-note-client/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestProperty_Filter(t *testing.T) {
	properties := gopter.NewProperties(nil)

	notesGen := gen.SliceOf(gen.Struct(reflect.TypeOf(domain.Note{}), map[string]gopter.Gen{
		"Title":   gen.AlphaString(),
		"Content": gen.AlphaString(),
		"Tags":    gen.SliceOf(gen.AlphaString()),
	}))

	properties.Property("every match contains the query and order is kept", prop.ForAll(
		func(notes []domain.Note, q string) bool {
			got := Filter(notes, q)
			lq := strings.ToLower(q)
			j := 0
			for _, n := range got {
				text := strings.ToLower(n.Title + "\x00" + n.Content + "\x00" + strings.Join(n.Tags, " "))
				if !strings.Contains(text, lq) {
					return false
				}
				for j < len(notes) && notes[j].Title != n.Title {
					j++
				}
				if j == len(notes) {
					return false
				}
				j++
			}
			return true
		},
		notesGen,
		gen.AlphaString(),
	))

	properties.Property("search is case-insensitive", prop.ForAll(
		func(notes []domain.Note, q string) bool {
			return len(Filter(notes, strings.ToUpper(q))) == len(Filter(notes, strings.ToLower(q)))
		},
		notesGen,
		gen.AlphaString(),
	))

	properties.Property("a title is always found by itself", prop.ForAll(
		func(notes []domain.Note) bool {
			for _, n := range notes {
				if n.Title == "" {
					continue
				}
				found := false
				for _, m := range Filter(notes, n.Title) {
					if m.Title == n.Title {
						found = true
					}
				}
				if !found {
					return false
				}
			}
			return true
		},
		notesGen,
	))

	properties.TestingRun(t)
}

func TestStateCloneIsolation(t *testing.T) {
	s := State{Notes: domain.Notes{{ID: 1, Tags: []string{"x"}}}}
	c := s.clone()
	c.Notes[0].Tags[0] = "changed"
	assert.Equal(t, "x", s.Notes[0].Tags[0])
	assert.Equal(t, "edit", State{EditID: 1}.Mode().String())
	assert.Equal(t, "create", State{}.Mode().String())
}
