package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register(t *testing.T) {
	tests := []struct {
		name      string
		types     []string
		query     string
		wantCount int
	}{
		{"specific type matches", []string{"A", "B"}, "A", 1},
		{"specific type does not match", []string{"A"}, "C", 0},
		{"wildcard matches everything", nil, "anything", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewHandlerRegistry()
			r.Register(newTestHandler(), tt.types...)
			assert.Len(t, r.GetHandlers(tt.query), tt.wantCount)
		})
	}
}

func TestHandlerRegistry_Register_IgnoresDuplicates(t *testing.T) {
	r := NewHandlerRegistry()
	h := newTestHandler()
	r.Register(h, "A")
	r.Register(h, "A")
	r.Register(h)
	r.Register(h)

	assert.Len(t, r.GetHandlers("A"), 2, "one specific plus one wildcard")
}

func TestHandlerRegistry_GetHandlers_SpecificBeforeWildcard(t *testing.T) {
	r := NewHandlerRegistry()
	wildcard := newTestHandler()
	specific := newTestHandler("A")
	r.Register(wildcard)
	r.Register(specific, "A")

	handlers := r.GetHandlers("A")
	assert.Same(t, specific, handlers[0])
	assert.Same(t, wildcard, handlers[1])
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	r := NewHandlerRegistry()
	h1 := newTestHandler()
	h2 := newTestHandler()
	r.Register(h1, "A", "B")
	r.Register(h2, "A")
	r.Register(h1)

	r.Unregister(h1)

	assert.Len(t, r.GetHandlers("A"), 1)
	assert.Empty(t, r.GetHandlers("B"))
	assert.ElementsMatch(t, []string{"A"}, r.EventTypes())
}
