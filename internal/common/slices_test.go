package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, Unique([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, Unique([]string{}))
}

func TestMoveTo(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		v    string
		idx  int
		want []string
	}{
		{name: "to front", in: []string{"a", "b", "c"}, v: "c", idx: 0, want: []string{"c", "a", "b"}},
		{name: "to middle", in: []string{"a", "b", "c", "d"}, v: "d", idx: 1, want: []string{"a", "d", "b", "c"}},
		{name: "already in place", in: []string{"a", "b"}, v: "a", idx: 0, want: []string{"a", "b"}},
		{name: "clamped", in: []string{"a", "b"}, v: "a", idx: 5, want: []string{"b", "a"}},
		{name: "absent", in: []string{"a", "b"}, v: "z", idx: 0, want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MoveTo(tt.in, tt.v, tt.idx))
		})
	}
}
