package transcript

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendOrder(t *testing.T) {
	s := NewStore()
	s.Append(RoleUser, "question", TypeText, "")
	s.Append(RoleAssistant, "answer", TypeText, "")
	s.Append(RoleAssistant, "x := 1", TypeCode, "go")

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "question", all[0].Content)
	assert.Equal(t, RoleAssistant, all[1].Role)
	assert.Equal(t, TypeCode, all[2].Type)
	assert.Equal(t, "go", all[2].Language)
}

func TestStore_LanguageOnlyForCode(t *testing.T) {
	s := NewStore()
	s.Append(RoleAssistant, "plain", TypeText, "go")
	s.Append(RoleAssistant, "http://img", TypeImage, "go")
	s.Append(RoleAssistant, "code", TypeCode, "go")

	all := s.All()
	assert.Equal(t, "", all[0].Language)
	assert.Equal(t, "", all[1].Language)
	assert.Equal(t, "go", all[2].Language)
}

func TestStore_AllReturnsSnapshot(t *testing.T) {
	s := NewStore()
	s.Append(RoleUser, "original", TypeText, "")

	snapshot := s.All()
	snapshot[0].Content = "mutated"

	assert.Equal(t, "original", s.All()[0].Content)
}

func TestStore_Recent(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		n         int
		wantLen   int
		wantFirst string
	}{
		{name: "fewer than requested", total: 3, n: 5, wantLen: 3, wantFirst: "msg-0"},
		{name: "more than requested", total: 10, n: 5, wantLen: 5, wantFirst: "msg-5"},
		{name: "exact", total: 5, n: 5, wantLen: 5, wantFirst: "msg-0"},
		{name: "zero", total: 4, n: 0, wantLen: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore()
			for i := 0; i < tc.total; i++ {
				s.Append(RoleUser, fmt.Sprintf("msg-%d", i), TypeText, "")
			}

			recent := s.Recent(tc.n)
			require.Len(t, recent, tc.wantLen)
			if tc.wantLen > 0 {
				assert.Equal(t, tc.wantFirst, recent[0].Content)
				assert.Equal(t, fmt.Sprintf("msg-%d", tc.total-1), recent[len(recent)-1].Content)
			}
		})
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.Append(RoleUser, "a", TypeText, "")
	s.Append(RoleAssistant, "b", TypeText, "")

	s.Clear()

	assert.Empty(t, s.All())
	assert.Zero(t, s.Len())

	// The store stays usable after a clear.
	s.Append(RoleUser, "c", TypeText, "")
	assert.Equal(t, 1, s.Len())
}
