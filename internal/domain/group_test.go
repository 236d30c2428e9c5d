package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueIDs(t *testing.T) {
	got := UniqueIDs([]string{"alice"}, []string{"bob", "alice", "", "charlie", "bob"})
	assert.Equal(t, []string{"alice", "bob", "charlie"}, got)
}

func TestHasMemberIsExact(t *testing.T) {
	g := &Group{MemberIDs: []string{"user-12", "user-3"}}

	assert.True(t, g.HasMember("user-12"))
	assert.False(t, g.HasMember("user-1"), "substring of a member id is not a member")
	assert.False(t, g.HasMember("12"))
}

func TestStoryAddViewOnce(t *testing.T) {
	s := &Story{}
	assert.True(t, s.AddView("u1"))
	assert.False(t, s.AddView("u1"))
	assert.True(t, s.AddView("u2"))
	assert.Equal(t, []string{"u1", "u2"}, []string(s.Views))
}

func TestWithout(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, Without([]string{"a", "b", "c"}, "b"))
	assert.Equal(t, []string{"a"}, Without([]string{"a"}, "z"))
}
