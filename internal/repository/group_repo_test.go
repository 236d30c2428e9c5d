package repository

import (
	"testing"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepository_FindByMemberIsExact(t *testing.T) {
	repo := NewGroupRepository(setupTestDB(t))

	require.NoError(t, repo.Create(&domain.Group{
		Name: "ones", CreatorID: "u1", AdminIDs: []string{"u1"}, MemberIDs: []string{"u1", "u2"}, CreatedAt: base,
	}))
	require.NoError(t, repo.Create(&domain.Group{
		Name: "tens", CreatorID: "u10", AdminIDs: []string{"u10"}, MemberIDs: []string{"u10", "xu1x"}, CreatedAt: base,
	}))

	groups, err := repo.FindByMember("u1")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "ones", groups[0].Name)

	none, err := repo.FindByMember("u")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGroupRepository_LikeWildcardsAreLiteral(t *testing.T) {
	repo := NewGroupRepository(setupTestDB(t))
	require.NoError(t, repo.Create(&domain.Group{
		Name: "g", CreatorID: "ab", AdminIDs: []string{"ab"}, MemberIDs: []string{"ab"}, CreatedAt: base,
	}))

	groups, err := repo.FindByMember("a_")
	require.NoError(t, err)
	assert.Empty(t, groups)

	groups, err = repo.FindByMember("%")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGroupRepository_UpdateRoster(t *testing.T) {
	repo := NewGroupRepository(setupTestDB(t))
	g := &domain.Group{Name: "g", CreatorID: "u1", AdminIDs: []string{"u1"}, MemberIDs: []string{"u1"}, CreatedAt: base}
	require.NoError(t, repo.Create(g))

	g.MemberIDs = append(g.MemberIDs, "u2")
	g.AdminIDs = append(g.AdminIDs, "u2")
	require.NoError(t, repo.UpdateRoster(g))

	got, err := repo.FindByID(g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, []string(got.MemberIDs))
	assert.True(t, got.IsAdmin("u2"))

	_, err = repo.FindByID("missing")
	assert.ErrorIs(t, err, common.ErrGroupNotFound)
}
