package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
)

type fakeMemberRepo struct {
	members map[int64]*models.OrganizationMember
	order   []int64
	nextID  int64
}

func newFakeMemberRepo(members ...models.OrganizationMember) *fakeMemberRepo {
	repo := &fakeMemberRepo{members: map[int64]*models.OrganizationMember{}}
	for i := range members {
		m := members[i]
		repo.members[m.ID] = &m
		repo.order = append(repo.order, m.ID)
		if m.ID > repo.nextID {
			repo.nextID = m.ID
		}
	}
	return repo
}

func (f *fakeMemberRepo) List(_ context.Context, _ models.OrganizationMemberFilter) ([]models.OrganizationMember, error) {
	out := make([]models.OrganizationMember, 0, len(f.order))
	for _, id := range f.order {
		if m, ok := f.members[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) FindByID(_ context.Context, id int64) (*models.OrganizationMember, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMemberRepo) ParentOf(_ context.Context, id int64) (*int64, bool, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, false, nil
	}
	return m.ParentID, true, nil
}

func (f *fakeMemberRepo) CountChildren(_ context.Context, id int64) (int, error) {
	count := 0
	for _, m := range f.members {
		if m.ParentID != nil && *m.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (f *fakeMemberRepo) Create(_ context.Context, m *models.OrganizationMember) error {
	f.nextID++
	m.ID = f.nextID
	cp := *m
	f.members[m.ID] = &cp
	f.order = append(f.order, m.ID)
	return nil
}

func (f *fakeMemberRepo) Update(_ context.Context, m *models.OrganizationMember) error {
	cp := *m
	f.members[m.ID] = &cp
	return nil
}

func (f *fakeMemberRepo) Delete(_ context.Context, id int64) error {
	delete(f.members, id)
	return nil
}

func idPtr(id int64) *int64 { return &id }

// chart: 1 director, 2 and 3 managers under 1, 4 staff under 2.
func sampleChart() *fakeMemberRepo {
	return newFakeMemberRepo(
		models.OrganizationMember{ID: 1, Name: "Director", Position: "Director"},
		models.OrganizationMember{ID: 2, Name: "Manager A", Position: "Manager", ParentID: idPtr(1), Level: 1},
		models.OrganizationMember{ID: 3, Name: "Manager B", Position: "Manager", ParentID: idPtr(1), Level: 1},
		models.OrganizationMember{ID: 4, Name: "Staff", Position: "Staff", ParentID: idPtr(2), Level: 2},
	)
}

func TestBuildOrganizationTree(t *testing.T) {
	repo := sampleChart()
	members, _ := repo.List(context.Background(), models.OrganizationMemberFilter{})

	roots := BuildOrganizationTree(members)
	require.Len(t, roots, 1)
	assert.Equal(t, int64(1), roots[0].ID)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, int64(2), roots[0].Children[0].ID)
	assert.Equal(t, int64(3), roots[0].Children[1].ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, int64(4), roots[0].Children[0].Children[0].ID)
	assert.NotNil(t, roots[0].Children[1].Children)
	assert.Empty(t, roots[0].Children[1].Children)
}

func TestBuildOrganizationTreeDropsDanglingMembers(t *testing.T) {
	members := []models.OrganizationMember{
		{ID: 1, Name: "Root"},
		{ID: 5, Name: "Orphan", ParentID: idPtr(99)},
	}
	roots := BuildOrganizationTree(members)
	require.Len(t, roots, 1)
	assert.Empty(t, roots[0].Children)
	assert.Equal(t, []int64{5}, danglingMembers(members))

	empty := BuildOrganizationTree(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestOrganizationTreeServiceMatchesBuilder(t *testing.T) {
	svc := NewOrganizationService(sampleChart(), nil)
	roots, err := svc.Tree(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Len(t, roots[0].Children, 2)
}

func TestOrganizationUpdateUnknownMemberIsNotFoundBeforeSelfParent(t *testing.T) {
	svc := NewOrganizationService(newFakeMemberRepo(), nil)
	_, err := svc.Update(context.Background(), 999, UpdateOrganizationMemberRequest{ParentID: NullableInt{Set: true, Value: idPtr(999)}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 404, appErrors.FromError(err).Status)

	_, err = svc.Update(context.Background(), 999, UpdateOrganizationMemberRequest{Level: NullableInt{Set: true, Value: idPtr(9)}})
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestOrganizationUpdateRejectsSelfParent(t *testing.T) {
	repo := sampleChart()
	svc := NewOrganizationService(repo, nil)
	_, err := svc.Update(context.Background(), 2, UpdateOrganizationMemberRequest{ParentID: NullableInt{Set: true, Value: idPtr(2)}})
	require.Error(t, err)
	assert.Equal(t, "CIRCULAR_REFERENCE", appErrors.FromError(err).Code)
	assert.Equal(t, int64(1), *repo.members[2].ParentID)
}

func TestOrganizationUpdateRejectsDescendantAsParent(t *testing.T) {
	repo := sampleChart()
	svc := NewOrganizationService(repo, nil)

	_, err := svc.Update(context.Background(), 1, UpdateOrganizationMemberRequest{ParentID: NullableInt{Set: true, Value: idPtr(4)}})
	require.Error(t, err)
	assert.Equal(t, "CIRCULAR_REFERENCE", appErrors.FromError(err).Code)
	assert.Nil(t, repo.members[1].ParentID)
}

func TestOrganizationUpdateMovesAndDetaches(t *testing.T) {
	repo := sampleChart()
	svc := NewOrganizationService(repo, nil)

	moved, err := svc.Update(context.Background(), 4, UpdateOrganizationMemberRequest{ParentID: NullableInt{Set: true, Value: idPtr(3)}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), *moved.ParentID)

	detached, err := svc.Update(context.Background(), 4, UpdateOrganizationMemberRequest{ParentID: NullableInt{Set: true}})
	require.NoError(t, err)
	assert.Nil(t, detached.ParentID)

	name := "Senior Staff"
	renamed, err := svc.Update(context.Background(), 2, UpdateOrganizationMemberRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Senior Staff", renamed.Name)
	assert.Equal(t, int64(1), *renamed.ParentID)
}

func TestOrganizationUpdateUnknownParent(t *testing.T) {
	svc := NewOrganizationService(sampleChart(), nil)
	_, err := svc.Update(context.Background(), 4, UpdateOrganizationMemberRequest{ParentID: NullableInt{Set: true, Value: idPtr(42)}})
	assert.Equal(t, "PARENT_NOT_FOUND", appErrors.FromError(err).Code)
}

func TestOrganizationCreateValidation(t *testing.T) {
	svc := NewOrganizationService(sampleChart(), nil)

	_, err := svc.Create(context.Background(), CreateOrganizationMemberRequest{Position: "Staff"})
	assert.Equal(t, "INVALID_NAME", appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), CreateOrganizationMemberRequest{Name: "A", Position: "B", ParentID: NullableInt{Set: true, Value: idPtr(50)}})
	assert.Equal(t, "PARENT_NOT_FOUND", appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), CreateOrganizationMemberRequest{Name: "A", Position: "B", Level: NullableInt{Set: true, Value: idPtr(3)}})
	assert.Equal(t, "INVALID_LEVEL", appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), CreateOrganizationMemberRequest{Name: "A", Position: "B", Order: NullableInt{Set: true, Invalid: true}})
	assert.Equal(t, "INVALID_ORDER", appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), CreateOrganizationMemberRequest{Name: "A", Position: "B", ParentID: NullableInt{Set: true, Invalid: true}})
	assert.Equal(t, "INVALID_PARENT_ID", appErrors.FromError(err).Code)

	member, err := svc.Create(context.Background(), CreateOrganizationMemberRequest{Name: " A ", Position: "B", ParentID: NullableInt{Set: true, Value: idPtr(3)}})
	require.NoError(t, err)
	assert.Equal(t, "A", member.Name)
	assert.Equal(t, 0, member.Order)
	assert.Equal(t, int64(3), *member.ParentID)

	root, err := svc.Create(context.Background(), CreateOrganizationMemberRequest{Name: "Root", Position: "B", ParentID: NullableInt{Set: true, Value: idPtr(0)}})
	require.NoError(t, err)
	assert.Nil(t, root.ParentID)
}

func TestOrganizationCreateAcceptsNumericStrings(t *testing.T) {
	var req CreateOrganizationMemberRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"A","position":"B","parentId":"1","order":"4","level":2}`), &req))

	member, err := NewOrganizationService(sampleChart(), nil).Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *member.ParentID)
	assert.Equal(t, 4, member.Order)
	assert.Equal(t, 2, member.Level)
}

func TestOrganizationDeleteWithSubordinates(t *testing.T) {
	repo := sampleChart()
	svc := NewOrganizationService(repo, nil)

	_, err := svc.Delete(context.Background(), 2)
	assert.Equal(t, "HAS_SUBORDINATES", appErrors.FromError(err).Code)
	assert.Contains(t, repo.members, int64(2))

	deleted, err := svc.Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Staff", deleted.Name)
	assert.NotContains(t, repo.members, int64(4))
}

func TestNullableIntUnmarshal(t *testing.T) {
	cases := []struct {
		body    string
		set     bool
		value   *int64
		invalid bool
	}{
		{`{}`, false, nil, false},
		{`{"parentId":null}`, true, nil, false},
		{`{"parentId":5}`, true, idPtr(5), false},
		{`{"parentId":"12"}`, true, idPtr(12), false},
		{`{"parentId":""}`, true, nil, false},
		{`{"parentId":"abc"}`, true, nil, true},
		{`{"parentId":1.5}`, true, nil, true},
	}
	for _, tc := range cases {
		var req UpdateOrganizationMemberRequest
		require.NoError(t, json.Unmarshal([]byte(tc.body), &req), tc.body)
		assert.Equal(t, tc.set, req.ParentID.Set, tc.body)
		assert.Equal(t, tc.value, req.ParentID.Value, tc.body)
		assert.Equal(t, tc.invalid, req.ParentID.Invalid, tc.body)
	}
}
