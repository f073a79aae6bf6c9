package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babirusa/teacher-console/internal/backendtest"
	"github.com/babirusa/teacher-console/internal/client"
	appErrors "github.com/babirusa/teacher-console/pkg/errors"
)

func newTestClient(t *testing.T) (*client.Client, *backendtest.Server, string) {
	t.Helper()

	srv := backendtest.New()
	t.Cleanup(srv.Close)

	teacherID, token := srv.SeedTeacher("alice", "secret")
	c := client.New(srv.URL(), client.StaticToken(token), client.Options{
		AdminPassword: srv.AdminPassword,
	})
	return c, srv, teacherID
}

func TestLogin(t *testing.T) {
	c, _, _ := newTestClient(t)

	token, err := c.Login(context.Background(), client.Credentials{Login: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)
}

func TestLoginWrongPassword(t *testing.T) {
	c, _, _ := newTestClient(t)

	_, err := c.Login(context.Background(), client.Credentials{Login: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, appErrors.IsUnauthorized(err))
}

func TestLoginEmptyFormNeverReachesWire(t *testing.T) {
	c, srv, _ := newTestClient(t)

	_, err := c.Login(context.Background(), client.Credentials{})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Zero(t, srv.Requests(""))
}

func TestCreatePupilIncompleteFormNeverReachesWire(t *testing.T) {
	c, srv, _ := newTestClient(t)

	_, err := c.CreatePupil(context.Background(), client.CreatePupilRequest{
		Firstname: "Bobby",
		Username:  "bobby",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Zero(t, srv.Requests(""))
}

func TestCreatePupilDuplicateUsername(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	srv.SeedPupil(teacherID, "bobby", "Bobby", "Tables", "pw", "")

	_, err := c.CreatePupil(context.Background(), client.CreatePupilRequest{
		Firstname: "Other",
		Lastname:  "Person",
		Username:  "bobby",
		Password:  "pw2",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestEnrollPlacesPupilInTargetGroup(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	groupID := srv.SeedGroup(teacherID, "5A")

	pupil, err := c.Enroll(context.Background(), client.EnrollRequest{
		CreatePupilRequest: client.CreatePupilRequest{
			Firstname: "Bobby",
			Lastname:  "Tables",
			Username:  "bobby",
			Password:  "pw",
		},
		GroupID: groupID,
	})
	require.NoError(t, err)
	require.NotNil(t, pupil)
	assert.Equal(t, []string{pupil.ID}, srv.GroupPupilIDs(groupID))
}

func TestEnrollAssignmentFailureSurfacesOrphan(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	groupID := srv.SeedGroup(teacherID, "5A")
	srv.FailNext("POST /api/teacher/groups/pupils", http.StatusNotFound)

	pupil, err := c.Enroll(context.Background(), client.EnrollRequest{
		CreatePupilRequest: client.CreatePupilRequest{
			Firstname: "Bobby",
			Lastname:  "Tables",
			Username:  "bobby",
			Password:  "pw",
		},
		GroupID: groupID,
	})
	require.Error(t, err)

	var enrollErr *client.EnrollError
	require.ErrorAs(t, err, &enrollErr)
	assert.Equal(t, "bobby", enrollErr.Pupil.Username)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	// The account exists on the authority even though assignment failed.
	require.NotNil(t, pupil)
	pupils, err := c.ListPupils(context.Background())
	require.NoError(t, err)
	require.Len(t, pupils, 1)
	assert.Equal(t, pupil.ID, pupils[0].ID)
	assert.Empty(t, srv.GroupPupilIDs(groupID))
}

func TestMoveLeavesExactlyOneMembership(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	groupA := srv.SeedGroup(teacherID, "5A")
	groupB := srv.SeedGroup(teacherID, "5B")
	pupilID := srv.SeedPupil(teacherID, "bobby", "Bobby", "Tables", "pw", groupA)

	err := c.Move(context.Background(), pupilID, groupB)
	require.NoError(t, err)

	assert.Empty(t, srv.GroupPupilIDs(groupA))
	assert.Equal(t, []string{pupilID}, srv.GroupPupilIDs(groupB))
}

func TestMoveToCurrentGroupIsIdempotent(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	groupA := srv.SeedGroup(teacherID, "5A")
	pupilID := srv.SeedPupil(teacherID, "bobby", "Bobby", "Tables", "pw", groupA)

	err := c.Move(context.Background(), pupilID, groupA)
	require.NoError(t, err)
	assert.Equal(t, []string{pupilID}, srv.GroupPupilIDs(groupA))
}

func TestAddPupilsToGroupDetachesElsewhere(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	groupA := srv.SeedGroup(teacherID, "5A")
	groupB := srv.SeedGroup(teacherID, "5B")
	pupilID := srv.SeedPupil(teacherID, "bobby", "Bobby", "Tables", "pw", groupA)

	group, err := c.AddPupilsToGroup(context.Background(), groupB, []string{pupilID})
	require.NoError(t, err)
	assert.True(t, group.Contains(pupilID))
	assert.Empty(t, srv.GroupPupilIDs(groupA))
}

func TestRemovePupilsFromGroup(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	groupA := srv.SeedGroup(teacherID, "5A")
	pupilID := srv.SeedPupil(teacherID, "bobby", "Bobby", "Tables", "pw", groupA)

	group, err := c.RemovePupilsFromGroup(context.Background(), groupA, []string{pupilID})
	require.NoError(t, err)
	assert.False(t, group.Contains(pupilID))
	assert.Empty(t, srv.GroupPupilIDs(groupA))
}

func TestRemoveUnknownPupilLeavesGroupUntouched(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	groupA := srv.SeedGroup(teacherID, "5A")
	pupilID := srv.SeedPupil(teacherID, "bobby", "Bobby", "Tables", "pw", groupA)

	_, err := c.RemovePupilsFromGroup(context.Background(), groupA, []string{pupilID, "missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	// A rejected removal mutates nothing, matching the authority.
	assert.Equal(t, []string{pupilID}, srv.GroupPupilIDs(groupA))
}

func TestDeletePupilCascadesThroughGroups(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	groupA := srv.SeedGroup(teacherID, "5A")
	pupilID := srv.SeedPupil(teacherID, "bobby", "Bobby", "Tables", "pw", groupA)

	require.NoError(t, c.DeletePupil(context.Background(), pupilID))

	pupils, err := c.ListPupils(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pupils)
	assert.Empty(t, srv.GroupPupilIDs(groupA))
}

func TestCreateGroupDuplicateName(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	srv.SeedGroup(teacherID, "5A")

	_, err := c.CreateGroup(context.Background(), "5A")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestRenameGroup(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	groupID := srv.SeedGroup(teacherID, "5A")

	group, err := c.RenameGroup(context.Background(), groupID, "5B")
	require.NoError(t, err)
	assert.Equal(t, "5B", group.Name)
}

func TestDeleteGroupsKeepsPupilAccounts(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	groupID := srv.SeedGroup(teacherID, "5A")
	srv.SeedPupil(teacherID, "bobby", "Bobby", "Tables", "pw", groupID)

	require.NoError(t, c.DeleteGroups(context.Background(), groupID))

	groups, err := c.ListGroups(context.Background())
	require.NoError(t, err)
	assert.Empty(t, groups)

	pupils, err := c.ListPupils(context.Background())
	require.NoError(t, err)
	assert.Len(t, pupils, 1)
}

func TestPupilPassword(t *testing.T) {
	c, srv, teacherID := newTestClient(t)
	pupilID := srv.SeedPupil(teacherID, "bobby", "Bobby", "Tables", "pw", "")

	password, err := c.PupilPassword(context.Background(), pupilID)
	require.NoError(t, err)
	assert.Equal(t, "pw", password)
}

func TestStaleTokenMapsToUnauthorized(t *testing.T) {
	srv := backendtest.New()
	t.Cleanup(srv.Close)
	srv.SeedTeacher("alice", "secret")

	c := client.New(srv.URL(), client.StaticToken("not-a-token"), client.Options{})

	_, err := c.ListPupils(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.IsUnauthorized(err))
}

func TestUnreachableAuthority(t *testing.T) {
	srv := backendtest.New()
	_, token := srv.SeedTeacher("alice", "secret")
	url := srv.URL()
	srv.Close()

	c := client.New(url, client.StaticToken(token), client.Options{})

	_, err := c.ListPupils(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
}

func TestAdminSurface(t *testing.T) {
	c, _, _ := newTestClient(t)

	token, err := c.CreateTeacher(context.Background(), client.CreateTeacherRequest{
		Login:    "bob",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.TeacherToken)

	teachers, err := c.ListTeachers(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 2)

	var bobID string
	for _, teacher := range teachers {
		if teacher.Login == "bob" {
			bobID = teacher.ID
		}
	}
	require.NotEmpty(t, bobID)

	require.NoError(t, c.DeleteTeacher(context.Background(), bobID))

	teachers, err = c.ListTeachers(context.Background())
	require.NoError(t, err)
	assert.Len(t, teachers, 1)
}

func TestAdminWithoutPassword(t *testing.T) {
	srv := backendtest.New()
	t.Cleanup(srv.Close)
	_, token := srv.SeedTeacher("alice", "secret")

	c := client.New(srv.URL(), client.StaticToken(token), client.Options{})

	_, err := c.ListTeachers(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.IsUnauthorized(err))
	assert.Zero(t, srv.Requests("GET /api/teacher"))
}
