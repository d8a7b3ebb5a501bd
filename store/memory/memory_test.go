package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skilllink/backend/errors"
	"skilllink/backend/models"
)

func ptr(s string) *string { return &s }

func newUser(t *testing.T, s *Store, email, first string) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "x", FirstName: ptr(first), LastName: ptr("Test")}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func assertType(t *testing.T, err error, want errors.ErrorType) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, errors.TypeOf(err))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser(t, s, "Ada@example.com", "Ada")
	assert.Equal(t, models.RoleStudent, u.Role)
	assert.NotNil(t, u.Skills)

	dup := &models.User{Email: "ada@EXAMPLE.com", PasswordHash: "x"}
	assertType(t, s.CreateUser(ctx, dup), errors.ErrTypeConflict)

	got, err := s.GetUserByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUser(ctx, 999)
	assertType(t, err, errors.ErrTypeNotFound)

	batch, err := s.GetUsers(ctx, []int64{999, u.ID})
	require.NoError(t, err)
	require.Len(t, batch, 1, "unknown ids are skipped")
	assert.Equal(t, u.ID, batch[0].ID)

	year := 3
	updated, err := s.UpdateUserProfile(ctx, u.ID, models.ProfileUpdate{
		University:  ptr("MIT"),
		YearOfStudy: &year,
		Skills:      []string{"go", "sql"},
	})
	require.NoError(t, err)
	assert.Equal(t, "MIT", *updated.University)
	assert.Equal(t, "Ada", *updated.FirstName)
	assert.Equal(t, []string{"go", "sql"}, []string(updated.Skills))

	found, err := s.SearchUsers(ctx, "mit")
	require.NoError(t, err)
	require.Len(t, found, 1)

	empty, err := s.SearchUsers(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProjects_JoinRules(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := newUser(t, s, "owner@example.com", "Owner")
	a := newUser(t, s, "a@example.com", "A")
	b := newUser(t, s, "b@example.com", "B")

	p := &models.Project{Title: "Robot", Description: "d", Category: "hw", CreatorID: owner.ID, MaxParticipants: 1}
	require.NoError(t, s.CreateProject(ctx, p))
	assert.Equal(t, models.ProjectStatusActive, p.Status)

	_, err := s.JoinProject(ctx, p.ID, owner.ID)
	assertType(t, err, errors.ErrTypeInvalidInput)

	ppA, err := s.JoinProject(ctx, p.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantPending, ppA.Status)
	assert.Equal(t, "A Test", ppA.UserName)

	_, err = s.JoinProject(ctx, p.ID, a.ID)
	assertType(t, err, errors.ErrTypeConflict)

	ppB, err := s.JoinProject(ctx, p.ID, b.ID)
	require.NoError(t, err)

	_, err = s.SetParticipantStatus(ctx, p.ID, ppA.ID, models.ParticipantAccepted)
	require.NoError(t, err)
	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentParticipants)

	_, err = s.SetParticipantStatus(ctx, p.ID, ppB.ID, models.ParticipantAccepted)
	assertType(t, err, errors.ErrTypeInvalidInput)

	// re-accepting is a no-op
	_, err = s.SetParticipantStatus(ctx, p.ID, ppA.ID, models.ParticipantAccepted)
	require.NoError(t, err)

	_, err = s.SetParticipantStatus(ctx, p.ID, ppA.ID, models.ParticipantRejected)
	require.NoError(t, err)
	got, err = s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentParticipants)

	_, err = s.SetParticipantStatus(ctx, p.ID+1000, ppA.ID, models.ParticipantAccepted)
	assertType(t, err, errors.ErrTypeNotFound)
}

func TestJobs_Apply(t *testing.T) {
	ctx := context.Background()
	s := New()
	poster := newUser(t, s, "co@example.com", "Co")
	student := newUser(t, s, "st@example.com", "St")

	j := &models.JobOffer{Title: "Intern", Description: "d", Company: "Co", Location: "Remote", Type: models.JobTypeInternship, PosterID: poster.ID}
	require.NoError(t, s.CreateJobOffer(ctx, j))

	_, err := s.ApplyToJob(ctx, j.ID, poster.ID, nil)
	assertType(t, err, errors.ErrTypeInvalidInput)

	app, err := s.ApplyToJob(ctx, j.ID, student.ID, ptr("hello"))
	require.NoError(t, err)
	assert.Equal(t, "Intern", app.JobTitle)

	_, err = s.ApplyToJob(ctx, j.ID, student.ID, nil)
	assertType(t, err, errors.ErrTypeConflict)

	apps, err := s.ListJobApplications(ctx, j.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "St Test", apps[0].UserName)
}

func TestJobs_ApplicationTransitions(t *testing.T) {
	ctx := context.Background()
	s := New()
	poster := newUser(t, s, "co@example.com", "Co")
	j := &models.JobOffer{Title: "Intern", Description: "d", Company: "Co", Location: "Remote", Type: models.JobTypeInternship, PosterID: poster.ID}
	require.NoError(t, s.CreateJobOffer(ctx, j))

	tests := []struct {
		name  string
		steps []string
		bad   string
	}{
		{name: "accept then withdraw", steps: []string{models.ApplicationAccepted, models.ApplicationWithdrawn}, bad: models.ApplicationAccepted},
		{name: "withdrawn is final", steps: []string{models.ApplicationWithdrawn}, bad: models.ApplicationAccepted},
		{name: "rejected is final", steps: []string{models.ApplicationRejected}, bad: models.ApplicationWithdrawn},
		{name: "accepted cannot be rejected", steps: []string{models.ApplicationAccepted}, bad: models.ApplicationRejected},
		{name: "unknown status", steps: nil, bad: "hired"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applicant := newUser(t, s, fmt.Sprintf("applicant%d@example.com", i), "A")
			app, err := s.ApplyToJob(ctx, j.ID, applicant.ID, nil)
			require.NoError(t, err)

			for _, step := range tt.steps {
				app, err = s.SetApplicationStatus(ctx, app.ID, step)
				require.NoError(t, err, step)
			}
			want := app.Status

			_, err = s.SetApplicationStatus(ctx, app.ID, tt.bad)
			assertType(t, err, errors.ErrTypeInvalidInput)

			got, err := s.GetJobApplication(ctx, app.ID)
			require.NoError(t, err)
			assert.Equal(t, want, got.Status)
		})
	}
}

func TestServices_RequestLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	provider := newUser(t, s, "p@example.com", "P")
	client := newUser(t, s, "c@example.com", "C")

	svc := &models.Service{Title: "Tutoring", Description: "d", Category: "edu", ProviderID: provider.ID}
	require.NoError(t, s.CreateService(ctx, svc))
	assert.Equal(t, models.ServiceStatusPendingApproval, svc.Status)

	_, err := s.CreateServiceRequest(ctx, svc.ID, client.ID, nil)
	assertType(t, err, errors.ErrTypeInvalidInput)

	require.NoError(t, s.SetServiceStatus(ctx, svc.ID, models.ServiceStatusActive))

	_, err = s.CreateServiceRequest(ctx, svc.ID, provider.ID, nil)
	assertType(t, err, errors.ErrTypeInvalidInput)

	req, err := s.CreateServiceRequest(ctx, svc.ID, client.ID, ptr("please"))
	require.NoError(t, err)
	assert.Equal(t, "Tutoring", req.ServiceTitle)
	assert.Equal(t, "C Test", req.RequesterName)

	_, err = s.SetServiceRequestStatus(ctx, req.ID, models.RequestCompleted)
	assertType(t, err, errors.ErrTypeInvalidInput)

	req, err = s.SetServiceRequestStatus(ctx, req.ID, models.RequestApproved)
	require.NoError(t, err)
	assert.NotNil(t, req.ApprovedAt)

	req, err = s.SetServiceRequestStatus(ctx, req.ID, models.RequestCompleted)
	require.NoError(t, err)
	assert.NotNil(t, req.CompletedAt)

	require.NoError(t, s.DeleteService(ctx, svc.ID))
	reqs, err := s.ListServiceRequests(ctx, models.ServiceRequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestAnnouncements_LikesAndComments(t *testing.T) {
	ctx := context.Background()
	s := New()
	author := newUser(t, s, "au@example.com", "Au")
	reader := newUser(t, s, "re@example.com", "Re")

	a := &models.Announcement{Content: "hello", AuthorID: author.ID, Likes: 40}
	require.NoError(t, s.CreateAnnouncement(ctx, a))
	assert.Zero(t, a.Likes)
	assert.Equal(t, models.AnnouncementGeneral, a.Type)

	require.NoError(t, s.LikeAnnouncement(ctx, a.ID, reader.ID))
	require.NoError(t, s.LikeAnnouncement(ctx, a.ID, reader.ID))
	got, err := s.GetAnnouncement(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)

	require.NoError(t, s.UnlikeAnnouncement(ctx, a.ID, author.ID))
	require.NoError(t, s.UnlikeAnnouncement(ctx, a.ID, reader.ID))
	require.NoError(t, s.UnlikeAnnouncement(ctx, a.ID, reader.ID))
	got, err = s.GetAnnouncement(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)

	require.NoError(t, s.CreateComment(ctx, &models.Comment{AnnouncementID: a.ID, UserID: reader.ID, Content: "nice"}))
	got, err = s.GetAnnouncement(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentsCount)

	assertType(t, s.LikeAnnouncement(ctx, 999, reader.ID), errors.ErrTypeNotFound)
	_, err = s.ListComments(ctx, 999)
	assertType(t, err, errors.ErrTypeNotFound)
}

func TestMessages_Ordering(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { now = now.Add(time.Minute); return now })

	a := newUser(t, s, "a@example.com", "A")
	b := newUser(t, s, "b@example.com", "B")

	for _, m := range []*models.Message{
		{SenderID: a.ID, ReceiverID: b.ID, Content: "1"},
		{SenderID: b.ID, ReceiverID: a.ID, Content: "2"},
		{SenderID: a.ID, ReceiverID: b.ID, Content: "3"},
	} {
		require.NoError(t, s.CreateMessage(ctx, m))
	}

	conv, err := s.GetConversation(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, conv, 3)
	assert.Equal(t, "1", conv[0].Content)

	all, err := s.ListUserMessages(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "3", all[0].Content)

	n, err := s.CountUnread(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	marked, err := s.MarkConversationRead(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	err = s.CreateMessage(ctx, &models.Message{SenderID: a.ID, ReceiverID: 999, Content: "x"})
	assertType(t, err, errors.ErrTypeNotFound)
}

func TestConnections_Counters(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := newUser(t, s, "a@example.com", "A")
	b := newUser(t, s, "b@example.com", "B")

	_, err := s.CreateConnection(ctx, a.ID, a.ID)
	assertType(t, err, errors.ErrTypeInvalidInput)

	c, err := s.CreateConnection(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, c.OtherUserID)

	_, err = s.CreateConnection(ctx, b.ID, a.ID)
	assertType(t, err, errors.ErrTypeConflict)

	incoming, err := s.ListIncomingRequests(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, a.ID, incoming[0].OtherUserID)
	assert.Equal(t, "A Test", incoming[0].OtherUserName)

	c, err = s.RespondConnection(ctx, c.ID, models.ConnectionAccepted)
	require.NoError(t, err)
	assert.NotNil(t, c.AcceptedAt)

	_, err = s.RespondConnection(ctx, c.ID, models.ConnectionRejected)
	assertType(t, err, errors.ErrTypeInvalidInput)

	for _, id := range []int64{a.ID, b.ID} {
		u, err := s.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, u.Connections)
	}

	require.NoError(t, s.DeleteConnection(ctx, c.ID))
	u, err := s.GetUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, u.Connections)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	newUser(t, s, "old@example.com", "Old")
	now = now.Add(60 * 24 * time.Hour)
	u := newUser(t, s, "new@example.com", "New")
	require.NoError(t, s.CreateService(ctx, &models.Service{Title: "t", ProviderID: u.ID}))
	require.NoError(t, s.CreateProject(ctx, &models.Project{Title: "p", CreatorID: u.ID}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveUsers)
	assert.Equal(t, 1, stats.PendingServices)
	assert.Equal(t, 1, stats.ActiveProjects)
}
