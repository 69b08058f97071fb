package domain

import (
	"testing"
	"time"

	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/testutil"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_eventDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID("admin")
	testutil.InsertUsers(ctx)

	s := newTestStack()
	eventDomain := NewEventDomain(s.eventRepo, s.userRepo, s.ledger, s.evaluator)

	starts := time.Now().Add(24 * time.Hour)
	resp, err := eventDomain.Create(ctx, &model.CreateEventRequest{
		Name:             "Ruta del Café",
		Location:         "Quindío",
		StartsAt:         starts.Format(time.RFC3339),
		EndsAt:           starts.Add(6 * time.Hour).Format(time.RFC3339),
		AttendancePoints: 80,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	_, err = eventDomain.Create(ctx, &model.CreateEventRequest{
		Name:     "Backwards",
		StartsAt: starts.Format(time.RFC3339),
		EndsAt:   starts.Add(-time.Hour).Format(time.RFC3339),
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = eventDomain.Create(
		xcontext.WithRequestUserID(ctx, "user1"),
		&model.CreateEventRequest{
			Name:     "Ride",
			StartsAt: starts.Format(time.RFC3339),
			EndsAt:   starts.Add(time.Hour).Format(time.RFC3339),
		})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_eventDomain_Register(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	testutil.InsertUsers(ctx)
	testutil.InsertEvents(ctx)

	s := newTestStack()
	eventDomain := NewEventDomain(s.eventRepo, s.userRepo, s.ledger, s.evaluator)

	_, err := eventDomain.Register(ctx, &model.RegisterEventRequest{EventID: "event1"})
	require.NoError(t, err)

	_, err = eventDomain.Register(ctx, &model.RegisterEventRequest{EventID: "event1"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)

	// Registration closes once the event ended.
	require.NoError(t, s.eventRepo.Create(ctx, &entity.Event{
		Base:     entity.Base{ID: "past-event"},
		Name:     "Last Month Ride",
		StartsAt: time.Now().Add(-48 * time.Hour),
		EndsAt:   time.Now().Add(-24 * time.Hour),
	}))

	_, err = eventDomain.Register(ctx, &model.RegisterEventRequest{EventID: "past-event"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = eventDomain.Register(ctx, &model.RegisterEventRequest{EventID: "nope"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_eventDomain_ConfirmAttendance(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	testutil.InsertUsers(ctx)
	testutil.InsertEvents(ctx)

	s := newTestStack()
	eventDomain := NewEventDomain(s.eventRepo, s.userRepo, s.ledger, s.evaluator)

	_, err := eventDomain.Register(ctx, &model.RegisterEventRequest{EventID: "event1"})
	require.NoError(t, err)

	adminCtx := xcontext.WithRequestUserID(ctx, "admin")
	_, err = eventDomain.ConfirmAttendance(adminCtx, &model.ConfirmAttendanceRequest{
		EventID: "event1",
		UserID:  "user1",
	})
	require.NoError(t, err)

	stats, err := s.userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(60), stats.Points)

	// Confirming twice must not grant the points again.
	_, err = eventDomain.ConfirmAttendance(adminCtx, &model.ConfirmAttendanceRequest{
		EventID: "event1",
		UserID:  "user1",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyGranted, errx.Code)

	stats, err = s.userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(60), stats.Points)

	// An unregistered user has no attendance to confirm.
	_, err = eventDomain.ConfirmAttendance(adminCtx, &model.ConfirmAttendanceRequest{
		EventID: "event1",
		UserID:  "user2",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyGranted, errx.Code)

	// Only an admin confirms.
	_, err = eventDomain.ConfirmAttendance(ctx, &model.ConfirmAttendanceRequest{
		EventID: "event1",
		UserID:  "user1",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_eventDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertEvents(ctx)

	s := newTestStack()
	eventDomain := NewEventDomain(s.eventRepo, s.userRepo, s.ledger, s.evaluator)

	require.NoError(t, s.eventRepo.Create(ctx, &entity.Event{
		Base:     entity.Base{ID: "past-event"},
		Name:     "Last Month Ride",
		StartsAt: time.Now().Add(-48 * time.Hour),
		EndsAt:   time.Now().Add(-24 * time.Hour),
	}))

	resp, err := eventDomain.GetList(ctx, &model.GetEventsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Events, 1)
	require.Equal(t, "event1", resp.Events[0].ID)
}

func Test_eventDomain_CancelRegistration(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	testutil.InsertUsers(ctx)
	testutil.InsertEvents(ctx)

	s := newTestStack()
	eventDomain := NewEventDomain(s.eventRepo, s.userRepo, s.ledger, s.evaluator)

	_, err := eventDomain.Register(ctx, &model.RegisterEventRequest{EventID: "event1"})
	require.NoError(t, err)

	_, err = eventDomain.CancelRegistration(ctx, &model.CancelEventRegistrationRequest{
		EventID: "event1",
	})
	require.NoError(t, err)

	// The registration is gone, a second cancel finds nothing.
	_, err = eventDomain.CancelRegistration(ctx, &model.CancelEventRegistrationRequest{
		EventID: "event1",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	// A confirmed attendance locks the registration.
	_, err = eventDomain.Register(ctx, &model.RegisterEventRequest{EventID: "event1"})
	require.NoError(t, err)

	adminCtx := xcontext.WithRequestUserID(ctx, "admin")
	_, err = eventDomain.ConfirmAttendance(adminCtx, &model.ConfirmAttendanceRequest{
		EventID: "event1",
		UserID:  "user1",
	})
	require.NoError(t, err)

	_, err = eventDomain.CancelRegistration(ctx, &model.CancelEventRegistrationRequest{
		EventID: "event1",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_eventDomain_UnmarkAttendance(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	testutil.InsertUsers(ctx)
	testutil.InsertEvents(ctx)

	s := newTestStack()
	eventDomain := NewEventDomain(s.eventRepo, s.userRepo, s.ledger, s.evaluator)

	_, err := eventDomain.Register(ctx, &model.RegisterEventRequest{EventID: "event1"})
	require.NoError(t, err)

	adminCtx := xcontext.WithRequestUserID(ctx, "admin")
	_, err = eventDomain.ConfirmAttendance(adminCtx, &model.ConfirmAttendanceRequest{
		EventID: "event1",
		UserID:  "user1",
	})
	require.NoError(t, err)

	stats, err := s.userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(60), stats.Points)

	_, err = eventDomain.UnmarkAttendance(adminCtx, &model.UnmarkAttendanceRequest{
		EventID: "event1",
		UserID:  "user1",
	})
	require.NoError(t, err)

	// The granted points come back through a revocation.
	stats, err = s.userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(0), stats.Points)

	_, err = s.pointTxRepo.GetActiveByReference(
		ctx, "user1", entity.EventAttendanceReason, "event1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Unmarking twice fails, nothing is confirmed anymore.
	_, err = eventDomain.UnmarkAttendance(adminCtx, &model.UnmarkAttendanceRequest{
		EventID: "event1",
		UserID:  "user1",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	// A new confirmation grants the points again.
	_, err = eventDomain.ConfirmAttendance(adminCtx, &model.ConfirmAttendanceRequest{
		EventID: "event1",
		UserID:  "user1",
	})
	require.NoError(t, err)

	stats, err = s.userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(60), stats.Points)

	// Only an admin unmarks.
	_, err = eventDomain.UnmarkAttendance(ctx, &model.UnmarkAttendanceRequest{
		EventID: "event1",
		UserID:  "user1",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}
