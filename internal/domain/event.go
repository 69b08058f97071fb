package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bskmt/backend/internal/common"
	"github.com/bskmt/backend/internal/domain/gamification"
	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventDomain interface {
	GetList(ctx context.Context, req *model.GetEventsRequest) (*model.GetEventsResponse, error)
	Create(ctx context.Context, req *model.CreateEventRequest) (*model.CreateEventResponse, error)
	Register(ctx context.Context, req *model.RegisterEventRequest) (*model.RegisterEventResponse, error)
	CancelRegistration(ctx context.Context, req *model.CancelEventRegistrationRequest) (*model.CancelEventRegistrationResponse, error)
	ConfirmAttendance(ctx context.Context, req *model.ConfirmAttendanceRequest) (*model.ConfirmAttendanceResponse, error)
	UnmarkAttendance(ctx context.Context, req *model.UnmarkAttendanceRequest) (*model.UnmarkAttendanceResponse, error)
}

type eventDomain struct {
	eventRepo    repository.EventRepository
	ledger       gamification.Ledger
	evaluator    gamification.Evaluator
	roleVerifier *common.GlobalRoleVerifier
}

func NewEventDomain(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	ledger gamification.Ledger,
	evaluator gamification.Evaluator,
) EventDomain {
	return &eventDomain{
		eventRepo:    eventRepo,
		ledger:       ledger,
		evaluator:    evaluator,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *eventDomain) GetList(
	ctx context.Context, req *model.GetEventsRequest,
) (*model.GetEventsResponse, error) {
	offset, limit, err := normalizePagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	records, err := d.eventRepo.GetUpcomingList(ctx, time.Now(), offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the event list: %v", err)
		return nil, errorx.Unknown
	}

	events := []model.Event{}
	for i := range records {
		events = append(events, model.ConvertEvent(&records[i]))
	}

	return &model.GetEventsResponse{Events: events}, nil
}

func (d *eventDomain) Create(
	ctx context.Context, req *model.CreateEventRequest,
) (*model.CreateEventResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when create event: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid starts_at")
	}

	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid ends_at")
	}

	if !endsAt.After(startsAt) {
		return nil, errorx.New(errorx.BadRequest, "The event must end after it starts")
	}

	event := &entity.Event{
		Base:             entity.Base{ID: uuid.NewString()},
		Name:             req.Name,
		Description:      req.Description,
		Location:         req.Location,
		StartsAt:         startsAt,
		EndsAt:           endsAt,
		AttendancePoints: req.AttendancePoints,
	}

	if err := d.eventRepo.Create(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the event: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateEventResponse{ID: event.ID}, nil
}

func (d *eventDomain) Register(
	ctx context.Context, req *model.RegisterEventRequest,
) (*model.RegisterEventResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	event, err := d.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the event: %v", err)
		return nil, errorx.Unknown
	}

	if time.Now().After(event.EndsAt) {
		return nil, errorx.New(errorx.BadRequest, "The event has already ended")
	}

	_, err = d.eventRepo.GetRegistration(ctx, userID, event.ID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Already registered to this event")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check the registration: %v", err)
		return nil, errorx.Unknown
	}

	registration := &entity.EventRegistration{
		UserID:       userID,
		EventID:      event.ID,
		RegisteredAt: time.Now(),
	}

	if err := d.eventRepo.Register(ctx, registration); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot register to the event: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RegisterEventResponse{}, nil
}

func (d *eventDomain) CancelRegistration(
	ctx context.Context, req *model.CancelEventRegistrationRequest,
) (*model.CancelEventRegistrationResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	registration, err := d.eventRepo.GetRegistration(ctx, userID, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found registration")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the registration: %v", err)
		return nil, errorx.Unknown
	}

	if registration.Attended {
		return nil, errorx.New(errorx.BadRequest,
			"Cannot cancel a registration with a confirmed attendance")
	}

	if err := d.eventRepo.Unregister(ctx, userID, req.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found registration")
		}

		xcontext.Logger(ctx).Errorf("Cannot cancel the registration: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CancelEventRegistrationResponse{}, nil
}

func (d *eventDomain) ConfirmAttendance(
	ctx context.Context, req *model.ConfirmAttendanceRequest,
) (*model.ConfirmAttendanceResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when confirm attendance: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	event, err := d.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the event: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.eventRepo.MarkAttended(ctx, req.UserID, event.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyGranted,
				"The attendance was already confirmed or the user did not register")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark the attendance: %v", err)
		return nil, errorx.Unknown
	}

	if event.AttendancePoints > 0 {
		_, err = d.ledger.Grant(
			ctx, req.UserID, event.AttendancePoints,
			entity.EventAttendanceReason, event.ID,
			fmt.Sprintf("Attendance of event %s", event.Name),
		)
		if err != nil {
			return nil, err
		}
	}

	if _, err := d.evaluator.Evaluate(ctx, req.UserID); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.ConfirmAttendanceResponse{}, nil
}

func (d *eventDomain) UnmarkAttendance(
	ctx context.Context, req *model.UnmarkAttendanceRequest,
) (*model.UnmarkAttendanceResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when unmark attendance: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.eventRepo.UnmarkAttended(ctx, req.UserID, req.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "The attendance is not confirmed")
		}

		xcontext.Logger(ctx).Errorf("Cannot unmark the attendance: %v", err)
		return nil, errorx.Unknown
	}

	err := d.ledger.RevokeByReference(
		ctx, req.UserID, entity.EventAttendanceReason, req.EventID)
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.UnmarkAttendanceResponse{}, nil
}
