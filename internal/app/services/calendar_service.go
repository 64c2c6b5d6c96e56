package services

import (
	"context"
	"sort"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/helpers"
)

// CalendarService builds the viewer's personal calendar
type CalendarService interface {
	MyCalendar(ctx context.Context, viewer models.Viewer) (*dto.CalendarResponse, error)
}

type calendarServiceImpl struct {
	events    eventStore
	attendees attendeeStore
	views     *viewBuilder
}

// NewCalendarService creates a new CalendarService
func NewCalendarService(events eventStore, attendees attendeeStore, views *viewBuilder) CalendarService {
	return &calendarServiceImpl{events: events, attendees: attendees, views: views}
}

// MyCalendar returns the events the viewer created or attends, bucketed by UTC date
func (s *calendarServiceImpl) MyCalendar(ctx context.Context, viewer models.Viewer) (*dto.CalendarResponse, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}

	created, err := s.events.IDsCreatedBy(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	attending, err := s.attendees.EventIDsAttendedBy(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	ids := helpers.UniqueIDs(append(created, attending...))
	if len(ids) == 0 {
		return &dto.CalendarResponse{Days: []dto.CalendarDay{}}, nil
	}

	events, err := s.events.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	visible := make([]*models.CommunityEvent, 0, len(events))
	for _, e := range events {
		if viewer.CanSee(e.IsApproved, e.CreatorID) {
			visible = append(visible, e)
		}
	}

	views, err := s.views.eventViews(ctx, visible, viewer)
	if err != nil {
		return nil, err
	}
	return &dto.CalendarResponse{Days: bucketByUTCDate(views)}, nil
}

// bucketByUTCDate groups events by the UTC date of their start. An event at 23:30 in a
// timezone behind UTC lands on the next day.
func bucketByUTCDate(events []dto.EventView) []dto.CalendarDay {
	byDay := make(map[string][]dto.EventView)
	for _, e := range events {
		key := helpers.UTCDateKey(e.StartsAt)
		byDay[key] = append(byDay[key], e)
	}

	days := make([]dto.CalendarDay, 0, len(byDay))
	for date, evs := range byDay {
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].StartsAt.Before(evs[j].StartsAt) })
		days = append(days, dto.CalendarDay{Date: date, Events: evs})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
