package services

import (
	"context"
	"testing"
	"time"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/notify"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleAttendanceTwiceRestoresCount(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	e := f.env.db.addEvent(f.group.ID, f.lucia.ID, testNow.Add(48*time.Hour), true)
	require.NoError(t, fakeAttendees{f.env.db}.Toggle(ctx, e.ID, f.lucia.ID))

	going, err := f.env.events.ToggleAttendance(ctx, e.ID, member(f.marta))
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceState{Count: 2, Mine: true}, *going)

	back, err := f.env.events.ToggleAttendance(ctx, e.ID, member(f.marta))
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceState{Count: 1, Mine: false}, *back)
}

func TestToggleAttendanceOnClosedEvents(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()

	pending := f.env.db.addEvent(f.group.ID, f.lucia.ID, testNow.Add(time.Hour), false)
	_, err := f.env.events.ToggleAttendance(ctx, pending.ID, member(f.lucia))
	require.ErrorIs(t, err, apperrors.ErrEventClosed)

	cancelled := f.env.db.addEvent(f.group.ID, f.lucia.ID, testNow.Add(time.Hour), true)
	_, err = f.env.events.CancelEvent(ctx, cancelled.ID, member(f.lucia))
	require.NoError(t, err)
	_, err = f.env.events.ToggleAttendance(ctx, cancelled.ID, member(f.marta))
	require.ErrorIs(t, err, apperrors.ErrEventClosed)
}

func TestEventApprovalGate(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	e := f.env.db.addEvent(f.group.ID, f.lucia.ID, testNow.Add(time.Hour), false)

	_, err := f.env.events.GetEvent(ctx, e.ID, member(f.marta))
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	view, err := f.env.events.GetEvent(ctx, e.ID, member(f.lucia))
	require.NoError(t, err)
	assert.False(t, view.IsApproved)
	require.NotNil(t, view.Group)
	assert.Equal(t, "madrid", view.Group.CitySlug)
	assert.Equal(t, "running", view.Group.CategorySlug)

	list, err := f.env.events.ListGroupEvents(ctx, f.group.ID, member(f.marta), false)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.env.events.ApproveEvent(ctx, e.ID, member(f.lucia))
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	approved, err := f.env.events.ApproveEvent(ctx, e.ID, adminViewer())
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	list, err = f.env.events.ListGroupEvents(ctx, f.group.ID, member(f.marta), true)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateEvent(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	lat := 40.4153
	req := &dto.CreateEventRequest{Title: "Picnic en el Retiro", StartsAt: testNow.Add(72 * time.Hour), Latitude: &lat}

	_, err := f.env.events.CreateEvent(ctx, f.group.ID, member(f.marta), req)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	lng := -3.6844
	req.Longitude = &lng
	view, err := f.env.events.CreateEvent(ctx, f.group.ID, member(f.marta), req)
	require.NoError(t, err)
	assert.False(t, view.IsApproved)
	require.Len(t, f.env.distributor.notices, 1)
	assert.Equal(t, notify.TypeEvent, f.env.distributor.notices[0].Type)

	_, err = f.env.events.CreateEvent(ctx, f.group.ID, member(f.env.db.addProfile("ana")), req)
	require.ErrorIs(t, err, apperrors.ErrNotMember)

	pendingGroup := f.env.db.addGroup(f.env.db.cities[f.group.CityID], f.env.db.categories[f.group.CategoryID],
		"pending", f.lucia.ID, false)
	f.env.db.join(pendingGroup.ID, f.lucia.ID)
	_, err = f.env.events.CreateEvent(ctx, pendingGroup.ID, member(f.lucia), req)
	require.ErrorIs(t, err, apperrors.ErrGroupNotApproved)
}

func TestUpdateEventCreatorOnly(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	e := f.env.db.addEvent(f.group.ID, f.lucia.ID, testNow.Add(time.Hour), true)
	title := "Picnic y juegos"

	_, err := f.env.events.UpdateEvent(ctx, e.ID, adminViewer(), &dto.UpdateEventRequest{Title: &title})
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	view, err := f.env.events.UpdateEvent(ctx, e.ID, member(f.lucia), &dto.UpdateEventRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, view.Title)

	require.ErrorIs(t, f.env.events.DeleteEvent(ctx, e.ID, member(f.marta)), apperrors.ErrPermissionDenied)
	require.NoError(t, f.env.events.DeleteEvent(ctx, e.ID, adminViewer()))
}

func TestCalendarBucketsByUTCDate(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	bogota := time.FixedZone("UTC-5", -5*60*60)

	late := f.env.db.addEvent(f.group.ID, f.lucia.ID, time.Date(2025, 1, 1, 23, 30, 0, 0, bogota), true)
	early := f.env.db.addEvent(f.group.ID, f.marta.ID, time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC), true)
	other := f.env.db.addEvent(f.group.ID, f.marta.ID, time.Date(2024, 12, 31, 18, 0, 0, 0, time.UTC), true)
	require.NoError(t, fakeAttendees{f.env.db}.Toggle(ctx, early.ID, f.lucia.ID))
	require.NoError(t, fakeAttendees{f.env.db}.Toggle(ctx, late.ID, f.lucia.ID))
	require.NoError(t, fakeAttendees{f.env.db}.Toggle(ctx, other.ID, f.lucia.ID))

	cal, err := f.env.calendar.MyCalendar(ctx, member(f.lucia))
	require.NoError(t, err)
	require.Len(t, cal.Days, 2)

	assert.Equal(t, "2024-12-31", cal.Days[0].Date)
	assert.Equal(t, "2025-01-02", cal.Days[1].Date)
	require.Len(t, cal.Days[1].Events, 2)
	assert.Equal(t, late.ID, cal.Days[1].Events[0].ID)
	assert.Equal(t, early.ID, cal.Days[1].Events[1].ID)
}

func TestCalendarHidesOthersPendingEvents(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	e := f.env.db.addEvent(f.group.ID, f.lucia.ID, testNow.Add(time.Hour), false)
	f.env.db.attendees[e.ID] = map[uuid.UUID]bool{f.marta.ID: true}

	cal, err := f.env.calendar.MyCalendar(ctx, member(f.marta))
	require.NoError(t, err)
	assert.Empty(t, cal.Days)

	cal, err = f.env.calendar.MyCalendar(ctx, member(f.lucia))
	require.NoError(t, err)
	assert.Len(t, cal.Days, 1)
}
