package services

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"time"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/repositories"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/notify"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// memDB is an in-memory stand-in for the Postgres schema
type memDB struct {
	cities       map[uuid.UUID]*models.City
	categories   map[uuid.UUID]*models.Category
	groups       map[uuid.UUID]*models.Group
	members      map[uuid.UUID]map[uuid.UUID]bool
	subgroups    map[uuid.UUID]*models.Subgroup
	messages     map[uuid.UUID]*models.Message
	likes        map[uuid.UUID]map[uuid.UUID]bool
	polls        map[uuid.UUID]*models.Poll
	options      map[uuid.UUID][]*models.PollOption
	votes        []models.PollVote
	events       map[uuid.UUID]*models.CommunityEvent
	attendees    map[uuid.UUID]map[uuid.UUID]bool
	profiles     map[uuid.UUID]*models.Profile
	profileAux   map[uuid.UUID]models.ProfileAux
	threads      map[string]*models.DMThread
	participants map[uuid.UUID][]uuid.UUID
	dms          []models.DirectMessage
	contacts     []*models.ContactMessage
	waitlist     map[string]bool
	seq          int
}

func newMemDB() *memDB {
	return &memDB{
		cities:       map[uuid.UUID]*models.City{},
		categories:   map[uuid.UUID]*models.Category{},
		groups:       map[uuid.UUID]*models.Group{},
		members:      map[uuid.UUID]map[uuid.UUID]bool{},
		subgroups:    map[uuid.UUID]*models.Subgroup{},
		messages:     map[uuid.UUID]*models.Message{},
		likes:        map[uuid.UUID]map[uuid.UUID]bool{},
		polls:        map[uuid.UUID]*models.Poll{},
		options:      map[uuid.UUID][]*models.PollOption{},
		events:       map[uuid.UUID]*models.CommunityEvent{},
		attendees:    map[uuid.UUID]map[uuid.UUID]bool{},
		profiles:     map[uuid.UUID]*models.Profile{},
		profileAux:   map[uuid.UUID]models.ProfileAux{},
		threads:      map[string]*models.DMThread{},
		participants: map[uuid.UUID][]uuid.UUID{},
		waitlist:     map[string]bool{},
	}
}

// tick returns strictly increasing timestamps so ordering is deterministic
func (db *memDB) tick() time.Time {
	db.seq++
	return testNow.Add(time.Duration(db.seq) * time.Second)
}

func (db *memDB) addCity(name, slug string) *models.City {
	c := &models.City{ID: uuid.New(), Name: name, Slug: slug, IsActive: true}
	db.cities[c.ID] = c
	return c
}

func (db *memDB) addCategory(name, slug string) *models.Category {
	c := &models.Category{ID: uuid.New(), Name: name, Slug: slug}
	db.categories[c.ID] = c
	return c
}

func (db *memDB) addProfile(username string) *models.Profile {
	p := &models.Profile{ID: uuid.New(), Username: username}
	db.profiles[p.ID] = p
	return p
}

func (db *memDB) addGroup(city *models.City, cat *models.Category, slug string, creator uuid.UUID, approved bool) *models.Group {
	g := &models.Group{
		ID:         uuid.New(),
		Slug:       slug,
		Name:       strings.ToUpper(slug[:1]) + slug[1:],
		IsApproved: approved,
		CityID:     city.ID,
		CategoryID: cat.ID,
		CreatorID:  creator,
		CreatedAt:  db.tick(),
	}
	db.groups[g.ID] = g
	return g
}

func (db *memDB) join(groupID, profileID uuid.UUID) {
	if db.members[groupID] == nil {
		db.members[groupID] = map[uuid.UUID]bool{}
	}
	db.members[groupID][profileID] = true
}

func (db *memDB) addEvent(groupID, creator uuid.UUID, startsAt time.Time, approved bool) *models.CommunityEvent {
	e := &models.CommunityEvent{
		ID:         uuid.New(),
		GroupID:    groupID,
		CreatorID:  creator,
		Title:      "Picnic",
		StartsAt:   startsAt,
		IsApproved: approved,
		CreatedAt:  db.tick(),
	}
	db.events[e.ID] = e
	return e
}

func (db *memDB) addMessage(groupID, sender uuid.UUID, content string) *models.Message {
	m := &models.Message{ID: uuid.New(), GroupID: groupID, SenderID: sender, Content: content, CreatedAt: db.tick()}
	db.messages[m.ID] = m
	return m
}

func notFound() error { return apperrors.ErrResourceNotFound }

type fakeCities struct{ db *memDB }

func (f fakeCities) ListActive(context.Context) ([]*models.City, error) {
	var out []*models.City
	for _, c := range f.db.cities {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeCities) FindBySlug(_ context.Context, slug string) (*models.City, error) {
	for _, c := range f.db.cities {
		if c.Slug == slug && c.IsActive {
			return c, nil
		}
	}
	return nil, notFound()
}

func (f fakeCities) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.City, error) {
	out := map[uuid.UUID]*models.City{}
	for _, id := range ids {
		if c, ok := f.db.cities[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

type fakeCategories struct{ db *memDB }

func (f fakeCategories) List(context.Context) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range f.db.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range f.db.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, notFound()
}

func (f fakeCategories) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Category, error) {
	out := map[uuid.UUID]*models.Category{}
	for _, id := range ids {
		if c, ok := f.db.categories[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

type fakeGroups struct{ db *memDB }

func (f fakeGroups) FindByID(_ context.Context, id uuid.UUID) (*models.Group, error) {
	if g, ok := f.db.groups[id]; ok {
		return g, nil
	}
	return nil, notFound()
}

func (f fakeGroups) FindBySlug(_ context.Context, cityID, categoryID uuid.UUID, slug string) (*models.Group, error) {
	for _, g := range f.db.groups {
		if g.CityID == cityID && g.CategoryID == categoryID && g.Slug == slug {
			return g, nil
		}
	}
	return nil, notFound()
}

func (f fakeGroups) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Group, error) {
	out := map[uuid.UUID]*models.Group{}
	for _, id := range ids {
		if g, ok := f.db.groups[id]; ok {
			out[id] = g
		}
	}
	return out, nil
}

func sortGroups(groups []*models.Group) []*models.Group {
	sort.Slice(groups, func(i, j int) bool { return groups[i].CreatedAt.After(groups[j].CreatedAt) })
	return groups
}

func (f fakeGroups) ListVisible(_ context.Context, cityID, categoryID uuid.UUID, viewer models.Viewer) ([]*models.Group, error) {
	var out []*models.Group
	for _, g := range f.db.groups {
		if g.CityID == cityID && g.CategoryID == categoryID && viewer.CanSee(g.IsApproved, g.CreatorID) {
			out = append(out, g)
		}
	}
	return sortGroups(out), nil
}

func (f fakeGroups) ListPending(context.Context) ([]*models.Group, error) {
	var out []*models.Group
	for _, g := range f.db.groups {
		if !g.IsApproved {
			out = append(out, g)
		}
	}
	return sortGroups(out), nil
}

func (f fakeGroups) ListByMember(_ context.Context, profileID uuid.UUID) ([]*models.Group, error) {
	var out []*models.Group
	for id, m := range f.db.members {
		if m[profileID] {
			out = append(out, f.db.groups[id])
		}
	}
	return sortGroups(out), nil
}

func (f fakeGroups) SlugExists(_ context.Context, cityID, categoryID uuid.UUID, slug string) (bool, error) {
	_, err := f.FindBySlug(context.Background(), cityID, categoryID, slug)
	return err == nil, nil
}

func (f fakeGroups) Create(_ context.Context, g *models.Group) error {
	g.ID = uuid.New()
	g.CreatedAt = f.db.tick()
	f.db.groups[g.ID] = g
	f.db.join(g.ID, g.CreatorID)
	return nil
}

func (f fakeGroups) Approve(_ context.Context, id uuid.UUID) error {
	g, ok := f.db.groups[id]
	if !ok {
		return notFound()
	}
	g.IsApproved = true
	return nil
}

func (f fakeGroups) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.db.groups[id]; !ok {
		return notFound()
	}
	delete(f.db.groups, id)
	return nil
}

type fakeMembers struct{ db *memDB }

func (f fakeMembers) Add(_ context.Context, groupID, profileID uuid.UUID) error {
	f.db.join(groupID, profileID)
	return nil
}

func (f fakeMembers) Remove(_ context.Context, groupID, profileID uuid.UUID) error {
	delete(f.db.members[groupID], profileID)
	return nil
}

func (f fakeMembers) IsMember(_ context.Context, groupID, profileID uuid.UUID) (bool, error) {
	return f.db.members[groupID][profileID], nil
}

func (f fakeMembers) CountsByGroupIDs(_ context.Context, groupIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := map[uuid.UUID]int{}
	for _, id := range groupIDs {
		out[id] = len(f.db.members[id])
	}
	return out, nil
}

func (f fakeMembers) ListMemberIDs(_ context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id := range f.db.members[groupID] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

type fakeSubgroups struct{ db *memDB }

func (f fakeSubgroups) Create(_ context.Context, s *models.Subgroup) error {
	s.ID = uuid.New()
	s.CreatedAt = f.db.tick()
	f.db.subgroups[s.ID] = s
	return nil
}

func (f fakeSubgroups) ListByGroup(_ context.Context, groupID uuid.UUID) ([]*models.Subgroup, error) {
	var out []*models.Subgroup
	for _, s := range f.db.subgroups {
		if s.GroupID == groupID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f fakeSubgroups) FindByID(_ context.Context, id uuid.UUID) (*models.Subgroup, error) {
	if s, ok := f.db.subgroups[id]; ok {
		return s, nil
	}
	return nil, notFound()
}

type fakeMessages struct{ db *memDB }

func (f fakeMessages) Create(_ context.Context, m *models.Message) error {
	m.ID = uuid.New()
	m.CreatedAt = f.db.tick()
	f.db.messages[m.ID] = m
	return nil
}

func (f fakeMessages) FindByID(_ context.Context, id uuid.UUID) (*models.Message, error) {
	if m, ok := f.db.messages[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, notFound()
}

// newestFirst orders by (created_at, id) descending, as the feed query does.
func newestFirst(ms []*models.Message) []*models.Message {
	sort.Slice(ms, func(i, j int) bool { return messageBefore(ms[j], ms[i].CreatedAt, ms[i].ID) })
	return ms
}

// messageBefore reports whether m sorts strictly before the (at, id) cursor.
func messageBefore(m *models.Message, at time.Time, id uuid.UUID) bool {
	if !m.CreatedAt.Equal(at) {
		return m.CreatedAt.Before(at)
	}
	return bytes.Compare(m.ID[:], id[:]) < 0
}

func (f fakeMessages) ListTopLevel(_ context.Context, filter repositories.MessageFilter) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.db.messages {
		if m.GroupID != filter.GroupID || m.IsReply() {
			continue
		}
		if filter.Before != nil {
			if filter.BeforeID != nil && !messageBefore(m, *filter.Before, *filter.BeforeID) {
				continue
			}
			if filter.BeforeID == nil && !m.CreatedAt.Before(*filter.Before) {
				continue
			}
		}
		if filter.SubgroupID != nil && !idEq(m.LocationSubgroupID, *filter.SubgroupID) && !idEq(m.AgeSubgroupID, *filter.SubgroupID) {
			continue
		}
		out = append(out, m)
	}
	out = newestFirst(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func idEq(p *uuid.UUID, id uuid.UUID) bool { return p != nil && *p == id }

func (f fakeMessages) ListReplies(_ context.Context, parentIDs []uuid.UUID) ([]*models.Message, error) {
	parents := map[uuid.UUID]bool{}
	for _, id := range parentIDs {
		parents[id] = true
	}
	var out []*models.Message
	for _, m := range f.db.messages {
		if m.ParentMessageID != nil && parents[*m.ParentMessageID] {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f fakeMessages) ListPinned(_ context.Context, groupID uuid.UUID) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.db.messages {
		if m.GroupID == groupID && m.IsPinned {
			out = append(out, m)
		}
	}
	return newestFirst(out), nil
}

func (f fakeMessages) UpdateContent(_ context.Context, id uuid.UUID, content string) error {
	m, ok := f.db.messages[id]
	if !ok {
		return notFound()
	}
	edited := f.db.tick()
	m.Content, m.EditedAt = content, &edited
	return nil
}

func (f fakeMessages) SetPinned(_ context.Context, id uuid.UUID, by *uuid.UUID) error {
	m, ok := f.db.messages[id]
	if !ok {
		return notFound()
	}
	m.IsPinned, m.PinnedBy = by != nil, by
	if by != nil {
		at := f.db.tick()
		m.PinnedAt = &at
	} else {
		m.PinnedAt = nil
	}
	return nil
}

func (f fakeMessages) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.db.messages[id]; !ok {
		return notFound()
	}
	delete(f.db.messages, id)
	return nil
}

type fakeLikes struct{ db *memDB }

func (f fakeLikes) Toggle(_ context.Context, messageID, userID uuid.UUID) error {
	if f.db.likes[messageID] == nil {
		f.db.likes[messageID] = map[uuid.UUID]bool{}
	}
	if f.db.likes[messageID][userID] {
		delete(f.db.likes[messageID], userID)
	} else {
		f.db.likes[messageID][userID] = true
	}
	return nil
}

func (f fakeLikes) States(_ context.Context, messageIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]models.LikeState, error) {
	out := map[uuid.UUID]models.LikeState{}
	for _, id := range messageIDs {
		out[id] = models.LikeState{Count: len(f.db.likes[id]), Mine: f.db.likes[id][viewerID]}
	}
	return out, nil
}

type fakePolls struct{ db *memDB }

func (f fakePolls) CreateWithMarker(_ context.Context, p *models.Poll, labels []string, marker *models.Message) ([]*models.PollOption, error) {
	p.ID = uuid.New()
	p.CreatedAt = f.db.tick()
	f.db.polls[p.ID] = p

	opts := make([]*models.PollOption, 0, len(labels))
	for i, l := range labels {
		opts = append(opts, &models.PollOption{ID: uuid.New(), PollID: p.ID, Label: l, Position: i})
	}
	f.db.options[p.ID] = opts

	marker.Content = models.PollMarkerFor(p.ID)
	return opts, fakeMessages{f.db}.Create(context.Background(), marker)
}

func (f fakePolls) FindByID(_ context.Context, id uuid.UUID) (*models.Poll, error) {
	if p, ok := f.db.polls[id]; ok {
		return p, nil
	}
	return nil, notFound()
}

func (f fakePolls) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Poll, error) {
	out := map[uuid.UUID]*models.Poll{}
	for _, id := range ids {
		if p, ok := f.db.polls[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f fakePolls) ListByGroup(_ context.Context, groupID uuid.UUID) ([]*models.Poll, error) {
	var out []*models.Poll
	for _, p := range f.db.polls {
		if p.GroupID == groupID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakePolls) OptionsByPollIDs(_ context.Context, pollIDs []uuid.UUID) (map[uuid.UUID][]*models.PollOption, error) {
	out := map[uuid.UUID][]*models.PollOption{}
	for _, id := range pollIDs {
		out[id] = f.db.options[id]
	}
	return out, nil
}

func (f fakePolls) Votes(_ context.Context, pollIDs []uuid.UUID) ([]models.PollVote, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range pollIDs {
		want[id] = true
	}
	var out []models.PollVote
	for _, v := range f.db.votes {
		if want[v.PollID] {
			out = append(out, v)
		}
	}
	return out, nil
}

// ToggleVote mirrors the repository: same option removes, single-choice replaces.
func (f fakePolls) ToggleVote(_ context.Context, p *models.Poll, optionID, voterID uuid.UUID) error {
	kept := f.db.votes[:0]
	had := false
	for _, v := range f.db.votes {
		if v.PollID == p.ID && v.VoterID == voterID {
			if v.OptionID == optionID {
				had = true
				continue
			}
			if !p.IsMulti {
				continue
			}
		}
		kept = append(kept, v)
	}
	f.db.votes = kept
	if !had {
		f.db.votes = append(f.db.votes, models.PollVote{PollID: p.ID, OptionID: optionID, VoterID: voterID})
	}
	return nil
}

func (f fakePolls) Delete(_ context.Context, p *models.Poll) error {
	delete(f.db.polls, p.ID)
	marker := models.PollMarkerFor(p.ID)
	for id, m := range f.db.messages {
		if m.Content == marker {
			delete(f.db.messages, id)
		}
	}
	return nil
}

type fakeEvents struct{ db *memDB }

func (f fakeEvents) Create(_ context.Context, e *models.CommunityEvent) error {
	e.ID = uuid.New()
	e.CreatedAt = f.db.tick()
	f.db.events[e.ID] = e
	return nil
}

func (f fakeEvents) FindByID(_ context.Context, id uuid.UUID) (*models.CommunityEvent, error) {
	if e, ok := f.db.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, notFound()
}

func (f fakeEvents) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*models.CommunityEvent, error) {
	var out []*models.CommunityEvent
	for _, id := range ids {
		if e, ok := f.db.events[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f fakeEvents) ListByGroup(_ context.Context, filter repositories.EventFilter) ([]*models.CommunityEvent, error) {
	var out []*models.CommunityEvent
	for _, e := range f.db.events {
		if e.GroupID != filter.GroupID || !filter.Viewer.CanSee(e.IsApproved, e.CreatorID) {
			continue
		}
		if filter.UpcomingFrom != nil && e.StartsAt.Before(*filter.UpcomingFrom) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (f fakeEvents) ListPending(context.Context) ([]*models.CommunityEvent, error) {
	var out []*models.CommunityEvent
	for _, e := range f.db.events {
		if !e.IsApproved {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f fakeEvents) IDsCreatedBy(_ context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, e := range f.db.events {
		if e.CreatorID == profileID {
			out = append(out, e.ID)
		}
	}
	return out, nil
}

func (f fakeEvents) Update(_ context.Context, e *models.CommunityEvent) error {
	cp := *e
	f.db.events[e.ID] = &cp
	return nil
}

func (f fakeEvents) Approve(_ context.Context, id uuid.UUID) error {
	f.db.events[id].IsApproved = true
	return nil
}

func (f fakeEvents) Cancel(_ context.Context, id uuid.UUID) error {
	f.db.events[id].IsCancelled = true
	return nil
}

func (f fakeEvents) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.db.events, id)
	return nil
}

type fakeAttendees struct{ db *memDB }

func (f fakeAttendees) Toggle(_ context.Context, eventID, profileID uuid.UUID) error {
	if f.db.attendees[eventID] == nil {
		f.db.attendees[eventID] = map[uuid.UUID]bool{}
	}
	if f.db.attendees[eventID][profileID] {
		delete(f.db.attendees[eventID], profileID)
	} else {
		f.db.attendees[eventID][profileID] = true
	}
	return nil
}

func (f fakeAttendees) States(_ context.Context, eventIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]models.AttendanceState, error) {
	out := map[uuid.UUID]models.AttendanceState{}
	for _, id := range eventIDs {
		out[id] = models.AttendanceState{Count: len(f.db.attendees[id]), Mine: f.db.attendees[id][viewerID]}
	}
	return out, nil
}

func (f fakeAttendees) EventIDsAttendedBy(_ context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id, a := range f.db.attendees {
		if a[profileID] {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeProfiles struct {
	db *memDB
	// saves counts Save calls so tests can assert no write happened
	saves *int
}

func (f fakeProfiles) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if p, ok := f.db.profiles[id]; ok {
		return p, nil
	}
	return nil, notFound()
}

func (f fakeProfiles) FindByUsername(_ context.Context, username string) (*models.Profile, error) {
	for _, p := range f.db.profiles {
		if strings.EqualFold(p.Username, username) {
			return p, nil
		}
	}
	return nil, notFound()
}

func (f fakeProfiles) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	out := map[uuid.UUID]*models.Profile{}
	for _, id := range ids {
		if p, ok := f.db.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f fakeProfiles) UsernameTaken(_ context.Context, username string, exceptID uuid.UUID) (bool, error) {
	for _, p := range f.db.profiles {
		if p.ID != exceptID && strings.EqualFold(p.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeProfiles) Save(_ context.Context, p *models.Profile, aux models.ProfileAux) error {
	if f.saves != nil {
		*f.saves++
	}
	for _, other := range f.db.profiles {
		if other.ID != p.ID && strings.EqualFold(other.Username, p.Username) {
			return apperrors.ErrUsernameTaken
		}
	}
	f.db.profiles[p.ID] = p
	// replace, never merge, like the delete-then-insert in the repository
	f.db.profileAux[p.ID] = models.ProfileAux{
		CategoryIDs:     append([]uuid.UUID(nil), aux.CategoryIDs...),
		CustomInterests: append([]string(nil), aux.CustomInterests...),
		PhotoURLs:       append([]string(nil), aux.PhotoURLs...),
	}
	return nil
}

func (f fakeProfiles) Aux(_ context.Context, profileID uuid.UUID) (*models.ProfileAux, error) {
	aux := f.db.profileAux[profileID]
	return &aux, nil
}

func (f fakeProfiles) SetHost(_ context.Context, id uuid.UUID, isHost bool) error {
	p, ok := f.db.profiles[id]
	if !ok {
		return notFound()
	}
	p.IsHost = isHost
	return nil
}

func (f fakeProfiles) UpdateHost(_ context.Context, p *models.Profile) error {
	f.db.profiles[p.ID] = p
	return nil
}

type fakeDMs struct{ db *memDB }

func (f fakeDMs) GetOrCreateThread(_ context.Context, a, b uuid.UUID) (*models.DMThread, error) {
	key := models.PairKey(a, b)
	if t, ok := f.db.threads[key]; ok {
		return t, nil
	}
	t := &models.DMThread{ID: uuid.New(), PairKey: key, CreatedAt: f.db.tick()}
	f.db.threads[key] = t
	f.db.participants[t.ID] = []uuid.UUID{a, b}
	return t, nil
}

func (f fakeDMs) OtherParticipant(_ context.Context, threadID, me uuid.UUID) (uuid.UUID, error) {
	ids, ok := f.db.participants[threadID]
	if !ok {
		return uuid.Nil, apperrors.ErrResourceNotFound
	}
	switch me {
	case ids[0]:
		return ids[1], nil
	case ids[1]:
		return ids[0], nil
	}
	return uuid.Nil, apperrors.ErrPermissionDenied
}

func (f fakeDMs) ListSummaries(context.Context, uuid.UUID) ([]models.DMThreadSummary, error) {
	return nil, nil
}

func (f fakeDMs) ListMessages(_ context.Context, threadID uuid.UUID) ([]models.DirectMessage, error) {
	var out []models.DirectMessage
	for _, m := range f.db.dms {
		if m.ThreadID == threadID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f fakeDMs) MarkRead(_ context.Context, threadID, reader uuid.UUID) error {
	for i := range f.db.dms {
		m := &f.db.dms[i]
		if m.ThreadID == threadID && m.SenderID != reader && m.ReadAt == nil {
			at := f.db.tick()
			m.ReadAt = &at
		}
	}
	return nil
}

func (f fakeDMs) Send(_ context.Context, m *models.DirectMessage) error {
	m.ID = uuid.New()
	m.CreatedAt = f.db.tick()
	f.db.dms = append(f.db.dms, *m)
	return nil
}

type fakeContacts struct{ db *memDB }

func (f fakeContacts) Create(_ context.Context, m *models.ContactMessage) error {
	m.ID = uuid.New()
	m.CreatedAt = f.db.tick()
	f.db.contacts = append(f.db.contacts, m)
	return nil
}

func (f fakeContacts) List(_ context.Context, kind *models.ContactKind, offset uint64, limit int) ([]*models.ContactMessage, int64, error) {
	var all []*models.ContactMessage
	for _, m := range f.db.contacts {
		if kind == nil || m.Kind == *kind {
			all = append(all, m)
		}
	}
	total := int64(len(all))
	if int(offset) >= len(all) {
		return []*models.ContactMessage{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (f fakeContacts) MarkHandled(_ context.Context, id uuid.UUID) error {
	for _, m := range f.db.contacts {
		if m.ID == id {
			at := f.db.tick()
			m.HandledAt = &at
			return nil
		}
	}
	return notFound()
}

type fakeWaitlist struct{ db *memDB }

func (f fakeWaitlist) Add(_ context.Context, email string) (*models.WaitlistEntry, error) {
	key := strings.ToLower(email)
	if f.db.waitlist[key] {
		return nil, apperrors.ErrAlreadyOnList
	}
	f.db.waitlist[key] = true
	return &models.WaitlistEntry{ID: uuid.New(), Email: email}, nil
}

// recordingDistributor keeps enqueued notices in memory
type recordingDistributor struct {
	notices []notify.ApprovalNotice
}

func (d *recordingDistributor) DistributeTaskApprovalNotice(_ context.Context, n notify.ApprovalNotice, _ ...asynq.Option) error {
	d.notices = append(d.notices, n)
	return nil
}

type published struct {
	groupID   uuid.UUID
	eventType string
	data      interface{}
}

type recordingPublisher struct {
	events []published
}

func (p *recordingPublisher) Publish(groupID uuid.UUID, eventType string, data interface{}) {
	p.events = append(p.events, published{groupID: groupID, eventType: eventType, data: data})
}

func (p *recordingPublisher) last() published {
	if len(p.events) == 0 {
		return published{}
	}
	return p.events[len(p.events)-1]
}

// testEnv wires every service over one memDB
type testEnv struct {
	db          *memDB
	distributor *recordingDistributor
	publisher   *recordingPublisher
	saves       int

	directory DirectoryService
	groups    GroupService
	feed      FeedService
	polls     PollService
	events    EventService
	calendar  CalendarService
	profiles  ProfileService
	dms       DMService
	admin     AdminService
	contact   ContactService
	site      SiteService
}

func newTestEnv() *testEnv {
	db := newMemDB()
	env := &testEnv{db: db, distributor: &recordingDistributor{}, publisher: &recordingPublisher{}}
	log := zerolog.Nop()

	cities, categories, groups := fakeCities{db}, fakeCategories{db}, fakeGroups{db}
	members, subgroups, messages := fakeMembers{db}, fakeSubgroups{db}, fakeMessages{db}
	likes, polls, events, attendees := fakeLikes{db}, fakePolls{db}, fakeEvents{db}, fakeAttendees{db}
	profiles := fakeProfiles{db: db, saves: &env.saves}

	views := &viewBuilder{
		cities:     cities,
		categories: categories,
		groups:     groups,
		members:    members,
		profiles:   profiles,
		polls:      polls,
		likes:      likes,
		attendees:  attendees,
		now:        func() time.Time { return testNow },
	}

	env.directory = NewDirectoryService(cities, categories, groups, views, log)
	env.groups = NewGroupService(groups, members, subgroups, cities, categories, views, env.distributor, "https://admin.test", log)
	env.feed = NewFeedService(groups, members, subgroups, messages, likes, views, env.publisher, log)
	env.polls = NewPollService(groups, members, polls, views, env.publisher, log)
	env.events = NewEventService(groups, members, events, attendees, views, env.distributor, "https://admin.test", log)
	env.calendar = NewCalendarService(events, attendees, views)
	env.profiles = NewProfileService(profiles, cities, categories, log)
	env.dms = NewDMService(fakeDMs{db}, profiles, views, log)
	env.admin = NewAdminService(groups, events, fakeContacts{db}, profiles, views, log)
	env.contact = NewContactService(fakeContacts{db}, fakeWaitlist{db}, profiles, log)
	env.site = NewSiteService(cities, categories, log)
	return env
}

func member(p *models.Profile) models.Viewer {
	return models.Viewer{ID: p.ID, Authenticated: true}
}

func adminViewer() models.Viewer {
	return models.Viewer{ID: uuid.New(), Email: "admin@example.com", IsAdmin: true, Authenticated: true}
}
