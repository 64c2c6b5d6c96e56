package services

import (
	"context"
	"sort"
	"time"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/helpers"
	"github.com/google/uuid"
)

// viewBuilder assembles response view models. Every second-level lookup is batched
// by a deduplicated id set, so round trips grow with distinct entities rather than rows.
type viewBuilder struct {
	cities     cityStore
	categories categoryStore
	groups     groupStore
	members    memberStore
	profiles   profileStore
	polls      pollStore
	likes      likeStore
	attendees  attendeeStore
	now        func() time.Time
}

func toProfilePreview(p *models.Profile) dto.ProfilePreview {
	return dto.ProfilePreview{
		ID:            p.ID,
		Username:      p.Username,
		AvatarURL:     p.AvatarURL,
		FavoriteEmoji: p.FavoriteEmoji,
	}
}

func toCityResponse(c *models.City) dto.CityResponse {
	return dto.CityResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func toCategoryResponse(c *models.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

// profilePreviews loads previews for ids. Profiles that no longer exist get an id-only preview.
func (b *viewBuilder) profilePreviews(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]dto.ProfilePreview, error) {
	ids = helpers.UniqueIDs(ids)
	out := make(map[uuid.UUID]dto.ProfilePreview, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	profiles, err := b.profiles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if p, ok := profiles[id]; ok {
			out[id] = toProfilePreview(p)
		} else {
			out[id] = dto.ProfilePreview{ID: id}
		}
	}
	return out, nil
}

func previewPtr(previews map[uuid.UUID]dto.ProfilePreview, id uuid.UUID) *dto.ProfilePreview {
	p, ok := previews[id]
	if !ok {
		return nil
	}
	return &p
}

// groupSummaries builds listing cards for groups, preserving their order
func (b *viewBuilder) groupSummaries(ctx context.Context, groups []*models.Group) ([]dto.GroupSummary, error) {
	out := make([]dto.GroupSummary, 0, len(groups))
	if len(groups) == 0 {
		return out, nil
	}

	var groupIDs, cityIDs, categoryIDs, creatorIDs []uuid.UUID
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
		cityIDs = append(cityIDs, g.CityID)
		categoryIDs = append(categoryIDs, g.CategoryID)
		creatorIDs = append(creatorIDs, g.CreatorID)
	}

	cities, err := b.cities.GetByIDs(ctx, helpers.UniqueIDs(cityIDs))
	if err != nil {
		return nil, err
	}
	categories, err := b.categories.GetByIDs(ctx, helpers.UniqueIDs(categoryIDs))
	if err != nil {
		return nil, err
	}
	creators, err := b.profilePreviews(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}
	counts, err := b.members.CountsByGroupIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}

	for _, g := range groups {
		s := dto.GroupSummary{
			ID:            g.ID,
			Slug:          g.Slug,
			Name:          g.Name,
			Description:   g.Description,
			CoverImageURL: g.CoverImageURL,
			IsApproved:    g.IsApproved,
			Creator:       previewPtr(creators, g.CreatorID),
			MemberCount:   counts[g.ID],
			CreatedAt:     g.CreatedAt,
		}
		if c, ok := cities[g.CityID]; ok {
			s.City = toCityResponse(c)
		}
		if c, ok := categories[g.CategoryID]; ok {
			s.Category = toCategoryResponse(c)
		}
		out = append(out, s)
	}
	return out, nil
}

// pollViews computes tallies for polls as seen by viewer
func (b *viewBuilder) pollViews(ctx context.Context, polls []*models.Poll, viewer models.Viewer) (map[uuid.UUID]dto.PollView, error) {
	out := make(map[uuid.UUID]dto.PollView, len(polls))
	if len(polls) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(polls))
	creatorIDs := make([]uuid.UUID, 0, len(polls))
	for _, p := range polls {
		ids = append(ids, p.ID)
		creatorIDs = append(creatorIDs, p.CreatorID)
	}

	options, err := b.polls.OptionsByPollIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	votes, err := b.polls.Votes(ctx, ids)
	if err != nil {
		return nil, err
	}
	creators, err := b.profilePreviews(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}

	tally := make(map[uuid.UUID]int)
	mine := make(map[uuid.UUID]bool)
	for _, v := range votes {
		tally[v.OptionID]++
		if viewer.Authenticated && v.VoterID == viewer.ID {
			mine[v.OptionID] = true
		}
	}

	now := b.now()
	for _, p := range polls {
		opts := append([]*models.PollOption(nil), options[p.ID]...)
		sort.SliceStable(opts, func(i, j int) bool { return opts[i].Position < opts[j].Position })

		view := dto.PollView{
			ID:        p.ID,
			GroupID:   p.GroupID,
			Question:  p.Question,
			IsMulti:   p.IsMulti,
			ClosesAt:  p.ClosesAt,
			IsClosed:  p.IsClosed(now),
			Creator:   previewPtr(creators, p.CreatorID),
			Options:   make([]dto.PollOptionTally, 0, len(opts)),
			Mine:      []uuid.UUID{},
			CreatedAt: p.CreatedAt,
		}
		for _, o := range opts {
			view.Options = append(view.Options, dto.PollOptionTally{ID: o.ID, Label: o.Label, Votes: tally[o.ID]})
			view.TotalVotes += tally[o.ID]
			if mine[o.ID] {
				view.Mine = append(view.Mine, o.ID)
			}
		}
		out[p.ID] = view
	}
	return out, nil
}

// messageViews renders messages of one group without nesting. A POLL:<id> marker becomes a poll
// widget only when the poll exists in the same group; otherwise it stays literal text.
func (b *viewBuilder) messageViews(ctx context.Context, groupID uuid.UUID, messages []*models.Message, viewer models.Viewer) ([]dto.MessageView, error) {
	out := make([]dto.MessageView, 0, len(messages))
	if len(messages) == 0 {
		return out, nil
	}

	var ids, senderIDs, pollIDs []uuid.UUID
	for _, m := range messages {
		ids = append(ids, m.ID)
		senderIDs = append(senderIDs, m.SenderID)
		if pollID, ok := m.PollMarker(); ok {
			pollIDs = append(pollIDs, pollID)
		}
	}

	senders, err := b.profilePreviews(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	likes, err := b.likes.States(ctx, helpers.UniqueIDs(ids), viewer.ID)
	if err != nil {
		return nil, err
	}

	var polls map[uuid.UUID]dto.PollView
	if pollIDs = helpers.UniqueIDs(pollIDs); len(pollIDs) > 0 {
		found, err := b.polls.GetByIDs(ctx, pollIDs)
		if err != nil {
			return nil, err
		}
		inGroup := make([]*models.Poll, 0, len(found))
		for _, p := range found {
			if p.GroupID == groupID {
				inGroup = append(inGroup, p)
			}
		}
		if polls, err = b.pollViews(ctx, inGroup, viewer); err != nil {
			return nil, err
		}
	}

	for _, m := range messages {
		view := dto.MessageView{
			ID:                 m.ID,
			GroupID:            m.GroupID,
			Kind:               dto.MessageKindText,
			Content:            m.Content,
			Sender:             senders[m.SenderID],
			Likes:              likes[m.ID],
			IsPinned:           m.IsPinned,
			PinnedAt:           m.PinnedAt,
			ParentMessageID:    m.ParentMessageID,
			LocationSubgroupID: m.LocationSubgroupID,
			AgeSubgroupID:      m.AgeSubgroupID,
			CreatedAt:          m.CreatedAt,
			EditedAt:           m.EditedAt,
		}
		if pollID, ok := m.PollMarker(); ok {
			if pv, ok := polls[pollID]; ok {
				view.Kind = dto.MessageKindPoll
				view.Poll = &pv
			}
		}
		out = append(out, view)
	}
	return out, nil
}

// eventViews is the single builder for event view models: group and slugs, creator, attendance.
func (b *viewBuilder) eventViews(ctx context.Context, events []*models.CommunityEvent, viewer models.Viewer) ([]dto.EventView, error) {
	out := make([]dto.EventView, 0, len(events))
	if len(events) == 0 {
		return out, nil
	}

	var ids, groupIDs, creatorIDs []uuid.UUID
	for _, e := range events {
		ids = append(ids, e.ID)
		groupIDs = append(groupIDs, e.GroupID)
		creatorIDs = append(creatorIDs, e.CreatorID)
	}

	groups, err := b.groups.GetByIDs(ctx, helpers.UniqueIDs(groupIDs))
	if err != nil {
		return nil, err
	}
	var cityIDs, categoryIDs []uuid.UUID
	for _, g := range groups {
		cityIDs = append(cityIDs, g.CityID)
		categoryIDs = append(categoryIDs, g.CategoryID)
	}
	cities, err := b.cities.GetByIDs(ctx, helpers.UniqueIDs(cityIDs))
	if err != nil {
		return nil, err
	}
	categories, err := b.categories.GetByIDs(ctx, helpers.UniqueIDs(categoryIDs))
	if err != nil {
		return nil, err
	}
	creators, err := b.profilePreviews(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}
	attendance, err := b.attendees.States(ctx, helpers.UniqueIDs(ids), viewer.ID)
	if err != nil {
		return nil, err
	}

	for _, e := range events {
		view := dto.EventView{
			ID:            e.ID,
			Title:         e.Title,
			Description:   e.Description,
			Location:      e.Location,
			StartsAt:      e.StartsAt,
			CoverImageURL: e.CoverImageURL,
			IsApproved:    e.IsApproved,
			IsCancelled:   e.IsCancelled,
			Latitude:      e.Latitude,
			Longitude:     e.Longitude,
			Creator:       previewPtr(creators, e.CreatorID),
			Attendance:    attendance[e.ID],
			CreatedAt:     e.CreatedAt,
		}
		if g, ok := groups[e.GroupID]; ok {
			ref := &dto.EventGroupRef{ID: g.ID, Slug: g.Slug, Name: g.Name}
			if c, ok := cities[g.CityID]; ok {
				ref.CitySlug = c.Slug
			}
			if c, ok := categories[g.CategoryID]; ok {
				ref.CategorySlug = c.Slug
			}
			view.Group = ref
		}
		out = append(out, view)
	}
	return out, nil
}
