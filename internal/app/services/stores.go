package services

import (
	"context"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/repositories"
	"github.com/google/uuid"
)

// The narrow persistence contracts the services depend on. The repositories package
// satisfies all of them; tests use in-memory fakes.

type cityStore interface {
	ListActive(ctx context.Context) ([]*models.City, error)
	FindBySlug(ctx context.Context, slug string) (*models.City, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.City, error)
}

type categoryStore interface {
	List(ctx context.Context) ([]*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Category, error)
}

type groupStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	FindBySlug(ctx context.Context, cityID, categoryID uuid.UUID, slug string) (*models.Group, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Group, error)
	ListVisible(ctx context.Context, cityID, categoryID uuid.UUID, viewer models.Viewer) ([]*models.Group, error)
	ListPending(ctx context.Context) ([]*models.Group, error)
	ListByMember(ctx context.Context, profileID uuid.UUID) ([]*models.Group, error)
	SlugExists(ctx context.Context, cityID, categoryID uuid.UUID, slug string) (bool, error)
	Create(ctx context.Context, g *models.Group) error
	Approve(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type memberStore interface {
	Add(ctx context.Context, groupID, profileID uuid.UUID) error
	Remove(ctx context.Context, groupID, profileID uuid.UUID) error
	IsMember(ctx context.Context, groupID, profileID uuid.UUID) (bool, error)
	CountsByGroupIDs(ctx context.Context, groupIDs []uuid.UUID) (map[uuid.UUID]int, error)
	ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
}

type subgroupStore interface {
	Create(ctx context.Context, s *models.Subgroup) error
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Subgroup, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subgroup, error)
}

type messageStore interface {
	Create(ctx context.Context, m *models.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error)
	ListTopLevel(ctx context.Context, f repositories.MessageFilter) ([]*models.Message, error)
	ListReplies(ctx context.Context, parentIDs []uuid.UUID) ([]*models.Message, error)
	ListPinned(ctx context.Context, groupID uuid.UUID) ([]*models.Message, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	SetPinned(ctx context.Context, id uuid.UUID, by *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type likeStore interface {
	Toggle(ctx context.Context, messageID, userID uuid.UUID) error
	States(ctx context.Context, messageIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]models.LikeState, error)
}

type pollStore interface {
	CreateWithMarker(ctx context.Context, p *models.Poll, labels []string, marker *models.Message) ([]*models.PollOption, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Poll, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Poll, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Poll, error)
	OptionsByPollIDs(ctx context.Context, pollIDs []uuid.UUID) (map[uuid.UUID][]*models.PollOption, error)
	Votes(ctx context.Context, pollIDs []uuid.UUID) ([]models.PollVote, error)
	ToggleVote(ctx context.Context, p *models.Poll, optionID, voterID uuid.UUID) error
	Delete(ctx context.Context, p *models.Poll) error
}

type eventStore interface {
	Create(ctx context.Context, e *models.CommunityEvent) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CommunityEvent, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.CommunityEvent, error)
	ListByGroup(ctx context.Context, f repositories.EventFilter) ([]*models.CommunityEvent, error)
	ListPending(ctx context.Context) ([]*models.CommunityEvent, error)
	IDsCreatedBy(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, e *models.CommunityEvent) error
	Approve(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type attendeeStore interface {
	Toggle(ctx context.Context, eventID, profileID uuid.UUID) error
	States(ctx context.Context, eventIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]models.AttendanceState, error)
	EventIDsAttendedBy(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error)
}

type profileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByUsername(ctx context.Context, username string) (*models.Profile, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Profile, error)
	UsernameTaken(ctx context.Context, username string, exceptID uuid.UUID) (bool, error)
	Save(ctx context.Context, p *models.Profile, aux models.ProfileAux) error
	Aux(ctx context.Context, profileID uuid.UUID) (*models.ProfileAux, error)
	SetHost(ctx context.Context, id uuid.UUID, isHost bool) error
	UpdateHost(ctx context.Context, p *models.Profile) error
}

type dmStore interface {
	GetOrCreateThread(ctx context.Context, a, b uuid.UUID) (*models.DMThread, error)
	OtherParticipant(ctx context.Context, threadID, me uuid.UUID) (uuid.UUID, error)
	ListSummaries(ctx context.Context, profileID uuid.UUID) ([]models.DMThreadSummary, error)
	ListMessages(ctx context.Context, threadID uuid.UUID) ([]models.DirectMessage, error)
	MarkRead(ctx context.Context, threadID, reader uuid.UUID) error
	Send(ctx context.Context, m *models.DirectMessage) error
}

type contactStore interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	List(ctx context.Context, kind *models.ContactKind, offset uint64, limit int) ([]*models.ContactMessage, int64, error)
	MarkHandled(ctx context.Context, id uuid.UUID) error
}

type waitlistStore interface {
	Add(ctx context.Context, email string) (*models.WaitlistEntry, error)
}

// Publisher pushes realtime events to a group's connected clients
type Publisher interface {
	Publish(groupID uuid.UUID, eventType string, data interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(uuid.UUID, string, interface{}) {}
