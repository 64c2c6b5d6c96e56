package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	CityRepository     *CityRepository
	CategoryRepository *CategoryRepository
	GroupRepository    *GroupRepository
	MemberRepository   *MemberRepository
	SubgroupRepository *SubgroupRepository
	MessageRepository  *MessageRepository
	LikeRepository     *LikeRepository
	PollRepository     *PollRepository
	EventRepository    *EventRepository
	AttendeeRepository *AttendeeRepository
	ProfileRepository  *ProfileRepository
	DMRepository       *DMRepository
	ContactRepository  *ContactRepository
	WaitlistRepository *WaitlistRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CityRepository:     NewCityRepository(db),
		CategoryRepository: NewCategoryRepository(db),
		GroupRepository:    NewGroupRepository(db),
		MemberRepository:   NewMemberRepository(db),
		SubgroupRepository: NewSubgroupRepository(db),
		MessageRepository:  NewMessageRepository(db),
		LikeRepository:     NewLikeRepository(db),
		PollRepository:     NewPollRepository(db),
		EventRepository:    NewEventRepository(db),
		AttendeeRepository: NewAttendeeRepository(db),
		ProfileRepository:  NewProfileRepository(db),
		DMRepository:       NewDMRepository(db),
		ContactRepository:  NewContactRepository(db),
		WaitlistRepository: NewWaitlistRepository(db),
	}
}
