package services

import (
	"time"

	"github.com/girlscollective/collective/internal/app/repositories"
	"github.com/girlscollective/collective/internal/pkg/filestorage"
	"github.com/girlscollective/collective/internal/pkg/logger"
	"github.com/girlscollective/collective/internal/pkg/worker"
)

// Dependencies are the collaborators shared by the services
type Dependencies struct {
	Repos       *repositories.Repositories
	Distributor worker.TaskDistributor
	Publisher   Publisher
	Storage     filestorage.FileStorage
	// AdminURL is linked from approval notices
	AdminURL string
}

// Services holds every application service
type Services struct {
	Directory DirectoryService
	Group     GroupService
	Feed      FeedService
	Poll      PollService
	Event     EventService
	Calendar  CalendarService
	Profile   ProfileService
	Upload    UploadService
	DM        DMService
	Admin     AdminService
	Contact   ContactService
	Site      SiteService
}

// NewServices wires the services over the repositories
func NewServices(deps Dependencies) *Services {
	r := deps.Repos
	views := &viewBuilder{
		cities:     r.CityRepository,
		categories: r.CategoryRepository,
		groups:     r.GroupRepository,
		members:    r.MemberRepository,
		profiles:   r.ProfileRepository,
		polls:      r.PollRepository,
		likes:      r.LikeRepository,
		attendees:  r.AttendeeRepository,
		now:        time.Now,
	}

	return &Services{
		Directory: NewDirectoryService(r.CityRepository, r.CategoryRepository, r.GroupRepository, views,
			logger.Component("directory")),
		Group: NewGroupService(r.GroupRepository, r.MemberRepository, r.SubgroupRepository, r.CityRepository,
			r.CategoryRepository, views, deps.Distributor, deps.AdminURL, logger.Component("groups")),
		Feed: NewFeedService(r.GroupRepository, r.MemberRepository, r.SubgroupRepository, r.MessageRepository,
			r.LikeRepository, views, deps.Publisher, logger.Component("feed")),
		Poll: NewPollService(r.GroupRepository, r.MemberRepository, r.PollRepository, views, deps.Publisher,
			logger.Component("polls")),
		Event: NewEventService(r.GroupRepository, r.MemberRepository, r.EventRepository, r.AttendeeRepository,
			views, deps.Distributor, deps.AdminURL, logger.Component("events")),
		Calendar: NewCalendarService(r.EventRepository, r.AttendeeRepository, views),
		Profile: NewProfileService(r.ProfileRepository, r.CityRepository, r.CategoryRepository,
			logger.Component("profiles")),
		Upload: NewUploadService(deps.Storage, logger.Component("uploads")),
		DM:     NewDMService(r.DMRepository, r.ProfileRepository, views, logger.Component("dm")),
		Admin: NewAdminService(r.GroupRepository, r.EventRepository, r.ContactRepository, r.ProfileRepository,
			views, logger.Component("admin")),
		Contact: NewContactService(r.ContactRepository, r.WaitlistRepository, r.ProfileRepository,
			logger.Component("contact")),
		Site: NewSiteService(r.CityRepository, r.CategoryRepository, logger.Component("site")),
	}
}
