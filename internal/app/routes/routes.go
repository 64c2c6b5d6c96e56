package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/controllers"
	"github.com/girlscollective/collective/internal/middleware"
	"github.com/girlscollective/collective/internal/pkg/ratelimit"
)

// Controllers groups every HTTP controller
type Controllers struct {
	Directory *controllers.DirectoryController
	Group     *controllers.GroupController
	Feed      *controllers.FeedController
	Poll      *controllers.PollController
	Event     *controllers.EventController
	Profile   *controllers.ProfileController
	DM        *controllers.DMController
	Admin     *controllers.AdminController
	Contact   *controllers.ContactController
	Relay     *controllers.RelayController
	Site      *controllers.SiteController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	limiter ratelimit.Limiter,
	landingPath string,
) {
	// --- Site ---
	router.GET("/sitemap.xml", c.Site.Sitemap)
	router.GET("/robots.txt", c.Site.Robots)
	router.GET(landingPath, c.Site.ComingSoon)

	// --- Relays (plain JSON, rate limited) ---
	relays := router.Group("/api")
	{
		relays.POST("/geocode", middleware.RateLimit(limiter, "geocode"), c.Relay.Geocode)
		relays.POST("/notify-approval", middleware.RateLimit(limiter, "notify"), c.Relay.NotifyApproval)
		relays.POST("/waitlist", middleware.RateLimit(limiter, "waitlist"), c.Relay.JoinWaitlist)
		relays.POST("/preview", middleware.RateLimit(limiter, "preview"), c.Relay.Preview)
	}

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public reads; a valid token adds the viewer's own pending items ---
	public := v1.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/cities", c.Directory.ListCities)
		public.GET("/categories", c.Directory.ListCategories)
		public.GET("/directory/:city/:category", c.Directory.ListGroups)
		public.GET("/directory/:city/:category/:group", c.Directory.ResolveGroup)

		public.GET("/groups/:id", c.Group.GetGroup)
		public.GET("/groups/:id/members", c.Group.ListMembers)
		public.GET("/groups/:id/subgroups", c.Group.ListSubgroups)
		public.GET("/groups/:id/messages", c.Feed.ListMessages)
		public.GET("/groups/:id/polls", c.Poll.ListPolls)
		public.GET("/groups/:id/events", c.Event.ListGroupEvents)

		public.GET("/polls/:id", c.Poll.GetPoll)
		public.GET("/events/:id", c.Event.GetEvent)

		public.GET("/profiles/availability", c.Profile.UsernameAvailable)
		public.GET("/profiles/:username", c.Profile.GetProfileByUsername)

		public.POST("/contact", middleware.RateLimit(limiter, "contact"), c.Contact.SubmitContact)
	}

	// Websocket stream; the only route that accepts the token in the query string
	v1.GET("/groups/:id/ws", authMiddleware.StreamAuth(), c.Feed.Stream)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/groups", c.Group.CreateGroup)
		authenticated.POST("/groups/:id/members", c.Group.Join)
		authenticated.DELETE("/groups/:id/members/me", c.Group.Leave)
		authenticated.POST("/groups/:id/subgroups", c.Group.CreateSubgroup)

		authenticated.POST("/groups/:id/messages", c.Feed.PostMessage)
		authenticated.PATCH("/messages/:id", c.Feed.EditMessage)
		authenticated.POST("/messages/:id/like", c.Feed.ToggleLike)

		authenticated.POST("/groups/:id/polls", c.Poll.CreatePoll)
		authenticated.POST("/polls/:id/votes", c.Poll.Vote)
		authenticated.DELETE("/polls/:id", c.Poll.DeletePoll)

		authenticated.POST("/groups/:id/events", c.Event.CreateEvent)
		authenticated.PATCH("/events/:id", c.Event.UpdateEvent)
		authenticated.POST("/events/:id/cancel", c.Event.CancelEvent)
		authenticated.DELETE("/events/:id", c.Event.DeleteEvent)
		authenticated.POST("/events/:id/attendance", c.Event.ToggleAttendance)

		authenticated.POST("/uploads/:kind", c.Profile.Upload)

		dm := authenticated.Group("/dm/threads")
		{
			dm.GET("", c.DM.ListThreads)
			dm.POST("", c.DM.StartThread)
			dm.GET("/:id", c.DM.GetThread)
			dm.POST("/:id/messages", c.DM.Send)
		}

		me := authenticated.Group("/me")
		{
			me.GET("/profile", c.Profile.GetMyProfile)
			me.PUT("/profile", c.Profile.SaveProfile)
			me.PUT("/host", c.Profile.UpdateHost)
			me.GET("/groups", c.Group.ListMyGroups)
			me.GET("/calendar", c.Event.MyCalendar)
			me.POST("/account-deletion", c.Contact.RequestAccountDeletion)
			me.POST("/host-activation", c.Contact.RequestHostActivation)
		}
	}

	// --- Moderation ---
	admin := v1.Group("")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.AdminRequired())
	{
		admin.DELETE("/messages/:id", c.Feed.DeleteMessage)
		admin.POST("/messages/:id/pin", c.Feed.PinMessage)
		admin.DELETE("/messages/:id/pin", c.Feed.UnpinMessage)

		admin.GET("/admin/pending", c.Admin.ListPending)
		admin.POST("/admin/groups/:id/approve", c.Admin.ApproveGroup)
		admin.DELETE("/admin/groups/:id", c.Admin.DeleteGroup)
		admin.POST("/admin/events/:id/approve", c.Event.ApproveEvent)
		admin.DELETE("/admin/events/:id", c.Event.DeleteEvent)
		admin.GET("/admin/contact-messages", c.Admin.ListContactMessages)
		admin.POST("/admin/contact-messages/:id/handled", c.Admin.MarkContactHandled)
		admin.POST("/admin/hosts/:id/activate", c.Admin.ActivateHost)
	}
}
