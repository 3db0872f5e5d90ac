package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avcastro/vaultbox/internal/logging"
	"github.com/avcastro/vaultbox/internal/server/services"
)

// Server bundles the service layer behind the REST surface.
type Server struct {
	files         *services.FileService
	users         *services.UserService
	subscriptions *services.SubscriptionService
	contacts      *services.ContactService
	jwtSecret     []byte
	log           logging.Logger
}

func NewServer(files *services.FileService, users *services.UserService,
	subscriptions *services.SubscriptionService, contacts *services.ContactService,
	jwtSecret []byte, log logging.Logger) *Server {
	return &Server{
		files:         files,
		users:         users,
		subscriptions: subscriptions,
		contacts:      contacts,
		jwtSecret:     jwtSecret,
		log:           log,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// The inquiry form is public; managing inquiries is not.
		api.POST("/contacts", s.submitContact)

		authed := api.Group("/")
		authed.Use(JWTAuth(s.jwtSecret))
		{
			fileRoutes := authed.Group("/files")
			{
				fileRoutes.POST("", s.uploadFiles)
				fileRoutes.GET("", s.listFiles)
				fileRoutes.GET("/:id/download", s.downloadFile)
				fileRoutes.DELETE("/:id", s.deleteFile)
				fileRoutes.POST("/:id/star", s.toggleStar)
				fileRoutes.PATCH("/:id/privacy", s.setPrivacy)
				fileRoutes.POST("/:id/share", s.shareFile)
				fileRoutes.DELETE("/:id/share", s.unshareFile)
				fileRoutes.GET("/stats/total-size", s.totalSize)
				fileRoutes.GET("/stats/extensions", s.extensionHistogram)
			}

			userRoutes := authed.Group("/users")
			{
				userRoutes.GET("", s.listUsers)
				userRoutes.GET("/count", s.countUsers)
				userRoutes.GET("/:id", s.getUser)
				userRoutes.PUT("/:id/password", s.changePassword)
				userRoutes.POST("/avatar", s.uploadAvatar)
				userRoutes.DELETE("/:id", s.deleteUser)
			}

			subRoutes := authed.Group("/subscriptions")
			{
				subRoutes.GET("/plans", s.listPlans)
				subRoutes.GET("/current", s.currentSubscription)
				subRoutes.POST("/upgrade", s.upgradeSubscription)
				subRoutes.POST("/downgrade", s.downgradeSubscription)
				subRoutes.POST("/payments", s.createPayment)
				subRoutes.POST("/payments/execute", s.executePayment)
			}

			contactRoutes := authed.Group("/contacts")
			{
				contactRoutes.GET("", s.listContacts)
				contactRoutes.GET("/:id", s.getContact)
				contactRoutes.PATCH("/:id", s.updateContactStatus)
				contactRoutes.DELETE("/:id", s.deleteContact)
			}
		}
	}

	return router
}
