package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rizkypratama/notice-board/controllers"
	"github.com/rizkypratama/notice-board/middlewares"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Rate limiter umum per IP (50 request per detik)
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	authCtrl := controllers.NewAuthController(db)
	userCtrl := controllers.NewUserController(db)
	notificationCtrl := controllers.NewNotificationController(db)
	attachmentCtrl := controllers.NewAttachmentController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/health", controllers.HealthCheck)

	// Rate limiter ketat untuk login/register
	public := r.Group("/auth")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", authCtrl.Register)
		public.POST("/login", authCtrl.Login)
	}

	// Notifikasi yang published bisa dibaca tanpa login
	r.GET("/notifications", notificationCtrl.GetAllNotifications)
	r.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
	r.GET("/notifications/:notif_id/attachments", attachmentCtrl.GetNotificationAttachments)
	r.GET("/files/:filename", attachmentCtrl.Download)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/auth/me", authCtrl.Me)
		auth.POST("/auth/logout", authCtrl.Logout)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminRequired(db))
	{
		admin.GET("/admin/notifications", notificationCtrl.GetAdminNotifications)
		admin.POST("/notifications", notificationCtrl.CreateNotification)
		admin.PUT("/notifications/:notif_id", notificationCtrl.UpdateNotification)
		admin.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

		admin.POST("/upload", attachmentCtrl.Upload)
		admin.DELETE("/attachments/:attachment_id", attachmentCtrl.DeleteAttachment)

		admin.GET("/users", userCtrl.GetAllUsers)
		admin.GET("/users/:user_id", userCtrl.GetUserByID)
		admin.PUT("/users/:user_id", userCtrl.UpdateUser)
		admin.DELETE("/users/:user_id", userCtrl.DeleteUser)
	}

	return r
}
