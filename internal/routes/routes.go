package routes

import (
	"github.com/gin-gonic/gin"

	"vernopromo/internal/handlers"
	"vernopromo/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	publicRate string,
	authHandler *handlers.AuthHandler,
	registrationHandler *handlers.RegistrationHandler,
	profileHandler *handlers.ProfileHandler,
	documentHandler *handlers.DocumentHandler,
	lookupHandler *handlers.LookupHandler,
	feedbackHandler *handlers.FeedbackHandler,
) *gin.Engine {

	api := r.Group("/api")

	// ---- public (с инфраструктурным лимитом по IP)
	public := api.Group("", middleware.RateLimit(publicRate))
	{
		public.POST("/login", authHandler.Login)
		public.POST("/login_registration", registrationHandler.LoginRegistration)
		public.POST("/send_phone_code", registrationHandler.SendPhoneCode)
		public.POST("/check_phone_code", registrationHandler.CheckPhoneCode)
		public.POST("/registration", registrationHandler.Registration)
		// refresh аутентифицируется самим refresh-токеном: access к этому
		// моменту обычно уже истёк
		public.POST("/refresh", authHandler.RefreshToken)
		public.GET("/current_city", lookupHandler.CurrentCity)
		public.POST("/feedback", feedbackHandler.Feedback)
	}

	// ---- protected
	private := api.Group("", middleware.AuthMiddleware())
	{
		private.GET("/me", authHandler.Me)

		private.PATCH("/profileData", profileHandler.ProfileData)
		private.PATCH("/update", profileHandler.Update)

		private.POST("/upload", documentHandler.Upload)
		private.GET("/file/:doc", documentHandler.GetFile)
		private.GET("/agreement_template", documentHandler.AgreementTemplate)

		private.GET("/family_statuses", lookupHandler.FamilyStatuses)
		private.GET("/cities", lookupHandler.Cities)
	}

	return r
}
