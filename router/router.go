package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/manufacturing-app/controllers"
	"github.com/yeremiapane/manufacturing-app/middlewares"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	orderCtrl := controllers.NewOrderController(db)
	moCtrl := controllers.NewMOController(db)
	jobsheetCtrl := controllers.NewJobsheetController(db)
	taskCtrl := controllers.NewTaskController(db)
	machineCtrl := controllers.NewMachineController(db)
	breakdownCtrl := controllers.NewBreakdownController(db)
	dashboardCtrl := controllers.NewDashboardController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)

	// ORDERS + APPROVAL WORKFLOW (ppic/admin)
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.POST("/orders", middlewares.RequireRoles("ppic"), orderCtrl.CreateOrder)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id", middlewares.RequireRoles("ppic"), orderCtrl.UpdateOrder)
	auth.DELETE("/orders/:order_id", middlewares.RequireRoles("ppic"), orderCtrl.DeleteOrder)
	auth.POST("/orders/:order_id/approval", middlewares.RequireRoles("ppic", "engineer"), orderCtrl.ApplyApprovalAction)

	// MANUFACTURING ORDERS (ppic/admin)
	auth.GET("/orders/:order_id/mos", moCtrl.GetMOsByOrder)
	auth.POST("/orders/:order_id/mos", middlewares.RequireRoles("ppic"), moCtrl.CreateMO)
	auth.GET("/mos/:mo_id", moCtrl.GetMOByID)
	auth.PATCH("/mos/:mo_id", middlewares.RequireRoles("ppic"), moCtrl.UpdateMO)
	auth.DELETE("/mos/:mo_id", middlewares.RequireRoles("ppic"), moCtrl.DeleteMO)

	// JOBSHEETS (ppic/engineer/admin)
	auth.GET("/mos/:mo_id/jobsheets", jobsheetCtrl.GetJobsheetsByMO)
	auth.POST("/mos/:mo_id/jobsheets", middlewares.RequireRoles("ppic", "engineer"), jobsheetCtrl.CreateJobsheet)
	auth.GET("/jobsheets/:jobsheet_id", jobsheetCtrl.GetJobsheetByID)
	auth.PATCH("/jobsheets/:jobsheet_id", middlewares.RequireRoles("ppic", "engineer"), jobsheetCtrl.UpdateJobsheet)
	auth.DELETE("/jobsheets/:jobsheet_id", middlewares.RequireRoles("ppic", "engineer"), jobsheetCtrl.DeleteJobsheet)

	// TASKS (operator mengubah status; ppic/engineer mengatur struktur)
	auth.GET("/jobsheets/:jobsheet_id/tasks", taskCtrl.GetTasksByJobsheet)
	auth.POST("/jobsheets/:jobsheet_id/tasks", middlewares.RequireRoles("ppic", "engineer"), taskCtrl.CreateTask)
	auth.GET("/tasks/:task_id", taskCtrl.GetTaskByID)
	auth.PATCH("/tasks/:task_id", middlewares.RequireRoles("ppic", "engineer"), taskCtrl.UpdateTask)
	auth.POST("/tasks/:task_id/status", middlewares.RequireRoles("operator", "ppic"), taskCtrl.UpdateTaskStatus)
	auth.DELETE("/tasks/:task_id", middlewares.RequireRoles("ppic", "engineer"), taskCtrl.DeleteTask)
	auth.GET("/my-tasks", taskCtrl.GetMyTasks)

	// MACHINES
	auth.GET("/machines", machineCtrl.GetAllMachines)
	auth.POST("/machines", middlewares.RequireRoles("ppic"), machineCtrl.CreateMachine)
	auth.PATCH("/machines/:machine_id", middlewares.RequireRoles("ppic", "operator"), machineCtrl.UpdateMachineStatus)
	auth.DELETE("/machines/:machine_id", middlewares.RequireRoles("ppic"), machineCtrl.DeleteMachine)

	// BREAKDOWN LOGS
	auth.GET("/breakdowns", breakdownCtrl.GetAllBreakdowns)
	auth.POST("/breakdowns", middlewares.RequireRoles("operator", "engineer"), breakdownCtrl.ReportBreakdown)
	auth.POST("/breakdowns/:breakdown_id/resolve", middlewares.RequireRoles("engineer", "ppic"), breakdownCtrl.ResolveBreakdown)

	// DASHBOARD / REPORTING (read-only)
	auth.GET("/dashboard/stats", dashboardCtrl.GetDashboardStats)
	auth.GET("/dashboard/flow", dashboardCtrl.GetProductionFlow)
	auth.GET("/reports/progress", dashboardCtrl.GetProgressReport)

	// WebSocket endpoint dengan middleware khusus
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.MonitorHandler)
	}

	return r
}
