package handlers

import (
	"testing"
	"time"

	"github.com/Ouedraogo-junior/task-management-api/internal/auth"
	"github.com/Ouedraogo-junior/task-management-api/internal/authz"
	"github.com/Ouedraogo-junior/task-management-api/internal/middleware"
	"github.com/Ouedraogo-junior/task-management-api/internal/models"
	"github.com/Ouedraogo-junior/task-management-api/internal/repository"
	"github.com/Ouedraogo-junior/task-management-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// apiTestEnv wires the full API against an in-memory database, with
// the same routes the server registers.
type apiTestEnv struct {
	db             *gorm.DB
	router         *gin.Engine
	tokens         *auth.TokenManager
	authService    *services.AuthService
	projectService *services.ProjectService
	taskService    *services.TaskService
}

func setupAPITestEnv(t *testing.T) apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	resolver := authz.NewResolver(projectRepo)

	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, resolver)
	taskService := services.NewTaskService(taskRepo, projectRepo, resolver)

	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService, nil)

	r := gin.New()
	api := r.Group("/api")

	projects := api.Group("/projects", middleware.RequireAuth(tokens))
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.ListProjects)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)
	projects.POST("/:id/members", projectHandler.AddMember)
	projects.DELETE("/:id/members/:user_id", projectHandler.RemoveMember)
	projects.POST("/:id/tasks", taskHandler.CreateTask)
	projects.GET("/:id/tasks", taskHandler.ListTasks)
	projects.GET("/:id/stats", taskHandler.Stats)

	tasks := api.Group("/tasks", middleware.RequireAuth(tokens))
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)
	tasks.POST("/generate", taskHandler.GenerateTasks)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return apiTestEnv{
		db:             db,
		router:         r,
		tokens:         tokens,
		authService:    authService,
		projectService: projectService,
		taskService:    taskService,
	}
}

// createUser registers a user and returns it with a valid token.
func (env apiTestEnv) createUser(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()

	user, err := env.authService.Register(services.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "supersecret",
	})
	require.NoError(t, err)

	token, err := env.tokens.Issue(user.ID)
	require.NoError(t, err)

	return user, token
}

// createProject creates a project owned by ownerID.
func (env apiTestEnv) createProject(t *testing.T, ownerID uint64, name string) *models.Project {
	t.Helper()

	project, err := env.projectService.CreateProject(services.CreateProjectInput{
		Name:    name,
		OwnerID: ownerID,
	})
	require.NoError(t, err)

	return project
}

// addMember attaches userID to the project with the given role, acting
// as the owner.
func (env apiTestEnv) addMember(t *testing.T, projectID, ownerID, userID uint64, role models.ProjectRole) {
	t.Helper()

	_, err := env.projectService.AddMember(projectID, ownerID, services.AddMemberInput{
		UserID: userID,
		Role:   role,
	})
	require.NoError(t, err)
}
