package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"social-backend/internal/config"
	infraCache "social-backend/internal/infrastructure/cache"
	"social-backend/internal/infrastructure/database"
	"social-backend/internal/infrastructure/queue"
	"social-backend/pkg/cache"
	"social-backend/pkg/jwt"

	"social-backend/internal/domains/user"
	userHandler "social-backend/internal/domains/user/handler"
	userRepo "social-backend/internal/domains/user/repository"
	userService "social-backend/internal/domains/user/service"

	postHandler "social-backend/internal/domains/post/handler"
	postRepo "social-backend/internal/domains/post/repository"
	postService "social-backend/internal/domains/post/service"

	commentHandler "social-backend/internal/domains/comment/handler"
	commentRepo "social-backend/internal/domains/comment/repository"
	commentService "social-backend/internal/domains/comment/service"

	moderationHandler "social-backend/internal/domains/moderation/handler"
	moderationModel "social-backend/internal/domains/moderation/model"
	moderationRepo "social-backend/internal/domains/moderation/repository"
	moderationService "social-backend/internal/domains/moderation/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application, built once at startup.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB    // nil with the memory driver
	Redis       *infraCache.RedisClient // nil with the memory driver
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client // nil with the memory driver

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo       user.Repository
	PostRepo       postRepo.PostRepository
	CommentRepo    commentRepo.CommentRepository
	ModerationRepo moderationRepo.EventRepository

	ModerationPublisher moderationModel.Publisher

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService       user.Service
	PostService       postService.ServiceInterface
	CommentService    commentService.ServiceInterface
	ModerationService moderationService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler       *userHandler.UserHandler
	PostHandler       *postHandler.PostHandler
	CommentHandler    *commentHandler.CommentHandler
	ModerationHandler *moderationHandler.ModerationHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the dependency graph in layer order:
// config, infrastructure, repositories, services, handlers.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Str("storage", cfg.Storage.Driver).Msg("Initializing DI container")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: INFRASTRUCTURE
	// ========================================
	if cfg.UsesMemoryStorage() {
		c.Cache = cache.NewMemoryCache()
	} else if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// ========================================
	// STEP 2: REPOSITORIES
	// ========================================
	c.initRepositories()
	log.Debug().Msg("Repositories initialized")

	// ========================================
	// STEP 3: SERVICES
	// ========================================
	c.initServices()
	log.Debug().Msg("Services initialized")

	// ========================================
	// STEP 4: HANDLERS
	// ========================================
	c.initHandlers()
	log.Debug().Msg("Handlers initialized")

	log.Info().Msg("DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	// Step 1: PostgreSQL
	db := database.NewPostgresDB(cfg.DBConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Step 2: Redis backs the cache (throttle, revocations) and the task queue.
	// Unlike plain caching, revocation checks need it, so a failed ping is fatal.
	rc := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Redis = rc
	c.Cache = infraCache.NewRedisCache(rc.Client, cfg.Redis.KeyPrefix)

	// Step 3: asynq client for moderation events
	c.AsynqClient = asynq.NewClient(RedisClientOpt(cfg))

	return nil
}

func (c *Container) initRepositories() {
	if c.DB == nil {
		c.UserRepo = userRepo.NewMemoryRepository()
		c.PostRepo = postRepo.NewMemoryPostRepository(c.UserRepo)
		c.CommentRepo = commentRepo.NewMemoryCommentRepository(c.UserRepo)
		c.ModerationRepo = moderationRepo.NewMemoryEventRepository()
		return
	}

	pool := c.DB.Pool
	c.UserRepo = userRepo.NewPostgresRepository(pool, c.Cache)
	c.PostRepo = postRepo.NewPostgresPostRepository(pool)
	c.CommentRepo = commentRepo.NewPostgresCommentRepository(pool)
	c.ModerationRepo = moderationRepo.NewPostgresEventRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.UserService = userService.NewUserService(c.UserRepo, c.Cache, c.JWTManager, userService.Options{
		BcryptCost:      cfg.Auth.BcryptCost,
		MaxFailedLogins: cfg.Auth.MaxFailedLogins,
		LockoutWindow:   cfg.Auth.LockoutWindow,
	})

	c.ModerationService = moderationService.NewModerationService(c.ModerationRepo)

	// Without a queue the audit trail is written in-process.
	if c.AsynqClient != nil {
		c.ModerationPublisher = queue.NewModerationPublisher(c.AsynqClient)
	} else {
		c.ModerationPublisher = moderationService.NewDirectPublisher(c.ModerationService)
	}

	// The comment repository doubles as the post service's comment counter.
	c.PostService = postService.NewPostService(c.PostRepo, c.CommentRepo, c.ModerationPublisher)
	c.CommentService = commentService.NewCommentService(c.CommentRepo, c.PostRepo, c.ModerationPublisher)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.PostHandler = postHandler.NewPostHandler(c.PostService)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
	c.ModerationHandler = moderationHandler.NewModerationHandler(c.ModerationService)
}

// ========================================
// HELPER METHODS
// ========================================

// RedisClientOpt builds the asynq connection options shared by the API
// (client) and the worker (server).
func RedisClientOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// HealthCheck pings every backing store in use.
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{"storage": c.Config.Storage.Driver}
	if c.DB != nil {
		status["database"] = healthOf(c.DB.HealthCheck(ctx))
	}
	if c.Redis != nil {
		status["redis"] = healthOf(c.Redis.HealthCheck(ctx))
	}
	return status
}

func healthOf(err error) string {
	if err != nil {
		return "unhealthy"
	}
	return "healthy"
}

// Cleanup releases connections on shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
}
