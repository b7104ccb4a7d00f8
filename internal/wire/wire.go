package wire

import (
	"Beacon/internal/api"
	"Beacon/internal/api/config"
	"Beacon/internal/api/handler"
	"Beacon/internal/pkg/linkedin"
	"Beacon/internal/repository"
	"Beacon/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	postRepo := repository.NewPostRepository(db)
	metricRepo := repository.NewDailyMetricRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	gateway := linkedin.NewClient(&cfg.LinkedIn)

	ingestService := service.NewIngestService(db)
	publishService := service.NewPublishService(postRepo, tokenRepo, gateway, cfg.Publish)
	postService := service.NewPostService(postRepo, snapshotRepo)
	metricService := service.NewMetricService(postRepo, metricRepo, snapshotRepo)

	handlers := &api.HandlersGroup{
		UploadHandler:  handler.NewUploadHandler(ingestService, cfg.Upload),
		PublishHandler: handler.NewPublishHandler(publishService),
		PostHandler:    handler.NewPostHandler(postService),
		MetricHandler:  handler.NewMetricHandler(metricService),
	}

	router := api.SetupRouter(handlers)

	return &ApplicationContainer{
		Router: router,
		DB:     db,
	}, nil
}
