package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"gopkg.in/natefinch/lumberjack.v2"

	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"stayhaven/cache"
	"stayhaven/config"
	"stayhaven/handlers"
	"stayhaven/pms"
	"stayhaven/routes"
	"stayhaven/services"
	"stayhaven/session"
	"stayhaven/utils"
)

var (
	server      *gin.Engine
	ctx         context.Context
	mongoclient *mongo.Client
	cfg         *config.Config

	propertyCollection *mongo.Collection
	userCollection     *mongo.Collection

	propertyCache *cache.PropertyCache
	sessionStore  session.Store
	pmsClient     *pms.Client

	propertyService services.PropertyService
	pricingService  services.PricingService
	userService     services.UserService

	PropertyRouteHandler routes.PropertyRouteHandler
	SessionRouteHandler  routes.SessionRouteHandler
	ProfileRouteHandler  routes.ProfileRouteHandler
)

func init() {
	ctx = context.TODO()
	cfg = config.LoadConfig()

	//logging
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	lumberjackLog := &lumberjack.Logger{
		Filename:  "logs/logfile.log",
		MaxSize:   1,
		LocalTime: true,
	}
	logger.SetOutput(lumberjackLog)
	logger.WithFields(logrus.Fields{"path": "main"}).Info("Stayhaven starting")
	//logging

	mongoconn := options.Client().ApplyURI(cfg.MongoURI)
	var err error
	mongoclient, err = mongo.Connect(ctx, mongoconn)
	if err != nil {
		panic(err)
	}

	if err := mongoclient.Ping(ctx, readpref.Primary()); err != nil {
		panic(err)
	}

	logger.Info("MongoDB successfully connected...")

	tracerProvider, err := NewTracerProvider(cfg.ServiceName, cfg.JaegerAddress)
	if err != nil {
		logger.Fatalf("JaegerTraceProvider failed to Initialize. Error :%s", err)
	}
	tracer := tracerProvider.Tracer(cfg.ServiceName)

	tokens, err := utils.NewTokenManager(cfg.SecretKey)
	if err != nil {
		logger.Fatalf("Token manager failed to Initialize. Error :%s", err)
	}

	// Collections
	database := mongoclient.Database(cfg.MongoDatabase)
	propertyCollection = database.Collection("properties")
	userCollection = database.Collection("users")

	propertyCache = cache.New(logger)
	propertyCache.Ping()
	sessionStore = session.NewRedisStore(propertyCache.Client(), time.Duration(cfg.SessionTTLMinutes)*time.Minute, logger)

	pmsClient = pms.NewClient(cfg, logger, tracer)

	propertyService = services.NewPropertyServiceImpl(propertyCollection, ctx, tracer)
	pricingService = services.NewPricingServiceImpl(pmsClient, logger, tracer)
	userService = services.NewUserServiceImpl(userCollection, ctx, pmsClient, logger)

	propertyHandler := handlers.NewPropertyHandler(propertyService, propertyCache, logger, tracer)
	pricingHandler := handlers.NewPricingHandler(pricingService, logger, tracer)
	sessionHandler := handlers.NewSessionHandler(sessionStore, logger)
	profileHandler := handlers.NewProfileHandler(userService, logger)
	bookingHandler := handlers.NewBookingHandler(pmsClient, userService, logger, tracer)

	PropertyRouteHandler = routes.NewPropertyRouteHandler(propertyHandler, pricingHandler)
	SessionRouteHandler = routes.NewSessionRouteHandler(sessionHandler)
	ProfileRouteHandler = routes.NewProfileRouteHandler(profileHandler, bookingHandler, tokens)

	server = gin.Default()
}

func main() {
	defer mongoclient.Disconnect(ctx)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{os.Getenv("ALLOWED_ORIGIN")}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")

	server.Use(cors.New(corsConfig))

	router := server.Group("/api")
	router.GET("/healthchecker", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "Message"})
	})

	PropertyRouteHandler.PropertyRoute(router)
	SessionRouteHandler.SessionRoute(router)
	ProfileRouteHandler.ProfileRoute(router)

	err := server.Run(":" + cfg.Port)
	if err != nil {
		fmt.Println(err)
		return
	}
}

func NewTracerProvider(serviceName, collectorEndpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(collectorEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("unable to initialize exporter due: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.DeploymentEnvironmentKey.String("development"),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
