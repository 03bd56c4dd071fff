package main

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nellio/gorecipes"
	"github.com/nellio/gorecipes/auth"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := gorecipes.LoadConfig()
	if cfg.Dev {
		log, _ = zap.NewDevelopment()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to mongo", zap.Error(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("failed to ping mongo", zap.Error(err))
	}

	db := client.Database(cfg.Database)
	users := db.Collection("users")
	recipes := db.Collection("recipes")
	if err := gorecipes.EnsureIndexes(ctx, users, recipes); err != nil {
		log.Fatal("failed to create indexes", zap.Error(err))
	}

	keys, err := loadKeys(cfg, log)
	if err != nil {
		log.Fatal("failed to load signing keys", zap.Error(err))
	}

	revoked := auth.NewMemoryRevocationList()
	if cfg.RedisAddr != "" {
		// Redis is the source of truth; the in-process list is a fast path.
		revoked = auth.NewLayeredRevocationList(revoked, auth.NewRedisRevocationList(cfg.RedisAddr, cfg.RedisDB))
	}

	userSvc := gorecipes.NewUserService(gorecipes.NewMongoUserRepository(users), log)
	creds := auth.NewService(userSvc, keys, cfg.TokenTTL, revoked, log)
	dispatcher := gorecipes.NewDispatcher(log)
	recipeSvc := gorecipes.NewRecipeService(gorecipes.NewMongoRecipeRepository(recipes), dispatcher, log)

	ew := &gorecipes.ErrorWriter{Log: log, Dev: cfg.Dev}
	router := gorecipes.NewRouter(userSvc, recipeSvc, creds, ew)

	log.Info("server started", zap.String("addr", cfg.Addr))
	log.Fatal("server stopped", zap.Error(http.ListenAndServe(cfg.Addr, router)))
}

func loadKeys(cfg *gorecipes.Config, log *zap.Logger) (*auth.KeyPair, error) {
	if cfg.PrivateKeyPEM == "" && cfg.PublicKeyPEM == "" {
		log.Warn("no signing keys configured, generating a dev key pair; tokens will not survive restarts")
		return auth.NewDevKeyPair()
	}
	return auth.LoadKeyPair([]byte(cfg.PrivateKeyPEM), []byte(cfg.PublicKeyPEM))
}
