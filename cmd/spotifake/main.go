package main

import (
	"context"
	"io"
	"log"
	nethttp "net/http"
	"os"
	"syscall"
	"time"

	"cloud.google.com/go/compute/metadata"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/twitsprout/tools"
	"github.com/twitsprout/tools/clock"
	httputils "github.com/twitsprout/tools/http"
	"github.com/twitsprout/tools/lifecycle"
	tpg "github.com/twitsprout/tools/postgres"
	"github.com/twitsprout/tools/zap"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"spotifake/internal/http"
	"spotifake/internal/media"
	"spotifake/internal/postgres"
)

var version string

type variables struct {
	Addr         string `required:"true" envconfig:"addr"`
	PostgresHost string `required:"true" envconfig:"postgres_host"`
	PostgresPort int    `required:"false" envconfig:"postgres_port" default:"5432"`
	PostgresDB   string `required:"true" envconfig:"postgres_db"`
	PostgresUser string `required:"true" envconfig:"postgres_user"`
	PostgresPass string `required:"true" envconfig:"postgres_pass"`
	PostgresSSL  bool   `required:"false" envconfig:"postgres_ssl"`
	LogLevel     string `required:"false" envconfig:"log_level" default:"info"`
	LogFile      string `required:"false" envconfig:"log_file"`
	AppName      string `required:"true" envconfig:"app_name"`
	Migrations   string `required:"false" envconfig:"migrations"`

	MediaBackend string `required:"false" envconfig:"media_backend" default:"fs"`
	MediaDir     string `required:"false" envconfig:"media_dir" default:"media"`
	MediaBaseURL string `required:"false" envconfig:"media_base_url"`
	S3Endpoint   string `required:"false" envconfig:"s3_endpoint"`
	S3AccessKey  string `required:"false" envconfig:"s3_access_key"`
	S3SecretKey  string `required:"false" envconfig:"s3_secret_key"`
	S3Bucket     string `required:"false" envconfig:"s3_bucket"`
	S3UseSSL     bool   `required:"false" envconfig:"s3_use_ssl"`

	MaxBodyBytes int     `required:"false" envconfig:"max_body_bytes" default:"67108864"`
	AuthRate     float64 `required:"false" envconfig:"auth_rate" default:"1"`
	AuthBurst    int     `required:"false" envconfig:"auth_burst" default:"5"`
}

var v variables

func init() {
	// A missing .env file is fine; the environment is used as is.
	_ = godotenv.Load()

	if metadata.OnGCE() {
		port := os.Getenv("PORT")
		err := os.Setenv("SPOTIFAKE_ADDR", ":"+port)
		if err != nil {
			log.Fatal(err)
		}
	}

	envconfig.MustProcess("spotifake", &v)
}

func main() {
	var out io.Writer = os.Stdout
	if v.LogFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   v.LogFile,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	}
	logger := zap.New("spotifake", version, out)
	if err := logger.SetLevel(v.LogLevel); err != nil {
		logger.Error("failed to set log level", "error", err.Error())
	}

	pgConfig := postgresConfig(v)
	if v.Migrations != "" {
		if err := postgres.Migrate(pgConfig, v.Migrations); err != nil {
			logger.Error("failed to migrate database", "error", err.Error())
			os.Exit(1)
		}
	}

	pg := newPostgres(pgConfig, logger)
	defer pg.Close()

	ctx := context.Background()
	if err := pg.Ping(ctx); err != nil {
		logger.Error("failed to reach database", "error", err.Error())
		os.Exit(1)
	}

	store, mediaHandler, err := newMediaStore(ctx, v)
	if err != nil {
		logger.Error("failed to set up media storage", "error", err.Error())
		os.Exit(1)
	}
	if mediaHandler == nil && v.MediaBaseURL == "" {
		logger.Warn("media are not served by this process and no media base url is set",
			"backend", v.MediaBackend,
		)
	}

	lc, ctx := lifecycle.New(ctx, logger)
	lc.Start("spotifake root context", func() error {
		<-ctx.Done()
		return ctx.Err()
	})

	h := http.Handler{
		AppName:      v.AppName,
		Version:      version,
		Logger:       logger,
		Clock:        &clock.Default{},
		ArtistStore:  pg,
		AlbumStore:   pg,
		TrackStore:   pg,
		UserStore:    pg,
		Media:        store,
		MediaHandler: mediaHandler,
		MediaBaseURL: v.MediaBaseURL,
		MaxBodyBytes: v.MaxBodyBytes,
		AuthLimiter:  http.NewRateLimiter(rate.Limit(v.AuthRate), v.AuthBurst),
	}
	server := httputils.NewServer(v.Addr, h.Handler(), httputils.WithReadTimeout(2*time.Minute))
	lc.StartServer(server)
	lc.StartSignals(syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	_ = lc.Wait(15 * time.Second)
}

func postgresConfig(v variables) postgres.Config {
	return postgres.Config{
		Host:       v.PostgresHost,
		Port:       v.PostgresPort,
		Name:       v.PostgresDB,
		Password:   v.PostgresPass,
		Username:   v.PostgresUser,
		DisableSSL: !v.PostgresSSL,
	}
}

func newPostgres(c postgres.Config, logger tools.Logger) *postgres.Postgres {
	pg, err := postgres.New(c, tpg.WithOnComplete(func(ctx context.Context, label string, start time.Time, err error) error {
		logger.Debug("postgres call complete",
			"label", label,
			"duration", time.Since(start),
		)
		return err
	}))
	if err != nil {
		panic(err)
	}
	return pg
}

// newMediaStore returns the configured blob store and, for the filesystem
// backend, the handler serving it.
func newMediaStore(ctx context.Context, v variables) (media.Store, nethttp.Handler, error) {
	switch v.MediaBackend {
	case "s3":
		s, err := media.NewS3Store(ctx, media.S3Config{
			Endpoint:  v.S3Endpoint,
			AccessKey: v.S3AccessKey,
			SecretKey: v.S3SecretKey,
			Bucket:    v.S3Bucket,
			UseSSL:    v.S3UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	default:
		s, err := media.NewFSStore(v.MediaDir)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Handler(), nil
	}
}
