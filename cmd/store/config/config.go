package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/BYJDG/byjudge-main1/internal/store"
	"github.com/BYJDG/byjudge-main1/internal/store/data/database"
	"github.com/BYJDG/byjudge-main1/internal/store/notifier"
	"github.com/BYJDG/byjudge-main1/internal/store/reconciler"
)

const (
	serverAddressFlag         = "a"
	serverAddressEnv          = "RUN_ADDRESS"
	serverAddressDefault      = "localhost:8080"
	dbConnectionStringFlag    = "d"
	dbConnectionStringEnv     = "DATABASE_URI"
	dbConnectionStringDefault = ""
	uploadsDirFlag            = "u"
	uploadsDirEnv             = "UPLOADS_DIR"
	uploadsDirDefault         = "uploads/receipts"
	webhookURLFlag            = "w"
	webhookURLEnv             = "ADMIN_WEBHOOK_URL"
	webhookURLDefault         = ""
	jwtSecretEnv              = "JWT_SECRET"
	jwtSecretDefault          = "secret"
	maxUploadSizeEnv          = "MAX_UPLOAD_SIZE"
	maxUploadSizeDefault      = 5 << 20
)

type Config struct {
	Server          store.Config
	JWTConfig       JWTConfig
	DB              database.Config
	Blobs           BlobConfig
	Notifier        notifier.Config
	Reconciler      reconciler.Config
	ShutdownTimeout time.Duration
}

type JWTConfig struct {
	Algorithm      string
	Secret         string
	ExpirationTime time.Duration
}

type BlobConfig struct {
	Dir string
}

func Load() (*Config, error) {
	serverAddress := flag.String(
		serverAddressFlag,
		serverAddressDefault,
		"Server address host:port",
	)

	dbConnectionString := flag.String(
		dbConnectionStringFlag,
		dbConnectionStringDefault,
		"PostgreSQL connection string",
	)

	uploadsDir := flag.String(
		uploadsDirFlag,
		uploadsDirDefault,
		"Directory for uploaded receipt images",
	)

	webhookURL := flag.String(
		webhookURLFlag,
		webhookURLDefault,
		"Admin webhook URL for receipt events",
	)

	flag.Parse()

	if valStr, ok := os.LookupEnv(serverAddressEnv); ok {
		*serverAddress = valStr
	}

	if valStr, ok := os.LookupEnv(dbConnectionStringEnv); ok {
		*dbConnectionString = valStr
	}

	if valStr, ok := os.LookupEnv(uploadsDirEnv); ok {
		*uploadsDir = valStr
	}

	if valStr, ok := os.LookupEnv(webhookURLEnv); ok {
		*webhookURL = valStr
	}

	jwtSecret := jwtSecretDefault
	if valStr, ok := os.LookupEnv(jwtSecretEnv); ok {
		jwtSecret = valStr
	}

	maxUploadSize := int64(maxUploadSizeDefault)
	if valStr, ok := os.LookupEnv(maxUploadSizeEnv); ok {
		parsed, err := strconv.ParseInt(valStr, 10, 64)
		if err == nil && parsed > 0 {
			maxUploadSize = parsed
		}
	}

	return &Config{
		Server: store.Config{
			ServerAddress:   *serverAddress,
			ShutdownTimeout: time.Second * 5,
			MaxUploadSize:   maxUploadSize,
		},
		JWTConfig: JWTConfig{
			Algorithm:      "HS256",
			Secret:         jwtSecret,
			ExpirationTime: time.Hour * 24,
		},
		DB: database.Config{
			ConnectionString: *dbConnectionString,
		},
		Blobs: BlobConfig{
			Dir: *uploadsDir,
		},
		Notifier: notifier.Config{
			WebhookURL: *webhookURL,
			Timeout:    time.Second * 10,
		},
		Reconciler: reconciler.Config{
			TickPeriod:        time.Minute,
			WorkersCount:      2,
			TasksBufferLength: 16,
		},
		ShutdownTimeout: time.Second * 5,
	}, nil
}
