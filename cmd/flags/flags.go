package flags

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/standalone-apps/build-provisioner/common"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String(LogServiceFlag.Name)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

var ServerAddrFlag = &cli.StringFlag{
	Name:    "server-addr",
	Value:   "https://api.standalone.dev",
	Usage:   "base URL of the provisioning services",
	EnvVars: []string{"PROVISIONER_SERVER_ADDR"},
}

var UsernameFlag = &cli.StringFlag{
	Name:    "username",
	Usage:   "account username for the signing authority login",
	EnvVars: []string{"PROVISIONER_USERNAME"},
}

var PasswordFlag = &cli.StringFlag{
	Name:    "password",
	Usage:   "account password for the signing authority login",
	EnvVars: []string{"PROVISIONER_PASSWORD"},
}

var PlatformFlag = &cli.StringFlag{
	Name:  "platform",
	Value: "ios",
	Usage: "target platform: 'ios' or 'android'",
}

var OverlayFlag = &cli.StringFlag{
	Name:  "config",
	Value: "provisioner.yaml",
	Usage: "path to the optional configuration overlay",
}

var CredstoreFlag = &cli.StringFlag{
	Name:    "credstore",
	Usage:   "credential store location, https://host or vault://host:port/<mount>/<path>; defaults to the server address",
	EnvVars: []string{"PROVISIONER_CREDSTORE"},
}

var ArchiveFlag = &cli.StringFlag{
	Name:  "archive",
	Usage: "local project archive to upload before submitting the build",
}

var S3BucketFlag = &cli.StringFlag{
	Name:    "s3-bucket",
	Usage:   "S3 bucket for archive uploads (required with --archive)",
	EnvVars: []string{"PROVISIONER_S3_BUCKET"},
}

var S3PrefixFlag = &cli.StringFlag{
	Name:    "s3-prefix",
	Value:   "archives",
	Usage:   "key prefix for uploaded archives",
	EnvVars: []string{"PROVISIONER_S3_PREFIX"},
}

var S3RegionFlag = &cli.StringFlag{
	Name:    "s3-region",
	Value:   "us-east-1",
	Usage:   "S3 region for archive uploads",
	EnvVars: []string{"PROVISIONER_S3_REGION"},
}

var S3EndpointFlag = &cli.StringFlag{
	Name:    "s3-endpoint",
	Usage:   "custom endpoint for S3-compatible services",
	EnvVars: []string{"PROVISIONER_S3_ENDPOINT"},
}

var S3AccessKeyFlag = &cli.StringFlag{
	Name:    "s3-access-key",
	Usage:   "access key for archive uploads",
	EnvVars: []string{"AWS_ACCESS_KEY_ID"},
}

var S3SecretKeyFlag = &cli.StringFlag{
	Name:    "s3-secret-key",
	Usage:   "secret key for archive uploads",
	EnvVars: []string{"AWS_SECRET_ACCESS_KEY"},
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: common.PackageName,
	Usage: "add 'service' tag to logs",
}

var CommonFlags = []cli.Flag{
	ServerAddrFlag,
	UsernameFlag,
	PasswordFlag,
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlag,
}
