package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standalone-apps/build-provisioner/api"
	"github.com/standalone-apps/build-provisioner/artifact"
	"github.com/standalone-apps/build-provisioner/clients"
	"github.com/standalone-apps/build-provisioner/cmd/flags"
	"github.com/standalone-apps/build-provisioner/common"
	"github.com/standalone-apps/build-provisioner/console"
	"github.com/standalone-apps/build-provisioner/credstore"
	"github.com/standalone-apps/build-provisioner/interfaces"
	"github.com/standalone-apps/build-provisioner/orchestrator"
)

func main() {
	app := &cli.App{
		Name:    common.PackageName,
		Usage:   "provision signing credentials and submit standalone app builds",
		Version: common.Version,
		Flags:   flags.CommonFlags,
		Commands: []*cli.Command{
			{
				Name:        "build",
				Usage:       "provision credentials and submit a build",
				Description: "Gathers signing credentials, negotiates device enrollment and submits a build request, reporting the tracking link.",
				Flags: []cli.Flag{
					flags.PlatformFlag,
					flags.OverlayFlag,
					flags.CredstoreFlag,
					flags.ArchiveFlag,
					flags.S3BucketFlag,
					flags.S3PrefixFlag,
					flags.S3RegionFlag,
					flags.S3EndpointFlag,
					flags.S3AccessKeyFlag,
					flags.S3SecretKeyFlag,
				},
				Action: runBuild,
			},
			{
				Name:   "devices",
				Usage:  "list the devices registered to the developer account",
				Action: runDevices,
			},
			{
				Name:   "whoami",
				Usage:  "show the currently authenticated identity",
				Action: runWhoami,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type runtime struct {
	log     *slog.Logger
	term    *console.Console
	auth    *clients.AuthClient
	signer  *clients.SigningAuthorityClient
	builds  *clients.BuildServiceClient
	authOps api.AuthOptions
}

func newRuntime(cCtx *cli.Context) *runtime {
	logger := flags.SetupLogger(cCtx)
	serverAddr := cCtx.String(flags.ServerAddrFlag.Name)

	return &runtime{
		log:    logger,
		term:   console.New(os.Stdout),
		auth:   &clients.AuthClient{ServerAddr: serverAddr},
		signer: &clients.SigningAuthorityClient{ServerAddr: serverAddr},
		builds: &clients.BuildServiceClient{ServerAddr: serverAddr},
		authOps: api.AuthOptions{
			Username: cCtx.String(flags.UsernameFlag.Name),
			Password: cCtx.String(flags.PasswordFlag.Name),
		},
	}
}

func runBuild(cCtx *cli.Context) error {
	rt := newRuntime(cCtx)
	ctx := cCtx.Context

	platform, err := interfaces.NewPlatform(cCtx.String(flags.PlatformFlag.Name))
	if err != nil {
		return err
	}

	storeURI := cCtx.String(flags.CredstoreFlag.Name)
	if storeURI == "" {
		storeURI = cCtx.String(flags.ServerAddrFlag.Name)
	}
	store, err := credstore.FromURI(storeURI, rt.log)
	if err != nil {
		return err
	}

	archiveURL, err := uploadArchive(ctx, cCtx, rt.log)
	if err != nil {
		return err
	}

	o := &orchestrator.Orchestrator{
		Auth:      rt.auth,
		Authority: rt.signer,
		Builds:    rt.builds,
		Store:     store,
		Prompt:    rt.term,
		Report:    rt.term,
		Log:       rt.log,
	}

	_, err = o.Run(ctx, orchestrator.Config{
		Platform:    platform,
		OverlayPath: cCtx.String(flags.OverlayFlag.Name),
		ArchiveURL:  archiveURL,
		Auth:        rt.authOps,
	})
	if interfaces.IsBusinessDenial(err) {
		rt.term.Warn(err.Error())
		return cli.Exit("", 1)
	}
	return err
}

// uploadArchive publishes the local archive when --archive is set and
// returns its public URL.
func uploadArchive(ctx context.Context, cCtx *cli.Context, logger *slog.Logger) (string, error) {
	archivePath := cCtx.String(flags.ArchiveFlag.Name)
	if archivePath == "" {
		return "", nil
	}

	bucket := cCtx.String(flags.S3BucketFlag.Name)
	if bucket == "" {
		return "", errors.New("--s3-bucket is required when uploading an archive")
	}

	uploader, err := artifact.NewUploader(
		bucket,
		cCtx.String(flags.S3PrefixFlag.Name),
		cCtx.String(flags.S3RegionFlag.Name),
		cCtx.String(flags.S3EndpointFlag.Name),
		cCtx.String(flags.S3AccessKeyFlag.Name),
		cCtx.String(flags.S3SecretKeyFlag.Name),
		logger,
	)
	if err != nil {
		return "", err
	}

	logger.Info("Uploading project archive", "path", archivePath)
	return uploader.UploadFile(ctx, archivePath)
}

func runDevices(cCtx *cli.Context) error {
	rt := newRuntime(cCtx)
	ctx := cCtx.Context

	identity, err := currentIdentity(ctx, rt)
	if err != nil {
		return err
	}

	resp, err := rt.auth.Authenticate(ctx, rt.authOps)
	if err != nil {
		return err
	}
	tctx, err := api.DeriveTeamContext(identity, resp)
	if err != nil {
		return err
	}

	devices, err := rt.signer.ListDevices(ctx, tctx)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		rt.term.Info("No devices registered")
		return nil
	}

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{d.Name, d.DeviceNumber})
	}
	rt.term.Table("Registered devices", []string{"Name", "Device Number"}, rows)
	return nil
}

func runWhoami(cCtx *cli.Context) error {
	rt := newRuntime(cCtx)

	identity, err := currentIdentity(cCtx.Context, rt)
	if err != nil {
		return err
	}
	if identity.IsAnonymous() {
		rt.term.Info("Not logged in, acting anonymously")
		return nil
	}
	rt.term.Info(fmt.Sprintf("Logged in as %s <%s>", identity.Username, identity.Email))
	return nil
}

func currentIdentity(ctx context.Context, rt *runtime) (interfaces.Identity, error) {
	user, err := rt.auth.CurrentUser(ctx)
	if err != nil {
		return interfaces.Identity{}, err
	}
	if user == nil {
		return interfaces.Identity{}, nil
	}
	return *user, nil
}
