package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridermall/riderbot/config"
	"github.com/ridermall/riderbot/dialogx"
	"github.com/ridermall/riderbot/logx"
	"github.com/ridermall/riderbot/mediax"
	"github.com/ridermall/riderbot/msgx/providers/msgxwhatsapp"
	"github.com/ridermall/riderbot/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook and admin server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			store, closeStore, err := openStore(ctx, cfg)
			cancel()
			if err != nil {
				return err
			}
			defer closeStore()

			waCfg := msgxwhatsapp.Config{
				AccessToken:   cfg.WhatsAppAccessToken,
				PhoneNumberID: cfg.WhatsAppPhoneNumberID,
				AppSecret:     cfg.WhatsAppAppSecret,
				VerifyToken:   cfg.WhatsAppVerifyToken,
			}
			if err := waCfg.Validate(); err != nil {
				return err
			}
			provider := msgxwhatsapp.New(waCfg)

			var resolver mediax.Resolver = provider
			if cfg.ArchiveEnabled() {
				archive, err := mediax.NewS3Archive(cmd.Context(), provider, mediax.S3Config{
					Bucket: cfg.S3Bucket,
					Prefix: cfg.S3Prefix,
					Region: cfg.S3Region,
				})
				if err != nil {
					return err
				}
				resolver = archive
				logx.Info("media archive enabled on s3://%s/%s", cfg.S3Bucket, cfg.S3Prefix)
			}

			engine := dialogx.NewEngine(
				dialogx.NewMemoryStore(),
				server.NewMessageSender(provider),
				store,
				cfg.Pricing,
			)
			dispatcher := dialogx.NewDispatcher(engine, cfg.DispatchTimeout)

			srv := server.New(server.Options{
				Provider:   provider,
				Dispatcher: dispatcher,
				Store:      store,
				Resolver:   resolver,
				AdminUser:  cfg.AdminUser,
				AdminPass:  cfg.AdminPass,
				JWTSecret:  cfg.JWTSecret,
				JWTTTL:     int64(cfg.JWTTTL.Seconds()),
			})

			errCh := make(chan error, 1)
			go func() {
				logx.Info("riderbot listening on %s (store driver %s)", cfg.ListenAddr, cfg.StoreDriver)
				errCh <- srv.Listen(cfg.ListenAddr)
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				logx.Info("received %s, shutting down", sig)
			}

			if err := srv.Shutdown(); err != nil {
				logx.Error("server shutdown: %v", err)
			}

			// Let in-flight conversations finish before the store closes
			drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := dispatcher.Drain(drainCtx); err != nil {
				logx.Warn("dispatcher drain incomplete: %v", err)
			}

			return nil
		},
	}
}
