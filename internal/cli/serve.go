package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/storyreel/internal/engine"
	"github.com/ivlev/storyreel/internal/render"
	"github.com/ivlev/storyreel/internal/system"
	"github.com/ivlev/storyreel/internal/web"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the story and serve the viewer",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides addr, PORT and STORYREEL_ADDR)")
	cmd.Flags().String("public-url", "", "URL encoded in the outro share code")
	cmd.Flags().Bool("probe-videos", false, "Read real video lengths with ffprobe")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	if limit := system.InitResourceLimits(web.OpenFileBudget()); limit > 0 && limit < web.OpenFileBudget() {
		log.Printf("[!] Open file limit %d is below the %d needed for %d viewers", limit, web.OpenFileBudget(), web.MaxSessions)
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if url, _ := cmd.Flags().GetString("public-url"); url != "" {
		cfg.PublicURL = url
	}
	if probe, _ := cmd.Flags().GetBool("probe-videos"); probe {
		cfg.ProbeVideos = true
	}

	st, _, buildErr := engine.NewProject(cfg).Run(cmd.Context())
	if buildErr != nil {
		log.Printf("[!] Story not built, serving the no-content page: %v", buildErr)
	}

	reg, err := render.NewRegistry(render.Options{ShareURL: cfg.PublicURL})
	if err != nil {
		exitErr("renderer", err)
	}
	handler := web.NewServer(cfg, st, buildErr, reg)
	defer handler.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("[*] Listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-done
	log.Println("[*] Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[!] Graceful shutdown failed: %v", err)
		_ = srv.Close()
	}
	log.Println("[*] Server stopped")
}
