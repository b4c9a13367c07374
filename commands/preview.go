package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-timesheet/internal/util"
	"github.com/spf13/cobra"
)

var (
	previewAddr  string
	previewWatch bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Serve a PDF preview of the selected month",
	Long: `Renders the PDF in memory and serves it on a local address until interrupted. Only one
preview is live at a time: publishing a new one revokes the previous URL. The server root
always redirects to the live preview.

With --watch the preview is re-rendered whenever another command changes the state file.`,
	Example: `  go-timesheet preview
  go-timesheet preview --addr 127.0.0.1:9000 --watch`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewAddr, "addr", "",
		"Listen address (default: preview.addr from the configuration)")
	previewCmd.Flags().BoolVarP(&previewWatch, "watch", "w", false,
		"Re-render when the state file changes")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ed, err := newEditor()
	if err != nil {
		return err
	}

	addr := previewAddr
	if addr == "" {
		addr = cfg.Preview.Addr
	}

	// Set up signal handling
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url, err := ed.Preview(ctx)
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	server := &http.Server{
		Handler:           ed.Previews(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	out := cmd.OutOrStdout()
	base := "http://" + listener.Addr().String()
	fmt.Fprintf(out, "Preview: %s%s\n", base, url)
	fmt.Fprintf(out, "Latest:  %s/\n", base)
	util.LogInfo("Preview server listening on " + listener.Addr().String())

	if previewWatch {
		go func() {
			err := followState(ctx, ed.Store().Path(), ed.Reload, func() error {
				url, err := ed.Preview(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Preview: %s%s\n", base, url)
				return nil
			})
			if err != nil {
				util.LogError("Preview watch stopped: " + err.Error())
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
