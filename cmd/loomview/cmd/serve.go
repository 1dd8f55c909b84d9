// seehuhn.de/go/loom - a hand-loom weaving preview
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"seehuhn.de/go/loom/internal/server"
)

var (
	serveAddr       string
	serveBodyLimit  string
	serveRequestLog bool
	serveMaxDrafts  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the preview API over HTTP",
	Long: `Start an HTTP server for editing drafts and rendering previews.

Examples:
  loomview serve
  loomview serve --addr 127.0.0.1:9000 --request-log`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	f := serveCmd.Flags()
	f.StringVar(&serveAddr, "addr", ":8080", "listen address")
	f.StringVar(&serveBodyLimit, "body-limit", server.DefaultBodyLimit, "largest accepted request body")
	f.BoolVar(&serveRequestLog, "request-log", false, "log every request")
	f.IntVar(&serveMaxDrafts, "max-drafts", server.DefaultMaxDrafts, "number of drafts kept in memory")
}

func runServe(cmd *cobra.Command, args []string) error {
	e := server.New(server.Config{
		Version:    Version,
		MaxDrafts:  serveMaxDrafts,
		BodyLimit:  serveBodyLimit,
		RequestLog: serveRequestLog,
		Logger:     slog.Default(),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", serveAddr)
		errc <- e.Start(serveAddr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
