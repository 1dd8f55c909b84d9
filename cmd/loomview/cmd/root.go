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
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"seehuhn.de/go/loom"
	"seehuhn.de/go/loom/notation"
	"seehuhn.de/go/loom/store"
	"seehuhn.de/go/loom/weave"
)

// Version is reported by --version and by the server health check.
const Version = "0.3.0"

var (
	// Global flags
	verbose bool

	// Draft overrides, shared by the commands which read a draft
	threadingText string
	dentingText   string
)

var rootCmd = &cobra.Command{
	Use:   "loomview",
	Short: "Hand-loom weaving preview",
	Long: `Render previews of hand-woven fabric from loom drafts.

Drafts are read from YAML, JSON or MessagePack files; the format is
chosen by the file extension.

Examples:
  loomview render twill.yaml twill.png --zoom 6
  loomview render twill.yaml detail.png --quality fine --scale show
  loomview density twill.yaml
  loomview chart twill.yaml twill.pdf
  loomview serve --addr :8080`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
		l := slog.New(h)
		slog.SetDefault(l)
		loom.SetLogger(l)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "loomview:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// addDraftFlags registers the flags which override parts of a loaded
// draft.
func addDraftFlags(c *cobra.Command) {
	c.Flags().StringVar(&threadingText, "threading", "",
		`threading sequence, for example "1 2 3 4 (3 2)x2"; selects the direct chain`)
	c.Flags().StringVar(&dentingText, "denting", "",
		`denting plan, for example "[1 2] [3 4]x2"`)
}

// loadDocument reads a draft file and applies the override flags.
func loadDocument(fname string) (*loom.Document, error) {
	s, err := store.Load(fname)
	if err != nil {
		return nil, err
	}
	doc := loom.FromSnapshot(s)

	if threadingText != "" {
		seq, err := notation.ParseSequence(threadingText)
		if err != nil {
			return nil, fmt.Errorf("--threading: %w", err)
		}
		doc.Draft.Threading = seq
		doc.Draft.Loom.Chain = weave.ChainDirect
	}
	if dentingText != "" {
		groups, err := notation.ParseDenting(dentingText)
		if err != nil {
			return nil, fmt.Errorf("--denting: %w", err)
		}
		doc.Draft.Denting = groups
	}
	return doc, nil
}
