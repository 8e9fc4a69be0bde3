package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/taxclause/internal/connectors/filesystem"
)

var ingestID string

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>",
	Short: "Index contract files from disk",
	Long: `Indexes a single file or every supported file directly inside a
directory. Supported formats: plain text (.txt, .text, .md), HTML (.html,
.htm) and Word (.docx). Each file is indexed under its name without the
extension unless --id is given for a single file.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Index contract files as they change in a directory",
	Long: `Indexes every supported file in the directory, then re-indexes files
as they are created or modified until interrupted. Deleting a file keeps
its last indexed text. Without an argument the watch.dir setting is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "contract id for a single file")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(watchCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ingest, err := ingestService()
	if err != nil {
		return err
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	var ids []string
	if info.IsDir() {
		if ingestID != "" {
			return errors.New("--id cannot be used with a directory")
		}
		ids, err = ingest.IngestDir(cmd.Context(), path)
	} else {
		var id string
		id, err = ingest.IngestFile(cmd.Context(), path, ingestID)
		if id != "" {
			ids = append(ids, id)
		}
	}
	if ids == nil {
		ids = []string{}
	}

	// Report what was indexed even when a later file failed.
	if renderErr := render(cmd.OutOrStdout(), map[string][]string{"indexed": ids}, func(p *palette) {
		for _, id := range ids {
			p.printf("Indexed %q\n", id)
		}
		if len(ids) == 0 && err == nil {
			p.printf("No supported files found in %s\n", path)
		}
	}); renderErr != nil {
		return renderErr
	}
	return err
}

func runWatch(cmd *cobra.Command, args []string) error {
	ingest, err := ingestService()
	if err != nil {
		return err
	}

	dir, err := watchDir(args)
	if err != nil {
		return err
	}

	w := filesystem.NewWatcher(dir, ingest)
	w.OnResult(printWatchResult(cmd))

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.Dir())
	return w.Run(cmd.Context())
}

func watchDir(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if settings, err := settingsService(); err == nil {
		s, err := settings.Get()
		if err != nil {
			return "", fmt.Errorf("reading settings: %w", err)
		}
		if s.Watch.Dir != "" {
			return s.Watch.Dir, nil
		}
	}
	return "", errors.New("no directory given and watch.dir is not configured")
}

func printWatchResult(cmd *cobra.Command) func(filesystem.Result) {
	return func(r filesystem.Result) {
		switch {
		case r.Err != nil:
			cmd.PrintErrf("error: %s: %v\n", r.Change.Path, r.Err)
		case r.Change.Type == filesystem.ChangeDeleted:
			cmd.Printf("%s deleted (contract kept)\n", r.Change.Path)
		default:
			cmd.Printf("%s %q from %s\n", r.Change.Type, r.ContractID, r.Change.Path)
		}
	}
}
