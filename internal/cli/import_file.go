package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kkpan11/logseq/internal/adapters"
	"github.com/kkpan11/logseq/internal/audit"
	"github.com/kkpan11/logseq/internal/config"
	"github.com/kkpan11/logseq/internal/database"
	"github.com/kkpan11/logseq/internal/database/imports"
	"github.com/kkpan11/logseq/internal/importer"
	"github.com/kkpan11/logseq/internal/notify"
)

// ImportFileCommand runs one import from a file and exits. A CLI host has no
// event loop to keep responsive, so the pipeline yields without pausing.
type ImportFileCommand struct {
	flags  *flag.FlagSet
	format string
	path   string
	dbPath string
}

func NewImportFileCommand() *ImportFileCommand {
	cmd := &ImportFileCommand{
		flags: flag.NewFlagSet("import-file", flag.ContinueOnError),
	}
	cmd.flags.StringVar(&cmd.format, "format", "", "import format: edn, json or opml (required)")
	cmd.flags.StringVar(&cmd.path, "path", "", "path to the export file (required)")
	cmd.flags.StringVar(&cmd.dbPath, "db", config.DefaultDatabasePath, "path to the graph database")
	return cmd
}

func (cmd *ImportFileCommand) ParseFlags(args []string) error {
	if err := cmd.flags.Parse(args); err != nil {
		return err
	}
	if cmd.format == "" || cmd.path == "" {
		return fmt.Errorf("both -format and -path are required")
	}
	return nil
}

func (cmd *ImportFileCommand) Run() error {
	payload, err := os.ReadFile(cmd.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.path, err)
	}

	db, err := database.NewDatabase(cmd.dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	runs := imports.NewRepository(db.DB)
	notifier := notify.LogNotifier{}
	auditor := audit.NewAuditor("./audit")

	materializer := importer.NewMaterializer(db, notifier)
	resolver := importer.NewResolver(db, notifier)
	scheduler := importer.NewScheduler(materializer, resolver, importer.NoopYield, runs)
	pipeline := importer.NewPipeline(importer.NewPreRegistrar(db), scheduler, auditor, notifier)

	report, err := pipeline.Import(context.Background(), payload, adapters.Format(cmd.format), func(pageNames []string) {
		for _, name := range pageNames {
			log.Printf("Imported page: %s", name)
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d/%d pages (%d failed)\n", report.Succeeded(), report.Total, report.Failed())
	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Printf("  failed: %s: %v\n", res.Title, res.Err)
		}
	}
	return nil
}
