// imgreport fetches one image from Google Drive, archives it to Cloud
// Storage, labels it with Cloud Vision, describes it with Gemini, and
// appends a summary row to a Google Sheet.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
	gvision "google.golang.org/api/vision/v1"

	"github.com/GoCodeAlone/imgreport/config"
	"github.com/GoCodeAlone/imgreport/drive"
	"github.com/GoCodeAlone/imgreport/gcs"
	"github.com/GoCodeAlone/imgreport/genai"
	"github.com/GoCodeAlone/imgreport/pipeline"
	"github.com/GoCodeAlone/imgreport/sheets"
	"github.com/GoCodeAlone/imgreport/vision"
)

const pacingDelay = 2 * time.Second

var scopes = []string{
	gdrive.DriveReadonlyScope,
	storage.ScopeFullControl,
	gvision.CloudVisionScope,
	gsheets.SpreadsheetsScope,
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "\n* ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("c", "", "path to YAML config file")
		imgFile    = flag.String("i", "", "image file name on Drive")
		bucket     = flag.String("b", "", "Cloud Storage bucket name")
		folder     = flag.String("f", "", "Cloud Storage image folder")
		sheetID    = flag.String("s", "", "Sheet (Drive file) ID")
		topLabels  = flag.Int("t", 0, "return top N Vision API labels")
		noBrowser  = flag.Bool("w", false, "do not open browser to Sheet")
		verbose    = flag.Bool("v", false, "verbose display output")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *imgFile != "" {
		cfg.File = *imgFile
	}
	if *bucket != "" {
		cfg.Bucket = *bucket
	}
	if *folder != "" {
		cfg.Folder = *folder
	}
	if *sheetID != "" {
		cfg.SheetID = *sheetID
	}
	if *topLabels > 0 {
		cfg.TopLabels = *topLabels
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if *verbose {
		p.Progress = os.Stdout
		p.PaceDelay = pacingDelay
	}

	fmt.Printf("Processing file '%s'... please wait\n", cfg.File)
	fmt.Println(strings.Repeat("-", 65))

	report, err := p.Run(ctx, pipeline.Request{
		FileName:  cfg.File,
		Bucket:    cfg.Bucket,
		Folder:    cfg.Folder,
		SheetID:   cfg.SheetID,
		TopLabels: cfg.TopLabels,
	})
	if err != nil {
		return fmt.Errorf("could not process '%s': %w", cfg.File, err)
	}

	sheetURL := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", report.SheetID)
	if *noBrowser {
		fmt.Println("\n* DONE")
		fmt.Println(sheetURL)
		return nil
	}
	fmt.Println("\n* DONE: opening web browser to spreadsheet")
	fmt.Println(sheetURL)
	if err := openBrowser(sheetURL); err != nil {
		logger.Warn("Failed to open browser", "error", err)
	}
	return nil
}

// buildPipeline constructs the authenticated service clients and wires
// them into the pipeline. Credentials come from the configured service
// account key, falling back to application default credentials.
func buildPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, cfg.CredentialsFile))
	} else {
		creds, err := google.FindDefaultCredentials(ctx, scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve default credentials: %w", err)
		}
		opts = append(opts, option.WithTokenSource(creds.TokenSource))
	}
	opts = append(opts, option.WithScopes(scopes...))

	driveSvc, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	visionSvc, err := gvision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vision client: %w", err)
	}
	sheetsSvc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets client: %w", err)
	}
	describer, err := genai.NewClient(genai.ClientConfig{
		APIKey: cfg.APIKey,
		Model:  cfg.GenAIModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	files := drive.NewStore(driveSvc)
	return &pipeline.Pipeline{
		Files:     files,
		Objects:   gcs.NewArchive(storageClient),
		Labels:    vision.NewAnnotator(visionSvc),
		Describer: describer,
		Rows:      sheets.NewAppender(sheetsSvc, cfg.SheetRange),
		Geo:       pipeline.NewGeoResolver(files, "", cfg.APIKey),
		Logger:    logger,
	}, nil
}
