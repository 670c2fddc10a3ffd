package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/assessor"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/config"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/factory"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/forensics"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/observer"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/service"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/pkg/models"
)

var (
	flagOut         string
	flagAssessorOff bool
	flagWorkers     int
	flagJSON        bool
	flagTimeout     time.Duration
	flagDocName     string
)

func main() {
	root := &cobra.Command{
		Use:   "tamperctl",
		Short: "Document tampering forensics from the command line",
		Long: `tamperctl runs the full tampering pipeline (noise forensics, ELA,
copy-move detection, scan classification, fusion) against local page
images and prints the document report.`,
		SilenceUsage: true,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <page.jpg> [page2.jpg ...]",
		Short: "Analyze one or more page images as a single document",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVarP(&flagOut, "out", "o", "", "directory for diagnostic images (noise maps, ELA, overlays)")
	analyzeCmd.Flags().BoolVar(&flagAssessorOff, "assessor-off", false, "skip the visual assessor even when configured")
	analyzeCmd.Flags().IntVar(&flagWorkers, "workers", 0, "concurrent page analyses (0 = CPU count)")
	analyzeCmd.Flags().BoolVar(&flagJSON, "json", false, "emit the raw response as JSON instead of the report")
	analyzeCmd.Flags().DurationVar(&flagTimeout, "timeout", 5*time.Minute, "overall analysis deadline")
	analyzeCmd.Flags().StringVar(&flagDocName, "name", "", "document name for the report (defaults to first page file)")
	root.AddCommand(analyzeCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// keep the terminal clean; the report is the output
	logrus.SetLevel(logrus.WarnLevel)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.MaxWorkers = flagWorkers
	cfg.ArtifactDir = flagOut

	sink, err := factory.CreateSink(cfg.ArtifactDir)
	if err != nil {
		return fmt.Errorf("create artifact sink: %w", err)
	}
	analyzer := forensics.NewAnalyzer(sink, cfg.MaxWorkers)
	defer analyzer.Close()

	var assessorClient assessor.Client
	if cfg.AssessorConfigured() && !flagAssessorOff {
		assessorClient = assessor.NewClient(
			cfg.AssessorEndpoint, cfg.AssessorDeployment,
			cfg.AssessorAPIVersion, cfg.AssessorAPIKey,
			cfg.AssessorTimeout,
		)
	} else {
		color.Yellow("visual assessor disabled: fusing forensics alone (degraded mode)")
	}

	docService := service.NewDocumentAnalysisService(
		factory.NewStorageFactory(cfg), analyzer, assessorClient,
		observer.NewEventPublisher(), cfg,
	)

	docName := flagDocName
	if docName == "" {
		docName = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
	defer cancel()

	resp, err := docService.AnalyzeDocument(ctx, models.DocumentAnalysisRequest{
		Pages:        args,
		Storage:      string(factory.LocalStorage),
		DocumentName: docName,
		IncludePages: true,
	})
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintln(cmd.OutOrStdout(), models.RenderReport(resp))
	printVerdict(cmd, resp)
	if flagOut != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "diagnostic images written to %s\n", flagOut)
	}
	return nil
}

func printVerdict(cmd *cobra.Command, resp *models.DocumentAnalysisResponse) {
	out := cmd.OutOrStdout()
	banner := color.New(color.FgGreen, color.Bold)
	if resp.Summary.TamperingDetected {
		banner = color.New(color.FgRed, color.Bold)
	}
	banner.Fprintf(out, "%s (risk: %s)\n", resp.Summary.StatusText, resp.Summary.HighestRisk)
}
