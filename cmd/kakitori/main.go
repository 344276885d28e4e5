// Package main provides the CLI entrypoint for kakitori.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/knagaya/kakitori/internal/config"
	"github.com/knagaya/kakitori/internal/dataset"
	"github.com/knagaya/kakitori/internal/kanjivg"
	"github.com/knagaya/kakitori/internal/model"
	"github.com/knagaya/kakitori/internal/recognizer"
	"github.com/knagaya/kakitori/internal/stats"
	"github.com/knagaya/kakitori/internal/statsui"
	"github.com/knagaya/kakitori/internal/store"
	"github.com/knagaya/kakitori/internal/tracker"
	"github.com/knagaya/kakitori/internal/tui"
)

const defaultWeakQueue = 10

var (
	practiceHitRatio       float64
	practiceCorridorWidth  float64
	practiceCheckDirection bool
	practiceStrictOrder    bool
	practiceAutoAdvance    bool
	practiceDueMode        int
	practiceOCRURL         string
	practiceCapture        bool
	practiceDatasetDir     string

	statsPlain bool

	recognizeURL string

	resetAll bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kakitori [characters...]",
		Short:         "TUI kanji stroke practice",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ArbitraryArgs,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().Float64Var(&practiceHitRatio, "hit-ratio", model.DefaultHitRatio, "minimum in-corridor fraction to accept a stroke (0-1)")
	rootCmd.Flags().Float64Var(&practiceCorridorWidth, "corridor-width", model.DefaultCorridorWidth, "corridor width in canvas pixels")
	rootCmd.Flags().BoolVar(&practiceCheckDirection, "check-direction", true, "reject strokes drawn in the wrong direction")
	rootCmd.Flags().BoolVar(&practiceStrictOrder, "strict-order", true, "require canonical stroke order")
	rootCmd.Flags().BoolVar(&practiceAutoAdvance, "auto-advance", false, "move to the next character after completion")
	rootCmd.Flags().IntVar(&practiceDueMode, "due-mode", model.DefaultDueMode, "visibility mode for due cards (1-3)")
	rootCmd.Flags().StringVar(&practiceOCRURL, "ocr-url", "", "OCR server URL (default: "+recognizer.DefaultServerURL+")")
	rootCmd.Flags().BoolVar(&practiceCapture, "capture", false, "save accepted drawings as handwriting samples")
	rootCmd.Flags().StringVar(&practiceDatasetDir, "dataset-dir", "", "directory for handwriting samples")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newRecognizeCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newSamplesCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "hit-ratio", &practiceHitRatio, fileCfg.Practice.HitRatio)
	applyFloatConfig(cmd, "corridor-width", &practiceCorridorWidth, fileCfg.Practice.CorridorWidth)
	applyBoolConfig(cmd, "check-direction", &practiceCheckDirection, fileCfg.Practice.CheckDirection)
	applyBoolConfig(cmd, "strict-order", &practiceStrictOrder, fileCfg.Practice.StrictOrder)
	applyBoolConfig(cmd, "auto-advance", &practiceAutoAdvance, fileCfg.Practice.AutoAdvance)
	applyIntConfig(cmd, "due-mode", &practiceDueMode, fileCfg.Practice.DueMode)
	applyStringConfig(cmd, "ocr-url", &practiceOCRURL, fileCfg.OCR.URL)
	applyBoolConfig(cmd, "capture", &practiceCapture, fileCfg.Dataset.Capture)
	applyStringConfig(cmd, "dataset-dir", &practiceDatasetDir, fileCfg.Dataset.Dir)

	cfg := model.Config{
		HitRatio:       practiceHitRatio,
		CorridorWidth:  practiceCorridorWidth,
		CheckDirection: practiceCheckDirection,
		StrictOrder:    practiceStrictOrder,
		AutoAdvance:    practiceAutoAdvance,
		DueMode:        practiceDueMode,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	tr, err := tracker.New(st)
	if err != nil {
		logErrf("%v; starting with empty stats\n", err)
	}

	glyphs := glyphsFromArgs(args)
	if len(glyphs) == 0 {
		glyphs = stats.SelectWeak(tr.Records(), defaultWeakQueue)
	}
	if len(glyphs) == 0 {
		return fmt.Errorf("no characters to practice; pass them as arguments, e.g. kakitori 本日")
	}

	loader, err := kanjivg.NewLoader(config.DefaultStrokeCachePath(), kanjivg.NewFetcher())
	if err != nil {
		return fmt.Errorf("failed to open stroke cache: %w", err)
	}

	var samples *dataset.Writer
	if practiceCapture {
		dir := practiceDatasetDir
		if dir == "" {
			dir = config.DefaultDatasetDir()
		}
		samples = dataset.NewWriter(dir)
	}

	ocr := recognizer.NewClient(practiceOCRURL)
	if !ocr.Healthy(context.Background()) {
		logErrln("OCR server not reachable; recognition disabled")
		ocr = nil
	}

	ui := tui.NewModel(tui.Options{
		Config:  cfg,
		Tracker: tr,
		Source:  loader,
		Glyphs:  glyphs,
		Samples: samples,
		OCR:     ocr,
	})
	program := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <characters...>",
		Short: "Download and cache stroke data",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFetchCmd,
	}
}

func runFetchCmd(cmd *cobra.Command, args []string) error {
	loader, err := kanjivg.NewLoader(config.DefaultStrokeCachePath(), kanjivg.NewFetcher())
	if err != nil {
		return fmt.Errorf("failed to open stroke cache: %w", err)
	}
	glyphs := glyphsFromArgs(args)
	if len(glyphs) == 0 {
		return fmt.Errorf("no characters given")
	}
	ctx := context.Background()
	for _, glyph := range glyphs {
		if loader.Cached(glyph) {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s cached\n", glyph); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			continue
		}
		ch, err := loader.Load(ctx, glyph)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", glyph, err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s fetched (%d strokes)\n", glyph, len(ch.Strokes)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain-text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(context.Background(), st)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		return report.Render(cmd.OutOrStdout())
	}

	ui := statsui.NewModel(st)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newRecognizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recognize <image.png>",
		Short: "Recognize a drawing via the OCR server",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecognizeCmd,
	}
	cmd.Flags().StringVar(&recognizeURL, "url", "", "OCR server URL (default: "+recognizer.DefaultServerURL+")")
	return cmd
}

func runRecognizeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "url", &recognizeURL, fileCfg.OCR.URL)

	png, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	client := recognizer.NewClient(recognizeURL)
	text, err := client.Recognize(context.Background(), png)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset [characters...]",
		Short: "Reset per-character stats",
		Args:  cobra.ArbitraryArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetAll, "all", false, "reset stats for every character")
	return cmd
}

func runResetCmd(cmd *cobra.Command, args []string) error {
	glyphs := glyphsFromArgs(args)
	if !resetAll && len(glyphs) == 0 {
		return fmt.Errorf("pass characters to reset, or use --all")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	if resetAll {
		records, err := st.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}
		glyphs = glyphs[:0]
		for glyph := range records {
			glyphs = append(glyphs, glyph)
		}
	}
	for _, glyph := range glyphs {
		if err := st.Delete(ctx, glyph); err != nil {
			return fmt.Errorf("failed to reset %s: %w", glyph, err)
		}
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Reset %d character(s)\n", len(glyphs)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "samples <characters...>",
		Short: "Count captured handwriting samples",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSamplesCmd,
	}
}

func runSamplesCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dir := config.DefaultDatasetDir()
	if fileCfg.Dataset.Dir != nil && *fileCfg.Dataset.Dir != "" {
		dir = *fileCfg.Dataset.Dir
	}
	writer := dataset.NewWriter(dir)
	for _, glyph := range glyphsFromArgs(args) {
		count, err := writer.Count(glyph)
		if err != nil {
			return fmt.Errorf("failed to count samples for %s: %w", glyph, err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", glyph, count); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// glyphsFromArgs splits arguments into single characters, preserving order
// and dropping duplicates.
func glyphsFromArgs(args []string) []string {
	seen := map[string]struct{}{}
	var glyphs []string
	for _, arg := range args {
		for _, r := range arg {
			glyph := string(r)
			if _, ok := seen[glyph]; ok {
				continue
			}
			seen[glyph] = struct{}{}
			glyphs = append(glyphs, glyph)
		}
	}
	return glyphs
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# kakitori configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# hit-ratio = %.2f        # Minimum in-corridor fraction to accept a stroke (0-1)
# corridor-width = %.1f   # Corridor width in canvas pixels
# check-direction = true  # Reject strokes drawn in the wrong direction
# strict-order = true     # Require canonical stroke order
# auto-advance = false    # Move to the next character after completion
# due-mode = %d            # Visibility mode for due cards (1-3)

[ocr]
# url = %q

[dataset]
# capture = false         # Save accepted drawings as handwriting samples
# dir = ""                # Directory for samples (default: XDG data dir)
`,
		model.DefaultHitRatio,
		model.DefaultCorridorWidth,
		model.DefaultDueMode,
		recognizer.DefaultServerURL,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.HitRatio < 0 || cfg.HitRatio > 1 {
		return fmt.Errorf("--hit-ratio must be between 0 and 1")
	}
	if cfg.CorridorWidth <= 0 {
		return fmt.Errorf("--corridor-width must be > 0")
	}
	if cfg.DueMode < 1 || cfg.DueMode > 3 {
		return fmt.Errorf("--due-mode must be 1, 2, or 3")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
