package app

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tallysheet/tallysheet"
	"github.com/tallysheet/tallysheet/internal/cmd/table"
	"github.com/tallysheet/tallysheet/pkg/contests"
	"github.com/tallysheet/tallysheet/pkg/extract"
	"github.com/tallysheet/tallysheet/pkg/mapping"
	"github.com/tallysheet/tallysheet/pkg/validate"
)

// Default file names inside a contest directory.
const (
	totalsFileName = "totals.yaml"
	linesFileName  = "lines.txt"
)

// newProcessCommand creates the process command: the full pipeline.
func (a *App) newProcessCommand() *cobra.Command {
	var totalsPath, linesPath, batchDir string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run the full extract/map/validate/reconcile pipeline",
		Long: `Process reconciles one contest (--totals and --lines) or a batch
directory (--batch) where every subdirectory holding totals.yaml and lines.txt
is one contest. Batch contests are processed in parallel.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.Session()
			if err != nil {
				return err
			}

			list, err := loadContests(totalsPath, linesPath, batchDir)
			if err != nil {
				return err
			}

			results := session.ProcessAll(cmd.Context(), list)

			failed := 0
			for _, result := range results {
				if err := a.printResult(result); err != nil {
					return err
				}
				if !result.Reconciled() {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d contests failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&totalsPath, "totals", "", "official totals YAML file")
	cmd.Flags().StringVar(&linesPath, "lines", "", "raw extracted text lines, one row per line")
	cmd.Flags().StringVar(&batchDir, "batch", "", "directory of contest subdirectories")

	return cmd
}

// newValidateCommand creates the validate command: extraction, mapping and
// validation only, without reconciliation.
func (a *App) newValidateCommand() *cobra.Command {
	var totalsPath, linesPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Extract and validate a contest without reconciling",
		RunE: func(_ *cobra.Command, _ []string) error {
			contest, err := loadContest(totalsPath, linesPath)
			if err != nil {
				return err
			}

			extractor := extract.New(contest.Config, len(contest.Candidates))
			rows, skips := extractor.ExtractAll(contest.Lines)
			a.logger.Info().Int("rows", len(rows)).Int("skipped", len(skips)).Msg("Extracted booth rows")

			m, err := mapping.Infer(rows, contest.Candidates, contest.Config)
			if err != nil {
				return err
			}

			records, err := m.ApplyAll(rows, len(contest.Candidates))
			if err != nil {
				return err
			}

			report := validate.Validate(records, contest.Candidates, contest.Config)
			a.printStatus(report.Passed, fmt.Sprintf("%s: %s (mapping: %s)", contest.ID, report.Summary(), m.Strategy()))

			if len(report.Issues)+len(report.Warnings) > 0 {
				if err := table.Render(os.Stdout, table.ReportToTableData(report)); err != nil {
					return err
				}
			}

			if !report.Passed {
				return fmt.Errorf("contest %s failed validation", contest.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&totalsPath, "totals", "", "official totals YAML file")
	cmd.Flags().StringVar(&linesPath, "lines", "", "raw extracted text lines, one row per line")
	_ = cmd.MarkFlagRequired("totals")
	_ = cmd.MarkFlagRequired("lines")

	return cmd
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("tallysheet %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}

// printResult renders one contest outcome to stdout.
func (a *App) printResult(result *tallysheet.ContestResult) error {
	if !result.Reconciled() {
		a.printStatus(false, fmt.Sprintf("%s: %v", result.Contest.ID, result.Err))
		if result.Report != nil && len(result.Report.Issues) > 0 {
			if err := table.Render(os.Stdout, table.ReportToTableData(result.Report)); err != nil {
				return err
			}
		}
		return nil
	}

	recon := result.Reconciliation
	a.printStatus(true, fmt.Sprintf("%s: %s (mapping: %s, %d lines skipped)",
		result.Contest.ID, recon.Summary(), recon.Metadata.Strategy, len(result.Skips)))

	if err := table.Render(os.Stdout, table.ResultToTableData(recon)); err != nil {
		return err
	}

	for _, w := range recon.Warnings {
		color.Yellow("  warning: %s", w)
	}
	return nil
}

// printStatus prints a colored pass/fail line.
func (a *App) printStatus(ok bool, msg string) {
	if a.config.NoColor {
		color.NoColor = true
	}
	if ok {
		color.Green("OK   %s", msg)
	} else {
		color.Red("FAIL %s", msg)
	}
}

// loadContests resolves the flag combinations into a contest list.
func loadContests(totalsPath, linesPath, batchDir string) ([]*contests.Contest, error) {
	if batchDir != "" {
		return loadBatch(batchDir)
	}
	if totalsPath == "" || linesPath == "" {
		return nil, fmt.Errorf("either --batch or both --totals and --lines are required")
	}
	contest, err := loadContest(totalsPath, linesPath)
	if err != nil {
		return nil, err
	}
	return []*contests.Contest{contest}, nil
}

// loadContest reads one contest from a totals file and a lines file.
func loadContest(totalsPath, linesPath string) (*contests.Contest, error) {
	contest, err := contests.LoadOfficialTotals(totalsPath)
	if err != nil {
		return nil, err
	}
	if contest.ID == "" {
		contest.ID = filepath.Base(filepath.Dir(totalsPath))
	}

	lines, err := readLines(linesPath)
	if err != nil {
		return nil, err
	}
	contest.Lines = lines
	return contest, nil
}

// loadBatch treats every subdirectory holding the expected file pair as one
// contest, in sorted order for determinism.
func loadBatch(dir string) ([]*contests.Contest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var list []*contests.Contest
	for _, name := range names {
		totalsPath := filepath.Join(dir, name, totalsFileName)
		linesPath := filepath.Join(dir, name, linesFileName)
		if _, err := os.Stat(totalsPath); err != nil {
			continue
		}
		if _, err := os.Stat(linesPath); err != nil {
			continue
		}
		contest, err := loadContest(totalsPath, linesPath)
		if err != nil {
			return nil, fmt.Errorf("loading contest %s: %w", name, err)
		}
		if contest.ID == "" {
			contest.ID = name
		}
		list = append(list, contest)
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("no contest directories found under %s", dir)
	}
	return list, nil
}

// readLines reads a text file into lines.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
