package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/taxclause/internal/core/domain"
)

// ErrIssuesFound is returned by evaluate --fail-on-issues when any rule fires.
var ErrIssuesFound = errors.New("tax issues found")

var (
	indexFile    string
	indexTitle   string
	failOnIssues bool
)

var indexCmd = &cobra.Command{
	Use:   "index [id] [text|-]",
	Short: "Index contract text under an id",
	Long: `Stores contract text under an id, replacing any text already stored
under that id.

The text is taken from the second argument, from standard input when the
argument is "-" or omitted, or from a file with --file (plain text,
Markdown, HTML or DOCX). Without an id, --file uses the file name and
standard input gets a generated id.`,
	Example: `  taxclause index msa "Payments are subject to withholding tax."
  cat msa.txt | taxclause index msa -
  taxclause index --file contracts/msa.docx`,
	Args: cobra.MaximumNArgs(2),
	RunE: runIndex,
}

var clausesCmd = &cobra.Command{
	Use:   "clauses <id>",
	Short: "Extract the tax clauses of an indexed contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runClauses,
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <id>",
	Short: "Evaluate an indexed contract against the tax rules",
	Long: `Extracts clauses and applies the tax rules:

  gross-up-required (high)  withholding tax without gross-up protection
  vat-wording       (medium) VAT without reverse charge wording`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed contracts",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	indexCmd.Flags().StringVarP(&indexFile, "file", "f", "", "read the contract from a file")
	indexCmd.Flags().StringVar(&indexTitle, "title", "", "optional contract title")
	evaluateCmd.Flags().BoolVar(&failOnIssues, "fail-on-issues", false, "exit with an error when any issue is raised")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(clausesCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(listCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	contracts, err := contractService()
	if err != nil {
		return err
	}

	var id string
	if len(args) > 0 {
		id = args[0]
	}

	if indexFile != "" {
		if len(args) > 1 {
			return errors.New("pass contract text either as an argument or with --file, not both")
		}
		ingest, err := ingestService()
		if err != nil {
			return err
		}
		id, err = ingest.IngestFile(cmd.Context(), indexFile, id)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", indexFile, err)
		}
		return printIndexed(cmd, id, -1)
	}

	var text string
	if len(args) == 2 && args[1] != "-" {
		text = args[1]
	} else {
		text, err = readStdin(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	if len(args) == 0 {
		id = uuid.NewString()
	}

	contract := domain.Contract{ID: id, Title: indexTitle, Content: text}
	if err := contracts.IndexContract(cmd.Context(), contract); err != nil {
		return fmt.Errorf("indexing contract: %w", err)
	}
	return printIndexed(cmd, id, utf8.RuneCountInString(text))
}

// readStdin reads the contract text, refusing to block on an interactive
// terminal.
func readStdin(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no contract text given: pass it as an argument or pipe it on stdin")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func printIndexed(cmd *cobra.Command, id string, length int) error {
	return render(cmd.OutOrStdout(), map[string]string{"indexed": id}, func(p *palette) {
		if length >= 0 {
			p.printf("Indexed contract %q (%d characters)\n", id, length)
			return
		}
		p.printf("Indexed contract %q\n", id)
	})
}

func runClauses(cmd *cobra.Command, args []string) error {
	contracts, err := contractService()
	if err != nil {
		return err
	}

	report, err := contracts.GetClauses(cmd.Context(), args[0])
	if err != nil {
		return notFound(args[0], err)
	}

	return render(cmd.OutOrStdout(), report, func(p *palette) {
		if len(report.Clauses) == 0 {
			p.printf("No clauses found in %q.\n", report.ContractID)
			return
		}
		p.printf("%s\n", p.heading.Render(fmt.Sprintf("Clauses in %q (%d)", report.ContractID, len(report.Clauses))))
		printClauses(p, report.Clauses)
	})
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	contracts, err := contractService()
	if err != nil {
		return err
	}

	eval, err := contracts.Evaluate(cmd.Context(), args[0])
	if err != nil {
		return notFound(args[0], err)
	}

	err = render(cmd.OutOrStdout(), eval, func(p *palette) {
		p.printf("%s\n", p.heading.Render(fmt.Sprintf("Evaluation of %q", eval.ContractID)))
		p.printf("  Withholding tax: %s   Gross-up: %s   VAT: %s\n\n",
			p.flag(eval.Summary.WithholdingTax), p.flag(eval.Summary.GrossUp), p.flag(eval.Summary.VAT))

		if len(eval.Issues) == 0 {
			p.printf("%s\n", p.ok.Render("No issues found."))
		} else {
			p.printf("%s\n", p.heading.Render(fmt.Sprintf("Issues (%d)", len(eval.Issues))))
			for _, issue := range eval.Issues {
				p.printf("  %s %s\n", p.severity(issue.Severity), issue.ID)
				p.printf("      %s\n", issue.Explanation)
				p.printf("      Suggestion: %s\n", issue.Suggestion)
			}
		}

		if len(eval.Clauses) > 0 {
			p.printf("\n%s\n", p.heading.Render(fmt.Sprintf("Clauses (%d)", len(eval.Clauses))))
			printClauses(p, eval.Clauses)
		}
	})
	if err != nil {
		return err
	}

	if failOnIssues && len(eval.Issues) > 0 {
		return fmt.Errorf("%q: %d %w", eval.ContractID, len(eval.Issues), ErrIssuesFound)
	}
	return nil
}

func printClauses(p *palette, clauses []domain.ClauseMatch) {
	for _, c := range clauses {
		p.printf("  %-15s %q %s\n", p.clause.Render(string(c.Name)), c.Match,
			p.muted.Render(fmt.Sprintf("[%d:%d]", c.Span[0], c.Span[1])))
		p.printf("      %s\n", p.muted.Render(oneLine(c.Snippet)))
	}
}

// oneLine collapses whitespace runs so snippets print on one line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func runList(cmd *cobra.Command, _ []string) error {
	contracts, err := contractService()
	if err != nil {
		return err
	}

	list, err := contracts.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing contracts: %w", err)
	}
	if list == nil {
		list = []domain.ContractSummary{}
	}

	return render(cmd.OutOrStdout(), list, func(p *palette) {
		if len(list) == 0 {
			p.printf("No contracts indexed.\n")
			return
		}
		for _, c := range list {
			line := fmt.Sprintf("  %-24s %8d chars", c.ID, c.Length)
			if c.Title != "" {
				line += "  " + p.muted.Render(c.Title)
			}
			p.printf("%s\n", line)
		}
	})
}

// notFound rewrites domain.ErrNotFound into a message naming the contract.
func notFound(id string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("contract %q not found: %w", id, err)
	}
	return err
}
