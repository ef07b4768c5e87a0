package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/accountability/ledger/internal/adapter/http/dto"
	"github.com/accountability/ledger/internal/domain"
	"github.com/accountability/ledger/internal/infrastructure/postgres"
)

// errInvalidForm makes validate exit non-zero after printing the report.
var errInvalidForm = errors.New("journal entry is invalid")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	baseURL string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "ledger-cli",
		Short:        "Ledger CLI tool",
		Long:         `Works with journal entry drafts and charts of accounts offline, queries the ledger API for reports and manages the schema.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(newBalanceCmd(), newValidateCmd(), newAccountsCmd(), newReportCmd(opts), newMigrateCmd())
	return rootCmd
}

func newBalanceCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the running balance of a draft journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.FormRequest
			if err := readJSON(cmd, file, &req); err != nil {
				return err
			}

			b := domain.CalculateRunningBalance(dto.LinesToDomain(req.Lines))
			printBalance(cmd.OutOrStdout(), b)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Draft JSON file, - for stdin")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a draft journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.FormRequest
			if err := readJSON(cmd, file, &req); err != nil {
				return err
			}
			if err := dto.Validate(&req); err != nil {
				return err
			}

			state := req.ToFormState()
			errs := domain.ValidateForm(state)
			out := cmd.OutOrStdout()
			if !domain.HasValidationErrors(errs) {
				fmt.Fprintln(out, "OK")
				printBalance(out, state.RunningBalance())
				return nil
			}

			printFormErrors(out, state, errs)
			return errInvalidForm
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Draft JSON file, - for stdin")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var databaseURL, source string

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}
	migrateCmd.PersistentFlags().StringVar(&databaseURL, "database", os.Getenv("DATABASE_URL"), "PostgreSQL URL (default $DATABASE_URL)")
	migrateCmd.PersistentFlags().StringVar(&source, "source", envOr("MIGRATIONS_PATH", "file://migrations"), "Migration source URL")

	open := func(cmd *cobra.Command) (*postgres.Migrator, error) {
		if databaseURL == "" {
			return nil, errors.New("database URL is required: set --database or DATABASE_URL")
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).With().Timestamp().Logger()
		return postgres.NewMigrator(databaseURL, source, logger)
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			mg, err := open(cmd)
			if err != nil {
				return err
			}
			defer mg.Close()

			if err := mg.Up(); err != nil {
				return err
			}
			return printVersion(cmd.OutOrStdout(), mg)
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("%w: got %d", postgres.ErrInvalidSteps, steps)
			}
			mg, err := open(cmd)
			if err != nil {
				return err
			}
			defer mg.Close()

			if err := mg.Down(steps); err != nil {
				return err
			}
			return printVersion(cmd.OutOrStdout(), mg)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			mg, err := open(cmd)
			if err != nil {
				return err
			}
			defer mg.Close()

			return printVersion(cmd.OutOrStdout(), mg)
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}

func printVersion(w io.Writer, mg *postgres.Migrator) error {
	version, dirty, applied, err := mg.Version()
	if err != nil {
		return err
	}

	switch {
	case !applied:
		fmt.Fprintln(w, "schema version: none")
	case dirty:
		fmt.Fprintf(w, "schema version: %d (dirty)\n", version)
	default:
		fmt.Fprintf(w, "schema version: %d\n", version)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// accountRecord is one account in a chart file.
type accountRecord struct {
	ID              string  `json:"id"`
	AccountNumber   string  `json:"account_number"`
	Name            string  `json:"name"`
	ParentAccountID *string `json:"parent_account_id"`
	AccountType     string  `json:"account_type"`
	IsActive        *bool   `json:"is_active"`
}

func newAccountsCmd() *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts operations",
	}

	var (
		file   string
		search string
	)
	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Print a chart of accounts as an indented tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			var records []accountRecord
			if err := readJSON(cmd, file, &records); err != nil {
				return err
			}

			accounts := make([]domain.Account, len(records))
			for i, r := range records {
				active := r.IsActive == nil || *r.IsActive
				accounts[i] = domain.Account{
					ID:              r.ID,
					AccountNumber:   r.AccountNumber,
					Name:            r.Name,
					ParentAccountID: r.ParentAccountID,
					AccountType:     domain.AccountType(r.AccountType),
					IsActive:        active,
				}
			}

			list, err := domain.BuildHierarchicalList(accounts)
			if err != nil {
				return err
			}
			list = domain.FilterBySearch(list, search)

			out := cmd.OutOrStdout()
			for _, item := range list {
				suffix := ""
				if !item.Account.IsActive {
					suffix = " (inactive)"
				}
				fmt.Fprintf(out, "%s%s  %s%s\n", strings.Repeat("  ", item.Depth), item.Account.AccountNumber, item.Account.Name, suffix)
			}
			return nil
		},
	}
	treeCmd.Flags().StringVarP(&file, "file", "f", "-", "Accounts JSON file, - for stdin")
	treeCmd.Flags().StringVar(&search, "search", "", "Only show accounts whose number or name contains this text")

	accountsCmd.AddCommand(treeCmd)
	return accountsCmd
}

func newReportCmd(opts *options) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports from the ledger API",
	}

	reportCmd.AddCommand(
		newPeriodReportCmd(opts, "trial-balance", "Print a company's trial balance", func(w io.Writer, fetch fetchFunc) error {
			var tb dto.TrialBalanceResponse
			if err := fetch(&tb); err != nil {
				return err
			}
			printTrialBalance(w, &tb)
			return nil
		}),
		newPeriodReportCmd(opts, "balance-sheet", "Print a company's balance sheet", func(w io.Writer, fetch fetchFunc) error {
			var bs dto.BalanceSheetResponse
			if err := fetch(&bs); err != nil {
				return err
			}
			printBalanceSheet(w, &bs)
			return nil
		}),
		newPeriodReportCmd(opts, "income-statement", "Print a company's income statement", func(w io.Writer, fetch fetchFunc) error {
			var is dto.IncomeStatementResponse
			if err := fetch(&is); err != nil {
				return err
			}
			printIncomeStatement(w, &is)
			return nil
		}),
	)
	return reportCmd
}

// fetchFunc decodes the report response into out.
type fetchFunc func(out any) error

// newPeriodReportCmd builds a report subcommand that queries
// /companies/{id}/reports/<name> for a fiscal year and period.
func newPeriodReportCmd(opts *options, name, short string, render func(io.Writer, fetchFunc) error) *cobra.Command {
	var (
		companyID string
		year      int
		period    int
	)
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("fiscal_year", strconv.Itoa(year))
			q.Set("period", strconv.Itoa(period))
			endpoint := fmt.Sprintf("%s/api/v1/companies/%s/reports/%s?%s",
				strings.TrimRight(opts.baseURL, "/"), url.PathEscape(companyID), name, q.Encode())

			return render(cmd.OutOrStdout(), func(out any) error {
				return getJSON(cmd, opts.timeout, endpoint, out)
			})
		},
	}
	now := time.Now()
	cmd.Flags().StringVar(&companyID, "company", "", "Company ID")
	cmd.Flags().IntVar(&year, "year", now.Year(), "Fiscal year")
	cmd.Flags().IntVar(&period, "period", int(now.Month()), "Last fiscal period to include")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

func readJSON(cmd *cobra.Command, file string, v any) error {
	var r io.Reader
	if file == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}
	return nil
}

func getJSON(cmd *cobra.Command, timeout time.Duration, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api returned %d: %s: %s", resp.StatusCode, apiErr.Error, apiErr.Message)
		}
		return fmt.Errorf("api returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return json.Unmarshal(body, v)
}

func printBalance(w io.Writer, b domain.RunningBalance) {
	fmt.Fprintf(w, "Debits:   %s\n", b.FormattedDebits)
	fmt.Fprintf(w, "Credits:  %s\n", b.FormattedCredits)
	fmt.Fprintf(w, "Balance:  %s\n", b.FormattedBalance)
	if b.IsBalanced {
		fmt.Fprintln(w, "Balanced: yes")
	} else {
		fmt.Fprintln(w, "Balanced: no")
	}
}

func printFormErrors(w io.Writer, state domain.JournalEntryFormState, errs domain.FormErrors) {
	fields := []struct{ name, msg string }{
		{"description", errs.Description},
		{"transaction_date", errs.TransactionDate},
		{"fiscal_year", errs.FiscalYear},
		{"fiscal_period", errs.FiscalPeriod},
		{"lines", errs.Lines},
		{"balance", errs.Balance},
	}
	for _, f := range fields {
		if f.msg != "" {
			fmt.Fprintf(w, "%s: %s\n", f.name, f.msg)
		}
	}

	numbers := make(map[string]int, len(state.Lines))
	for _, l := range state.Lines {
		numbers[l.ID] = l.LineNumber
	}
	for _, le := range errs.LineErrors {
		if le.Account != "" {
			fmt.Fprintf(w, "line %d: account: %s\n", numbers[le.LineID], le.Account)
		}
		if le.Amount != "" {
			fmt.Fprintf(w, "line %d: amount: %s\n", numbers[le.LineID], le.Amount)
		}
		if le.Currency != "" {
			fmt.Fprintf(w, "line %d: currency: %s\n", numbers[le.LineID], le.Currency)
		}
	}
}

func printTrialBalance(w io.Writer, tb *dto.TrialBalanceResponse) {
	fmt.Fprintf(w, "Trial balance %d through period %d (%s)\n", tb.FiscalYear, tb.FiscalPeriod, tb.Currency)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Account\tName\tDebit\tCredit\t")
	for _, r := range tb.Rows {
		fmt.Fprintf(tw, "%s\t%s%s\t%s\t%s\t\n", r.AccountNumber, strings.Repeat("  ", r.Depth), r.Name, r.Debit, r.Credit)
	}
	fmt.Fprintf(tw, "\tTotal\t%s\t%s\t\n", tb.TotalDebits, tb.TotalCredits)
	_ = tw.Flush()

	if !tb.IsBalanced {
		fmt.Fprintln(w, "WARNING: trial balance is out of balance")
	}
}

func printBalanceSheet(w io.Writer, bs *dto.BalanceSheetResponse) {
	fmt.Fprintf(w, "Balance sheet %d through period %d (%s)\n", bs.FiscalYear, bs.FiscalPeriod, bs.Currency)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	printSection(tw, "Assets", bs.Assets)
	printSection(tw, "Liabilities", bs.Liabilities)
	printSection(tw, "Equity", bs.Equity)
	fmt.Fprintf(tw, "\tCurrent earnings\t%s\t\n", bs.CurrentEarnings)
	fmt.Fprintf(tw, "\tTotal liabilities and equity\t%s\t\n", bs.TotalLiabilitiesAndEquity)
	_ = tw.Flush()

	if !bs.IsBalanced {
		fmt.Fprintln(w, "WARNING: balance sheet is out of balance")
	}
}

func printIncomeStatement(w io.Writer, is *dto.IncomeStatementResponse) {
	fmt.Fprintf(w, "Income statement %d through period %d (%s)\n", is.FiscalYear, is.FiscalPeriod, is.Currency)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	printSection(tw, "Revenue", is.Revenue)
	printSection(tw, "Expenses", is.Expenses)
	fmt.Fprintf(tw, "\tNet income\t%s\t\n", is.NetIncome)
	_ = tw.Flush()
}

func printSection(w io.Writer, title string, s dto.StatementSectionResponse) {
	fmt.Fprintf(w, "%s\t\t\t\n", title)
	for _, l := range s.Lines {
		fmt.Fprintf(w, "%s\t%s%s\t%s\t\n", l.AccountNumber, strings.Repeat("  ", l.Depth), l.Name, l.Amount)
	}
	fmt.Fprintf(w, "\tTotal %s\t%s\t\n", strings.ToLower(title), s.Total)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
