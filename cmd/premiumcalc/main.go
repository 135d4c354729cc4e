package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/edgemoorlf/premiumcalculator/internal/config"
	"github.com/edgemoorlf/premiumcalculator/internal/logging"
	"github.com/edgemoorlf/premiumcalculator/internal/output"
	"github.com/edgemoorlf/premiumcalculator/internal/quote"
	"github.com/edgemoorlf/premiumcalculator/internal/tables"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "premiumcalc",
	Short: "Insurance premium calculator CLI",
	Long:  "Actuarial premium quoting with multi-factor underwriting and regulatory reserves",
}

var quoteCmd = &cobra.Command{
	Use:   "quote [request-file]",
	Short: "Generate a premium quote for the first requested product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input, store := loadRequest(cmd, args[0])
		orch := newOrchestrator(cmd)

		result := orch.GenerateQuote(store.Snapshot(), &input.Applicant, &input.Products[0])
		writeQuoteReport(cmd, []quote.Result{result})
	},
}

var multiquoteCmd = &cobra.Command{
	Use:   "multiquote [request-file]",
	Short: "Generate quotes for every requested product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input, store := loadRequest(cmd, args[0])
		orch := newOrchestrator(cmd)

		results := orch.MultiQuote(store.Snapshot(), &input.Applicant, input.Products)
		writeQuoteReport(cmd, results)
	},
}

var reservesCmd = &cobra.Command{
	Use:   "reserves [portfolio-file]",
	Short: "Value reserves for a policy portfolio",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		input, err := parser.LoadPortfolioInput(args[0])
		if err != nil {
			log.Fatal(err)
		}
		store := openTables(cmd, "")

		orch := newOrchestrator(cmd)
		calc, err := orch.Regulatory.PortfolioReserves(store.Snapshot(), input.Policies, input.ValuationDate)
		if err != nil {
			log.Fatal(err)
		}

		format, _ := cmd.Flags().GetString("format")
		if err := output.NewReportGenerator(os.Stdout).GenerateReserveReport(calc, format); err != nil {
			log.Fatal(err)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [request-file]",
	Short: "Validate a quote request file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		if _, err := parser.LoadQuoteInput(args[0]); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Request file %s is valid\n", args[0])
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Show loaded rate table versions",
	Run: func(cmd *cobra.Command, args []string) {
		store := openTables(cmd, "")
		snap := store.Snapshot()
		fmt.Printf("Mortality tables: %s\n", snap.MortalityVersion)
		fmt.Printf("Morbidity tables: %s\n", snap.MorbidityVersion)
		fmt.Printf("Underwriting rules: %s\n", snap.RulesVersion)
		fmt.Printf("Product definitions: %s\n", snap.ProductsVersion)
		fmt.Printf("Pricing rate: %s\n", snap.PricingRate.String())
		fmt.Printf("Mortality age bands: %v\n", snap.MortalityBands())
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "premiumcalc %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.String())
			}
		},
	}
}

func newLogger(cmd *cobra.Command) logging.Logger {
	debugMode, _ := cmd.Flags().GetBool("debug")
	if !debugMode {
		return logging.NopLogger{}
	}
	logger, err := logging.New("dev")
	if err != nil {
		log.Fatal(err)
	}
	return logger
}

func openTables(cmd *cobra.Command, rounding tables.AgeBandRounding) *tables.Store {
	dataDir, _ := cmd.Flags().GetString("data")
	opts := []tables.Option{tables.WithLogger(newLogger(cmd))}
	if rounding != "" {
		opts = append(opts, tables.WithAgeBandRounding(rounding))
	}
	store, err := tables.Open(dataDir, opts...)
	if err != nil {
		log.Fatal(err)
	}
	return store
}

func loadRequest(cmd *cobra.Command, filename string) (*config.QuoteInput, *tables.Store) {
	parser := config.NewInputParser()
	input, err := parser.LoadQuoteInput(filename)
	if err != nil {
		log.Fatal(err)
	}
	return input, openTables(cmd, input.Settings.AgeBandRounding)
}

func newOrchestrator(cmd *cobra.Command) *quote.Orchestrator {
	return quote.NewOrchestrator().WithLogger(newLogger(cmd))
}

func writeQuoteReport(cmd *cobra.Command, results []quote.Result) {
	format, _ := cmd.Flags().GetString("format")
	if err := output.NewReportGenerator(os.Stdout).GenerateQuoteReport(results, format); err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().String("data", "data", "Directory containing rate table artifacts")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output for detailed calculations")

	quoteCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv)")
	multiquoteCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv)")
	reservesCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(multiquoteCmd)
	rootCmd.AddCommand(reservesCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
