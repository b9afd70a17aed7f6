package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Embedded default bank profiles. A config file with a "banks" section
// overrides or extends these; the layout of each profile is documented in
// extractor.Profile.
const defaultConfigYAML = `
banks:
  jep:
    bank_code: JEP
    header_rows: 7
    min_columns: 7
    account_cell: {row: 3, col: 0, split_after: ":"}
    company_cell: {row: 4, col: 0}
    columns: {date: 0, type: 1, document: 2, concept: 3, office: 4, amount: 5, balance: 6}
    date_formats: ["02/01/2006", "2006-01-02"]
    credit_values: ["CREDITO", "C"]
    include_concept_in_key: true
  pichincha:
    bank_code: PICHINCHA
    header_rows: 1
    min_columns: 6
    account_cell: {row: 0, col: 1, split_after: ":"}
    company_cell: {row: 0, col: 0}
    columns: {date: 0, document: 1, concept: 2, office: 3, amount: 4, balance: 5}
    date_formats: ["02/01/2006", "2006-01-02", "01/02/2006"]
    type_from_sign: true
  guayaquil:
    bank_code: GUAYAQUIL
    header_rows: 5
    min_columns: 6
    account_cell: {row: 2, col: 1}
    company_cell: {row: 1, col: 1}
    columns: {date: 0, type: 1, document: 2, concept: 3, amount: 4, balance: 5, reference: 6}
    date_formats: ["2006-01-02", "02/01/2006"]
    credit_values: ["CREDITO", "CR", "C"]
  produbanco:
    bank_code: PRODUBANCO
    header_rows: 6
    min_columns: 7
    account_cell: {row: 3, col: 0, split_after: ":"}
    company_cell: {row: 4, col: 0}
    columns: {date: 0, type: 1, document: 2, concept: 3, office: 4, amount: 5, balance: 6}
    date_formats: ["02/01/2006", "2006-01-02"]
    credit_values: ["CREDITO", "C"]
    include_concept_in_key: true
  bolivariano:
    bank_code: BOLIVARIANO
    header_rows: 7
    min_columns: 10
    account_cell: {row: 1, col: 1}
    company_cell: {row: 4, col: 1}
    columns: {date: 1, office: 3, reference: 4, document: 5, type: 6, amount: 7, balance: 9}
    date_formats: ["01/02/2006", "1/2/2006"]
    credit_values: ["+"]
  crea:
    bank_code: CREA
    header_rows: 8
    min_columns: 10
    account_cell: {row: 1, col: 6}
    company_cell: {row: 2, col: 2, split_after: "-"}
    columns: {date: 1, type: 2, credit_amount: 3, debit_amount: 4, balance: 6, concept: 7, document: 8, reference: 9}
    date_formats: ["2006-01-02", "02/01/2006", "2006/01/02", "02-01-2006", "2006-01-02 15:04:05"]
    credit_contains: ["N/C"]
    include_concept_in_key: true
`

var (
	cfgFile string
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "conciliador",
		Short: "Reconciles downloaded bank movement reports against the movements database",
		Long: `conciliador takes the CSV/XLSX/PDF movement reports the download
automation leaves behind, extracts candidate movements using a per-bank
profile, and inserts only the genuinely new ones into the movements table,
assigning collision-free document numbers.`,
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.conciliador.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".conciliador")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			viper.SetConfigType("yaml")
			if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
				fmt.Printf("Error loading embedded configuration: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}
