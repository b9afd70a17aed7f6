package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/autollantabi/conciliador/extractor"
	"github.com/autollantabi/conciliador/reader"
)

var (
	extractPath string
	extractBank string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract candidate movements from a report without touching the database",
	Long: `Parses a report file with a bank profile and prints the candidate
movements as JSON. Useful for checking a profile's column mapping before
running a real reconciliation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := extractor.ProfileFromConfig(extractBank)
		if err != nil {
			return err
		}

		r, err := reader.ForPath(extractPath)
		if err != nil {
			return err
		}
		rows, err := r.ReadRows(extractPath)
		if err != nil {
			return err
		}

		batch := extractor.MapRows(profile, rows, 0, logrus.WithField("bank", profile.Bank))

		out := struct {
			Account    string      `json:"account_number"`
			Bank       string      `json:"bank"`
			Company    string      `json:"company"`
			Candidates interface{} `json:"candidates"`
		}{batch.Scope.AccountNumber, batch.Scope.Bank, batch.Scope.Company, batch.Candidates}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode candidates: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractPath, "file", "f", "", "report file (required)")
	extractCmd.Flags().StringVarP(&extractBank, "bank", "b", "", "bank profile name (required)")

	extractCmd.MarkFlagRequired("file")
	extractCmd.MarkFlagRequired("bank")
}
