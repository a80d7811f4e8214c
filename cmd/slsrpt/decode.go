package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	v1 "github.com/aevon-lab/slsrpt-ingest/internal/api/v1"
	"github.com/aevon-lab/slsrpt-ingest/internal/core/edifact"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file|->",
	Short: "Decode a document file and print the records as JSON",
	Long: `Decode reads one SLSRPT document from a file (or stdin with "-") and
prints the decoded sales records and decoder statistics as JSON.
Nothing is written to the database.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

type decodeOutput struct {
	Records []v1.SalesRecord `json:"records"`
	Stats   edifact.Stats    `json:"stats"`
}

func runDecode(cmd *cobra.Command, args []string) error {
	var (
		raw []byte
		err error
	)
	if args[0] == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	res := edifact.Decode(strings.ToValidUTF8(string(raw), "�"))

	out := decodeOutput{Records: res.Records, Stats: res.Stats}
	if out.Records == nil {
		out.Records = []v1.SalesRecord{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
