package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func runDecodeCapture(t *testing.T, stdin string, args ...string) (decodeOutput, error) {
	t.Helper()

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))

	var got decodeOutput
	if err := runDecode(cmd, args); err != nil {
		return got, err
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	return got, nil
}

func TestDecodeCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SLSRPT_0001.edi")
	doc := "LOC+162+45'DTM+35:20240115:102'LIN+1++7501234567890'QTY+1:153:20'QTY+1:77E:3'"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	got, err := runDecodeCapture(t, "", path)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	require.Equal(t, int64(45), got.Records[0].Branch)
	require.Equal(t, int64(17), got.Records[0].Net)
	require.Equal(t, "2024-01-15", got.Records[0].Period.Format("2006-01-02"))
	require.Equal(t, 1, got.Stats.RecordsEmitted)
}

func TestDecodeCmd_Stdin(t *testing.T) {
	got, err := runDecodeCapture(t, "LIN+1++42'QTY+153:1'", "-")
	require.NoError(t, err)
	require.Empty(t, got.Records)
	require.Equal(t, 1, got.Stats.DroppedNoContext)
}

func TestDecodeCmd_MissingFile(t *testing.T) {
	_, err := runDecodeCapture(t, "", filepath.Join(t.TempDir(), "absent.edi"))
	require.ErrorContains(t, err, "read document")
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "decode", "pull", "migrate"} {
		require.True(t, names[want], "missing subcommand %s", want)
	}
}
