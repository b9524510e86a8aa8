package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tokensheet/internal/diagfmt"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] [FILE]",
	Short: "Encode source text into token bytes",
	Long: `Tokenize reads calculator BASIC source text and emits the token bytes
it encodes to at the selected model and OS version. Text comes from FILE,
or from stdin when FILE is "-" or omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json|hex|raw)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	text, err := readInput(args)
	if err != nil {
		return err
	}
	// Trailing newline comes from the shell, not the program.
	text = strings.TrimRight(text, "\r\n")

	tgt, err := resolveTarget(cmd, "")
	if err != nil {
		return err
	}

	data, err := tgt.res.Registry.Tokenize(text, tgt.point, tgt.lang)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	switch format {
	case "pretty":
		diagfmt.BytesHex(cmd.OutOrStdout(), data)
		return nil
	case "json":
		return renderBytesJSON(cmd.OutOrStdout(), data)
	case "hex":
		fmt.Fprintf(cmd.OutOrStdout(), "%x\n", data)
		return nil
	case "raw":
		_, err := cmd.OutOrStdout().Write(data)
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func renderBytesJSON(out io.Writer, data []byte) error {
	listing := make([]string, len(data))
	for i, c := range data {
		listing[i] = fmt.Sprintf("$%02X", c)
	}
	enc := json.NewEncoder(out)
	return enc.Encode(struct {
		Bytes []string `json:"bytes"`
	}{Bytes: listing})
}

// readInput reads the positional FILE argument, treating "-" or no argument
// as stdin.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}
