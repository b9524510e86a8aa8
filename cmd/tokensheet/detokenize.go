package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tokensheet/internal/diagfmt"
)

var detokenizeCmd = &cobra.Command{
	Use:   "detokenize [flags] [FILE]",
	Short: "Decode token bytes back into text",
	Long: `Detokenize reads token bytes and renders the name each token carried
at the selected model and OS version. Input comes from FILE, or from
stdin when FILE is "-" or omitted; with --hex the input is a $HH byte
listing instead of raw bytes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetokenize,
}

func init() {
	detokenizeCmd.Flags().String("format", "pretty", "output format (pretty|text|json)")
	detokenizeCmd.Flags().Bool("hex", false, "read input as a $HH byte listing instead of raw bytes")
}

func runDetokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	hexInput, _ := cmd.Flags().GetBool("hex")

	data, err := readInputBytes(args)
	if err != nil {
		return err
	}
	if hexInput {
		data, err = parseByteListing(string(data))
		if err != nil {
			return err
		}
	}

	tgt, err := resolveTarget(cmd, "")
	if err != nil {
		return err
	}

	items, err := tgt.res.Registry.Detokenize(data, tgt.point, tgt.lang)
	if err != nil {
		return fmt.Errorf("detokenization failed: %w", err)
	}

	switch format {
	case "pretty":
		diagfmt.DecodedPretty(cmd.OutOrStdout(), items)
		return nil
	case "text":
		diagfmt.DecodedText(cmd.OutOrStdout(), items)
		return nil
	case "json":
		return diagfmt.DecodedJSON(cmd.OutOrStdout(), items)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func readInputBytes(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}

// parseByteListing turns "$BB$31 $2A" (whitespace optional, $ optional) into
// raw bytes.
func parseByteListing(s string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', ' ', '\t', '\r', '\n', ',':
			return -1
		}
		return r
	}, s)
	if len(cleaned)%2 != 0 {
		return nil, fmt.Errorf("byte listing has an odd number of hex digits")
	}
	data, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("bad byte listing: %w", err)
	}
	return data, nil
}
