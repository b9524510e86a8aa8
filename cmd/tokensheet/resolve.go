package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"tokensheet/internal/sheet"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] BYTES",
	Short: "Show what a token byte value means at a point in time",
	Long: `Resolve looks up a token by its byte value (e.g. $BA or BB31) and
prints the names it carried at the selected model and OS version, or its
whole timeline with --all.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	resolveCmd.Flags().Bool("all", false, "show the full timeline instead of one version")
}

func runResolve(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	showAll, _ := cmd.Flags().GetBool("all")

	value, err := parseByteListing(args[0])
	if err != nil {
		return err
	}
	if len(value) == 0 {
		return fmt.Errorf("empty token value")
	}

	tgt, err := resolveTarget(cmd, "")
	if err != nil {
		return err
	}

	tl, ok := tgt.res.Registry.TimelineOf(value)
	if !ok {
		return fmt.Errorf("no token with value %s", hexValue(value))
	}

	records := tl.Records()
	if !showAll {
		ver, ok := tgt.res.Registry.Resolve(value, tgt.point)
		if !ok {
			return fmt.Errorf("token %s does not exist at %s", hexValue(value), tgt.point)
		}
		records = []*sheet.Version{ver}
	}

	switch format {
	case "pretty":
		renderResolvePretty(cmd.OutOrStdout(), value, records)
		return nil
	case "json":
		return renderResolveJSON(cmd.OutOrStdout(), value, records)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func hexValue(value []byte) string {
	var b strings.Builder
	for _, c := range value {
		fmt.Fprintf(&b, "$%02X", c)
	}
	return b.String()
}

func renderResolvePretty(out io.Writer, value []byte, records []*sheet.Version) {
	fmt.Fprintf(out, "token %s\n", hexValue(value))
	for _, ver := range records {
		fmt.Fprintf(out, "  %s\n", ver.Interval())
		for _, lang := range sortedLangs(ver) {
			tr := ver.Langs[lang]
			fmt.Fprintf(out, "    %s: %s", lang, tr.Display)
			if len(tr.Accessible) > 0 {
				fmt.Fprintf(out, " (%s)", strings.Join(tr.Accessible, ", "))
			}
			if len(tr.Variants) > 0 {
				fmt.Fprintf(out, " variants: %s", strings.Join(tr.Variants, ", "))
			}
			fmt.Fprintln(out)
		}
	}
}

type resolveVersionPayload struct {
	Since string                       `json:"since"`
	Until string                       `json:"until,omitempty"`
	Langs map[string]resolveLangPayload `json:"langs"`
}

type resolveLangPayload struct {
	Display    string   `json:"display"`
	Accessible []string `json:"accessible"`
	Variants   []string `json:"variants,omitempty"`
}

func renderResolveJSON(out io.Writer, value []byte, records []*sheet.Version) error {
	type payload struct {
		Token    string                  `json:"token"`
		Versions []resolveVersionPayload `json:"versions"`
	}
	p := payload{Token: hexValue(value)}
	for _, ver := range records {
		vp := resolveVersionPayload{
			Since: ver.Since.String(),
			Langs: make(map[string]resolveLangPayload, len(ver.Langs)),
		}
		if ver.Until != nil {
			vp.Until = ver.Until.String()
		}
		for lang, tr := range ver.Langs {
			vp.Langs[lang] = resolveLangPayload{
				Display:    tr.Display,
				Accessible: tr.Accessible,
				Variants:   tr.Variants,
			}
		}
		p.Versions = append(p.Versions, vp)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func sortedLangs(ver *sheet.Version) []string {
	langs := make([]string, 0, len(ver.Langs))
	for lang := range ver.Langs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
