package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"tokensheet/internal/registry"
)

// BytesHex renders a token byte sequence the way the sheet spells byte
// values: "$BB$00$BA".
func BytesHex(w io.Writer, data []byte) {
	var b strings.Builder
	for _, by := range data {
		fmt.Fprintf(&b, "$%02X", by)
	}
	fmt.Fprintln(w, b.String())
}

// DecodedPretty lists decoded tokens one per line with the display column
// padded by display width — calculator glyphs are frequently wide.
func DecodedPretty(w io.Writer, items []registry.Decoded) {
	displayWidth := 0
	for _, d := range items {
		if dw := runewidth.StringWidth(d.Display); dw > displayWidth {
			displayWidth = dw
		}
	}
	for i, d := range items {
		value := ""
		for _, by := range d.Value {
			value += fmt.Sprintf("$%02X", by)
		}
		pad := strings.Repeat(" ", displayWidth-runewidth.StringWidth(d.Display))
		fmt.Fprintf(w, "%3d: %-8s %s%s", i+1, value, d.Display, pad)
		if len(d.Accessible) > 0 {
			fmt.Fprintf(w, "  (%s)", strings.Join(d.Accessible, ", "))
		}
		fmt.Fprintln(w)
	}
}

// DecodedText concatenates the display strings: the program text as it would
// read on the calculator.
func DecodedText(w io.Writer, items []registry.Decoded) {
	var b strings.Builder
	for _, d := range items {
		b.WriteString(d.Display)
	}
	fmt.Fprintln(w, b.String())
}

type decodedOutput struct {
	Value      string   `json:"value"`
	Offset     int      `json:"offset"`
	Display    string   `json:"display"`
	Accessible []string `json:"accessible,omitempty"`
}

// DecodedJSON writes decoded tokens as a JSON array.
func DecodedJSON(w io.Writer, items []registry.Decoded) error {
	out := make([]decodedOutput, 0, len(items))
	for _, d := range items {
		value := ""
		for _, by := range d.Value {
			value += fmt.Sprintf("$%02X", by)
		}
		out = append(out, decodedOutput{
			Value:      value,
			Offset:     d.Offset,
			Display:    d.Display,
			Accessible: d.Accessible,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
