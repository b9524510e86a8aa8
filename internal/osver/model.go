package osver

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// Model identifies a calculator model, e.g. "TI-82" or "TI-84+CE".
type Model string

// Latest is a pseudo-model ranked above every real model. It answers queries
// about the newest state of the token tables and is rejected inside sheet
// data, which must name concrete hardware.
const Latest Model = "latest"

//go:embed models.toml
var modelsTOML []byte

// modelOrder maps every known model to its rank on the timeline. Populated
// once from the embedded order table; never mutated afterwards.
var modelOrder map[Model]int

type orderTable struct {
	Ranks map[string]int `toml:"ranks"`
}

func init() {
	var tbl orderTable
	if err := toml.Unmarshal(modelsTOML, &tbl); err != nil {
		panic(fmt.Sprintf("osver: embedded models.toml is broken: %v", err))
	}
	if len(tbl.Ranks) == 0 {
		panic("osver: embedded models.toml has no ranks")
	}
	modelOrder = make(map[Model]int, len(tbl.Ranks))
	for name, rank := range tbl.Ranks {
		modelOrder[Model(name)] = rank
	}
}

// Rank returns the model's position in the order table.
func (m Model) Rank() (int, bool) {
	r, ok := modelOrder[m]
	return r, ok
}

// Known reports whether the model appears in the order table.
func (m Model) Known() bool {
	_, ok := modelOrder[m]
	return ok
}

// Models returns every entry of the order table, sorted by rank and then by
// name so output is stable.
func Models() []Model {
	out := make([]Model, 0, len(modelOrder))
	for m := range modelOrder {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := modelOrder[out[i]], modelOrder[out[j]]
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

// UnknownModelError reports a model identifier that is absent from the order
// table and therefore cannot be placed on the timeline.
type UnknownModelError struct {
	Model Model
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown calculator model %q", string(e.Model))
}
