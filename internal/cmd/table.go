package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dendrascience/dendra-splitfs/util"
	"github.com/spf13/pflag"
)

var errSplitNeedsOneInput = errors.New("split mode takes exactly one source file")

// addTableFlags registers the flags that shape a part table.
func addTableFlags(flags *pflag.FlagSet) {
	chunk := ByteSize(util.DefaultChunkSize)
	flags.StringP("mode", "m", "", "Force split or join (default: split for one input, join for several)")
	flags.VarP(&chunk, "chunk-size", "s", "Part size in split mode, e.g. 100MiB")
	flags.StringP("name", "n", util.DefaultWholeFileName, "Name of the joined file in join mode")
}

// detectMode picks split for a single input and join otherwise, unless
// forced names a mode.
func detectMode(forced string, inputs int) (util.Mode, error) {
	if inputs == 0 {
		return 0, util.ErrNoInputs
	}
	if forced == "" {
		if inputs == 1 {
			return util.ModeSplit, nil
		}
		return util.ModeJoin, nil
	}
	mode, err := util.ParseMode(forced)
	if err != nil {
		return 0, err
	}
	if mode == util.ModeSplit && inputs != 1 {
		return 0, errSplitNeedsOneInput
	}
	return mode, nil
}

func buildTable(mode util.Mode, inputs []string, cfg Config) (*util.PartTable, error) {
	switch mode {
	case util.ModeSplit:
		if len(inputs) != 1 {
			return nil, errSplitNeedsOneInput
		}
		return util.NewSplitTable(inputs[0], int64(cfg.ChunkSize))
	case util.ModeJoin:
		return util.NewJoinTable(inputs, cfg.WholeFileName)
	}
	return nil, fmt.Errorf("unsupported mode %v", mode)
}

// pathsOverlap reports whether one path is equal to or inside the other.
func pathsOverlap(path1, path2 string) bool {
	abs1, err1 := filepath.Abs(path1)
	abs2, err2 := filepath.Abs(path2)
	if err1 != nil || err2 != nil {
		return false
	}
	if abs1 == abs2 {
		return true
	}
	return strings.HasPrefix(abs1, abs2+string(filepath.Separator)) ||
		strings.HasPrefix(abs2, abs1+string(filepath.Separator))
}
