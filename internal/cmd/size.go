package cmd

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// ByteSize is a positive byte count written with optional units, such as
// 100MiB, 64MB or 4096.
type ByteSize int64

var _ pflag.Value = (*ByteSize)(nil)

func (b *ByteSize) String() string {
	return humanize.IBytes(uint64(*b))
}

func (b *ByteSize) Set(s string) error {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return err
	}
	if n == 0 || n > math.MaxInt64 {
		return fmt.Errorf("size %q out of range", s)
	}
	*b = ByteSize(n)
	return nil
}

func (b *ByteSize) Type() string {
	return "size"
}

// UnmarshalYAML accepts the same forms as Set.
func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	return b.Set(value.Value)
}
