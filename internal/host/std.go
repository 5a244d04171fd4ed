package host

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/brace/internal/config"
)

// Version is reported by the bundled std library.
const Version = "0.3.0"

// Std is the bundled host library bound as `std`. Its exported methods and
// fields are what programs see through member access.
type Std struct {
	Version string
}

func NewStd() *Std {
	return &Std{Version: Version}
}

func (s *Std) Upper(v string) string { return strings.ToUpper(v) }
func (s *Std) Lower(v string) string { return strings.ToLower(v) }
func (s *Std) Trim(v string) string  { return strings.TrimSpace(v) }
func (s *Std) Len(v string) int      { return len([]rune(v)) }
func (s *Std) Itoa(n int) string     { return strconv.Itoa(n) }

func (s *Std) Repeat(v string, count int) (string, error) {
	if count < 0 {
		return "", fmt.Errorf("negative repeat count %d", count)
	}
	return strings.Repeat(v, count), nil
}

func (s *Std) Contains(v, sub string) bool {
	return strings.Contains(v, sub)
}

// Atoi fails with the strconv error for malformed input.
func (s *Std) Atoi(v string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(v))
}

// Concat joins any number of strings.
func (s *Std) Concat(parts ...string) string {
	return strings.Join(parts, "")
}

// Max returns the larger of two integers.
func (s *Std) Max(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Builder returns a fresh string builder; its methods (WriteString, String,
// Len, Reset) are reachable through member access on the result.
func (s *Std) Builder() *strings.Builder {
	return &strings.Builder{}
}

// Libraries maps binding names accepted in brace.yaml to constructors.
var Libraries = map[string]func() interface{}{
	config.StdBindingName: func() interface{} { return NewStd() },
}

// BindLibraries registers the named bundled libraries.
func (r *Registry) BindLibraries(names []string) error {
	for _, name := range names {
		ctor, ok := Libraries[name]
		if !ok {
			return fmt.Errorf("unknown host library %q", name)
		}
		if err := r.Bind(name, ctor()); err != nil {
			return err
		}
	}
	return nil
}
