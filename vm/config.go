package vm

import (
	"fmt"
	"io"

	"github.com/naoina/toml"
)

// LoadConfig decodes a Config from TOML, keyed by the same names as
// spec.md's session-limit fields (variable_count, string_table_count,
// max_string_size, max_print_buffer_len). Filesystem access is the
// caller's concern; LoadConfig only ever reads from r.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	if err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode vm config: %w", err)
	}
	return cfg, nil
}
