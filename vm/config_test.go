package vm

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const sampleConfigTOML = `
variable_count = 32
string_table_count = 4
max_string_size = 128
max_print_buffer_len = 2048
`

func TestLoadConfigDecodesSessionLimits(t *testing.T) {
	got, err := LoadConfig(strings.NewReader(sampleConfigTOML))
	require.NoError(t, err)

	want := Config{VariableCount: 32, StringTableCount: 4, MaxStringSize: 128, MaxPrintBufferLen: 2048}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigRejectsMalformedTOML(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("this is not = [valid"))
	require.Error(t, err)
}
