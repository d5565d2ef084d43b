package tree_test

import (
	"testing"

	"github.com/joshuapare/hivekit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/hivefs/pkg/hive"
	"github.com/marmos91/hivefs/pkg/hive/hivetest"
	"github.com/marmos91/hivefs/pkg/tree"
)

func fixtureValue(t *testing.T, keyPath, name string) hive.Value {
	t.Helper()
	s := hivetest.NewSoftwareHive()
	key, err := s.Open(keyPath)
	require.NoError(t, err)
	v, err := key.Value(name)
	require.NoError(t, err)
	return v
}

func TestTypeTag(t *testing.T) {
	assert.Equal(t, "RegSZ", tree.TypeTag(types.REG_SZ))
	assert.Equal(t, "RegExpandSZ", tree.TypeTag(types.REG_EXPAND_SZ))
	assert.Equal(t, "RegBin", tree.TypeTag(types.REG_BINARY))
	assert.Equal(t, "RegDWord", tree.TypeTag(types.REG_DWORD))
	assert.Equal(t, "RegBigEndian", tree.TypeTag(types.REG_DWORD_BE))
	assert.Equal(t, "RegMultiSZ", tree.TypeTag(types.REG_MULTI_SZ))
	assert.Equal(t, "RegQWord", tree.TypeTag(types.REG_QWORD))

	// Unrecognized types still produce a stable tag.
	assert.Equal(t, "RegType200", tree.TypeTag(types.RegType(200)))
}

func TestIsTextType(t *testing.T) {
	assert.True(t, tree.IsTextType(types.REG_SZ))
	assert.True(t, tree.IsTextType(types.REG_EXPAND_SZ))
	assert.True(t, tree.IsTextType(types.REG_MULTI_SZ))
	assert.True(t, tree.IsTextType(types.REG_DWORD))
	assert.True(t, tree.IsTextType(types.REG_QWORD))

	assert.False(t, tree.IsTextType(types.REG_BINARY))
	assert.False(t, tree.IsTextType(types.REG_DWORD_BE))
	assert.False(t, tree.IsTextType(types.REG_NONE))
}

func TestRender(t *testing.T) {
	cv := `Microsoft\Windows\CurrentVersion`

	tests := []struct {
		name          string
		keyPath       string
		valueName     string
		appendNewline bool
		want          string
	}{
		{"string gets newline", `AppEvents\Schemes\Apps\Explorer`, "", true, "Windows Explorer\n"},
		{"string without newline option", `AppEvents\Schemes\Apps\Explorer`, "", false, "Windows Explorer"},
		{"terminated string untouched", cv, "Motd", true, "welcome\n"},
		{"empty string never padded", cv, "Empty", true, ""},
		{"multi string joined", cv, "SessionPaths", false, "C:\\alpha\nC:\\beta"},
		{"multi string joined with newline", cv, "SessionPaths", true, "C:\\alpha\nC:\\beta\n"},
		{"dword as decimal", cv, "ErrorMode", true, "2\n"},
		{"qword as decimal", cv, "InstallTime", true, "1325332800\n"},
		{"binary unmodified", cv, "ProductId", true, "\xde\xad\xbe\xef"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := fixtureValue(t, tc.keyPath, tc.valueName)
			data, err := tree.Render(v, tc.appendNewline)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))
		})
	}
}

func TestLeafName(t *testing.T) {
	def := fixtureValue(t, `AppEvents\Schemes\Apps\Explorer`, "")
	assert.Equal(t, "(default).RegSZ", tree.LeafName(def, true))
	assert.Equal(t, "(default)", tree.LeafName(def, false))

	dword := fixtureValue(t, `Microsoft\Windows\CurrentVersion`, "ErrorMode")
	assert.Equal(t, "ErrorMode.RegDWord", tree.LeafName(dword, true))
	assert.Equal(t, "ErrorMode", tree.LeafName(dword, false))
}
