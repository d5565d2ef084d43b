package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/hivekit/pkg/types"

	"github.com/marmos91/hivefs/pkg/hive"
)

// Type tags used for filename extensions and the datatype extended
// attribute. The spellings follow the classic registry-tool convention
// (RegSZ, RegDWord, ...) rather than the REG_* constant names, so that
// mounted listings look like the tools users already know.
var typeTags = map[types.RegType]string{
	types.REG_NONE:                       "RegNone",
	types.REG_SZ:                         "RegSZ",
	types.REG_EXPAND_SZ:                  "RegExpandSZ",
	types.REG_BINARY:                     "RegBin",
	types.REG_DWORD:                      "RegDWord",
	types.REG_DWORD_BE:                   "RegBigEndian",
	types.REG_LINK:                       "RegLink",
	types.REG_MULTI_SZ:                   "RegMultiSZ",
	types.REG_RESOURCE_LIST:              "RegResourceList",
	types.REG_FULL_RESOURCE_DESCRIPTOR:   "RegFullResourceDescriptor",
	types.REG_RESOURCE_REQUIREMENTS_LIST: "RegResourceRequirementsList",
	types.REG_QWORD:                      "RegQWord",
}

// TypeTag returns the textual tag for a registry type.
func TypeTag(t types.RegType) string {
	if tag, ok := typeTags[t]; ok {
		return tag
	}
	return fmt.Sprintf("RegType%d", uint32(t))
}

// IsTextType reports whether values of the given type render as text.
// Text-typed renderings get the optional trailing newline and report
// "true" through the user.registry.text extended attribute.
//
// REG_DWORD_BE is deliberately not in this set: only little-endian
// integers are rendered as decimal text, everything else passes through
// as raw bytes.
func IsTextType(t types.RegType) bool {
	switch t {
	case types.REG_SZ, types.REG_EXPAND_SZ, types.REG_MULTI_SZ,
		types.REG_DWORD, types.REG_QWORD:
		return true
	}
	return false
}

// Render converts a value's typed payload into its byte content:
//
//	REG_SZ / REG_EXPAND_SZ   the string's bytes
//	REG_MULTI_SZ             elements joined with single newlines
//	REG_DWORD / REG_QWORD    decimal text
//	anything else            raw bytes, unmodified
//
// With appendNewline set, exactly one trailing newline is added to
// non-empty text renderings that do not already end with one. Binary
// and unknown types are never altered.
func Render(v hive.Value, appendNewline bool) ([]byte, error) {
	var data []byte

	switch t := v.Type(); t {
	case types.REG_SZ, types.REG_EXPAND_SZ:
		s, err := v.AsString()
		if err != nil {
			return nil, err
		}
		data = []byte(s)
	case types.REG_MULTI_SZ:
		ss, err := v.AsStrings()
		if err != nil {
			return nil, err
		}
		data = []byte(strings.Join(ss, "\n"))
	case types.REG_DWORD:
		d, err := v.AsDWORD()
		if err != nil {
			return nil, err
		}
		data = []byte(strconv.FormatUint(uint64(d), 10))
	case types.REG_QWORD:
		q, err := v.AsQWORD()
		if err != nil {
			return nil, err
		}
		data = []byte(strconv.FormatUint(q, 10))
	default:
		raw, err := v.Data()
		if err != nil {
			return nil, err
		}
		data = raw
	}

	if appendNewline && IsTextType(v.Type()) && len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

// defaultValueName is the display name for a key's default value, whose
// native name is the empty string.
const defaultValueName = "(default)"

// LeafName returns the filesystem-visible name for a value. The unnamed
// default value shows as "(default)". With extensions enabled the type
// tag is appended (name.RegSZ); otherwise the display name is used
// verbatim.
//
// Known limitation: a value whose native name already ends in ".<tag>"
// is ambiguous under extension-appending, since stripping the suffix on
// lookup cannot tell the two apart.
func LeafName(v hive.Value, appendExtensions bool) string {
	name := v.Name()
	if name == "" {
		name = defaultValueName
	}
	if !appendExtensions {
		return name
	}
	return name + "." + TypeTag(v.Type())
}

// nativeValueName undoes LeafName: with extensions enabled it strips the
// last dot-separated extension, then maps "(default)" back to the empty
// native name.
func nativeValueName(leaf string, appendExtensions bool) string {
	if appendExtensions {
		if i := strings.LastIndexByte(leaf, '.'); i >= 0 {
			leaf = leaf[:i]
		}
	}
	if leaf == defaultValueName {
		return ""
	}
	return leaf
}
