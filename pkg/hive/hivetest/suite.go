package hivetest

import (
	"testing"

	"github.com/joshuapare/hivekit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/hivefs/pkg/hive"
)

// Suite is a contract test suite for hive.Backend implementations.
// Open must return a fresh backend holding the NewSoftwareHive fixture.
type Suite struct {
	Open func(t *testing.T) hive.Backend
}

// Run executes all tests in the suite.
func (s *Suite) Run(t *testing.T) {
	t.Run("OpenRoot", s.testOpenRoot)
	t.Run("OpenNested", s.testOpenNested)
	t.Run("OpenCaseInsensitive", s.testOpenCaseInsensitive)
	t.Run("OpenMissing", s.testOpenMissing)
	t.Run("Subkeys", s.testSubkeys)
	t.Run("Values", s.testValues)
	t.Run("ValueLookup", s.testValueLookup)
	t.Run("TypedAccessors", s.testTypedAccessors)
}

func (s *Suite) testOpenRoot(t *testing.T) {
	b := s.Open(t)
	defer b.Close()

	root, err := b.Open("")
	require.NoError(t, err)

	subkeys, err := root.Subkeys()
	require.NoError(t, err)
	assert.Contains(t, subkeys, "AppEvents")
	assert.Contains(t, subkeys, "Microsoft")
}

func (s *Suite) testOpenNested(t *testing.T) {
	b := s.Open(t)
	defer b.Close()

	key, err := b.Open(`AppEvents\Schemes\Apps\Explorer`)
	require.NoError(t, err)
	assert.Equal(t, "Explorer", key.Name())
	assert.Equal(t, ExplorerModified.Unix(), key.Timestamp().Unix())
}

func (s *Suite) testOpenCaseInsensitive(t *testing.T) {
	b := s.Open(t)
	defer b.Close()

	_, err := b.Open(`appevents\SCHEMES\apps\explorer`)
	assert.NoError(t, err)
}

func (s *Suite) testOpenMissing(t *testing.T) {
	b := s.Open(t)
	defer b.Close()

	_, err := b.Open(`AppEvents\NoSuchKey`)
	assert.ErrorIs(t, err, hive.ErrNotFound)

	// A value name is not a key.
	_, err = b.Open(`Microsoft\Windows\CurrentVersion\ProgramFilesDir`)
	assert.ErrorIs(t, err, hive.ErrNotFound)
}

func (s *Suite) testSubkeys(t *testing.T) {
	b := s.Open(t)
	defer b.Close()

	key, err := b.Open(`AppEvents\Schemes`)
	require.NoError(t, err)
	subkeys, err := key.Subkeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"Apps"}, subkeys)
}

func (s *Suite) testValues(t *testing.T) {
	b := s.Open(t)
	defer b.Close()

	key, err := b.Open(`Microsoft\Windows\CurrentVersion`)
	require.NoError(t, err)
	values, err := key.Values()
	require.NoError(t, err)

	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.Name()
	}
	assert.Equal(t, []string{
		"ProgramFilesDir", "SessionPaths", "InstallTime",
		"ErrorMode", "ProductId", "Motd", "Empty",
	}, names)
}

func (s *Suite) testValueLookup(t *testing.T) {
	b := s.Open(t)
	defer b.Close()

	key, err := b.Open(`AppEvents\Schemes\Apps\Explorer`)
	require.NoError(t, err)

	// The default value has the empty native name.
	v, err := key.Value("")
	require.NoError(t, err)
	assert.Equal(t, types.REG_SZ, v.Type())

	_, err = key.Value("NoSuchValue")
	assert.ErrorIs(t, err, hive.ErrNotFound)

	// Lookup is case-insensitive.
	cv, err := b.Open(`Microsoft\Windows\CurrentVersion`)
	require.NoError(t, err)
	_, err = cv.Value("programfilesdir")
	assert.NoError(t, err)
}

func (s *Suite) testTypedAccessors(t *testing.T) {
	b := s.Open(t)
	defer b.Close()

	key, err := b.Open(`Microsoft\Windows\CurrentVersion`)
	require.NoError(t, err)

	str, err := key.Value("ProgramFilesDir")
	require.NoError(t, err)
	got, err := str.AsString()
	require.NoError(t, err)
	assert.Equal(t, `C:\Program Files`, got)

	multi, err := key.Value("SessionPaths")
	require.NoError(t, err)
	gotMulti, err := multi.AsStrings()
	require.NoError(t, err)
	assert.Equal(t, []string{`C:\alpha`, `C:\beta`}, gotMulti)

	dword, err := key.Value("ErrorMode")
	require.NoError(t, err)
	gotDword, err := dword.AsDWORD()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), gotDword)

	qword, err := key.Value("InstallTime")
	require.NoError(t, err)
	gotQword, err := qword.AsQWORD()
	require.NoError(t, err)
	assert.Equal(t, uint64(1325332800), gotQword)

	bin, err := key.Value("ProductId")
	require.NoError(t, err)
	gotBin, err := bin.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, gotBin)
}
