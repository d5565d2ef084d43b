package registry_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/hivefs/pkg/hive"
	"github.com/marmos91/hivefs/pkg/hive/hivetest"
	"github.com/marmos91/hivefs/pkg/registry"
)

// fakeOpener succeeds for any path not listed in failing.
func fakeOpener(failing ...string) hive.Opener {
	bad := make(map[string]bool, len(failing))
	for _, path := range failing {
		bad[path] = true
	}
	return func(path string) (hive.Backend, error) {
		if bad[path] {
			return nil, fmt.Errorf("opening %s: bad hive header", path)
		}
		return hivetest.NewSoftwareHive(), nil
	}
}

func TestLoadPrimary(t *testing.T) {
	r := registry.New(fakeOpener())
	require.NoError(t, r.LoadPrimary("HKLM", "SYSTEM", "system"))

	backend, ok := r.Lookup("HKLM", "SYSTEM")
	assert.True(t, ok)
	assert.NotNil(t, backend)
}

func TestLoadPrimaryFailurePropagates(t *testing.T) {
	r := registry.New(fakeOpener("system"))

	err := r.LoadPrimary("HKLM", "SYSTEM", "system")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HKLM/SYSTEM")

	_, ok := r.Lookup("HKLM", "SYSTEM")
	assert.False(t, ok)
}

func TestLoadPrimaryUnknownGroup(t *testing.T) {
	r := registry.New(fakeOpener())
	assert.Error(t, r.LoadPrimary("NOPE", "SYSTEM", "system"))
}

func TestLoadAuxiliaryFailureKeepsSlot(t *testing.T) {
	r := registry.New(fakeOpener("sam"))
	r.LoadAuxiliary("HKLM", "SAM", "sam")

	// The failed store is unreachable but still occupies its name.
	_, ok := r.Lookup("HKLM", "SAM")
	assert.False(t, ok)

	names, ok := r.Stores("HKLM")
	require.True(t, ok)
	assert.Equal(t, []string{"SAM"}, names)
}

func TestStoresRegistrationOrder(t *testing.T) {
	r := registry.New(fakeOpener("security"))
	require.NoError(t, r.LoadPrimary("HKLM", "SYSTEM", "system"))
	r.LoadAuxiliary("HKLM", "SECURITY", "security")
	r.LoadAuxiliary("HKLM", "SOFTWARE", "software")

	names, ok := r.Stores("HKLM")
	require.True(t, ok)
	assert.Equal(t, []string{"SYSTEM", "SECURITY", "SOFTWARE"}, names)

	names, ok = r.Stores("HKU")
	require.True(t, ok)
	assert.Empty(t, names)

	_, ok = r.Stores("NOPE")
	assert.False(t, ok)
}

func TestGroups(t *testing.T) {
	r := registry.New(fakeOpener())
	assert.Equal(t, []string{"HKCR", "HKCU", "HKLM", "HKU", "HKCC"}, r.Groups())
	assert.True(t, r.HasGroup("HKCU"))
	assert.False(t, r.HasGroup("hkcu"))
}

func TestLoadConfigDir(t *testing.T) {
	var opened []string
	open := func(path string) (hive.Backend, error) {
		name := filepath.Base(path)
		opened = append(opened, name)
		if name == "SAM" {
			return nil, fmt.Errorf("opening %s: bad hive header", path)
		}
		return hivetest.NewSystemHive(), nil
	}

	r := registry.New(open)
	require.NoError(t, r.LoadConfigDir("/cfg"))
	assert.Equal(t, []string{"system", "SAM", "SECURITY", "software", "default"}, opened)

	names, ok := r.Stores("HKLM")
	require.True(t, ok)
	assert.Equal(t, []string{"SYSTEM", "SAM", "SECURITY", "SOFTWARE"}, names)

	names, ok = r.Stores("HKU")
	require.True(t, ok)
	assert.Equal(t, []string{".DEFAULT"}, names)

	_, ok = r.Lookup("HKLM", "SAM")
	assert.False(t, ok)
}

func TestLoadConfigDirMissingSystemHive(t *testing.T) {
	r := registry.New(fakeOpener("/cfg/system"))

	err := r.LoadConfigDir("/cfg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "system hive")
}

func TestClose(t *testing.T) {
	r := registry.New(fakeOpener())
	require.NoError(t, r.LoadPrimary("HKLM", "SYSTEM", "system"))

	backend, ok := r.Lookup("HKLM", "SYSTEM")
	require.True(t, ok)

	r.Close()

	_, err := backend.Open("")
	assert.Error(t, err)
}
