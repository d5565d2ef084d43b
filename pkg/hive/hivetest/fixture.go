// Package hivetest provides canonical in-memory hive fixtures and a
// reusable contract suite for hive.Backend implementations. The suite
// tests the interface contract, not implementation details, so it can
// run against any backend that can be loaded with the fixture content.
package hivetest

import (
	"time"

	"github.com/joshuapare/hivekit/pkg/types"

	"github.com/marmos91/hivefs/pkg/hive/memory"
)

// ExplorerModified is the last-write time of the Explorer fixture key.
var ExplorerModified = time.Date(2011, 12, 31, 12, 0, 0, 0, time.UTC)

// NewSoftwareHive builds the canonical SOFTWARE-style fixture used by
// the contract suite and the projection tests.
//
// Layout:
//
//	AppEvents\Schemes\Apps\Explorer    (default) = "Windows Explorer" (SZ)
//	Microsoft\Windows\CurrentVersion   ProgramFilesDir = "C:\Program Files" (SZ)
//	                                   SessionPaths = ["C:\alpha", "C:\beta"] (MULTI_SZ)
//	                                   InstallTime = 1325332800 (QWORD)
//	                                   ErrorMode = 2 (DWORD)
//	                                   ProductId = de ad be ef (BINARY)
//	                                   Motd = "welcome\n" (SZ, newline-terminated)
//	                                   Empty = "" (SZ)
func NewSoftwareHive() *memory.Store {
	s := memory.New(time.Date(2011, 12, 30, 0, 0, 0, 0, time.UTC))

	s.AddKey(`AppEvents\Schemes\Apps\Explorer`, ExplorerModified)
	s.SetValue(`AppEvents\Schemes\Apps\Explorer`, "", types.REG_SZ, "Windows Explorer")

	cv := `Microsoft\Windows\CurrentVersion`
	s.AddKey(cv, time.Date(2012, 1, 15, 8, 30, 0, 0, time.UTC))
	s.SetValue(cv, "ProgramFilesDir", types.REG_SZ, `C:\Program Files`)
	s.SetValue(cv, "SessionPaths", types.REG_MULTI_SZ, []string{`C:\alpha`, `C:\beta`})
	s.SetValue(cv, "InstallTime", types.REG_QWORD, uint64(1325332800))
	s.SetValue(cv, "ErrorMode", types.REG_DWORD, uint32(2))
	s.SetValue(cv, "ProductId", types.REG_BINARY, []byte{0xde, 0xad, 0xbe, 0xef})
	s.SetValue(cv, "Motd", types.REG_SZ, "welcome\n")
	s.SetValue(cv, "Empty", types.REG_SZ, "")

	return s
}

// NewSystemHive builds a minimal SYSTEM-style fixture.
//
// Layout:
//
//	Select    Current = 3 (DWORD), Default = 1 (DWORD)
func NewSystemHive() *memory.Store {
	s := memory.New(time.Date(2012, 2, 1, 0, 0, 0, 0, time.UTC))
	s.AddKey("Select", time.Date(2012, 2, 1, 9, 0, 0, 0, time.UTC))
	s.SetValue("Select", "Current", types.REG_DWORD, uint32(3))
	s.SetValue("Select", "Default", types.REG_DWORD, uint32(1))
	return s
}
