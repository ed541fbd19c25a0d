package diag

import (
	"fmt"
)

// Code identifies a diagnostic category. Codes are stable across releases;
// output formats print them as F####.
type Code uint16

const (
	UnknownCode Code = 0

	// Parse-layer diagnostics.
	ParseInfo        Code = 1000
	ParseSyntaxError Code = 1001
	ParseEncoding    Code = 1002

	// Name-resolution diagnostics.
	NameInfo            Code = 2000
	NameUnresolved      Code = 2001
	NamePossiblyUnbound Code = 2002
	NameUnboundLocal    Code = 2003
	NameUnusedBinding   Code = 2004
	NameWildcardImport  Code = 2005

	// Project/driver diagnostics.
	ProjInfo        Code = 3000
	ProjFileRead    Code = 3001
	ProjManifest    Code = 3002
	ProjCacheFailed Code = 3003
)

func (c Code) String() string {
	return fmt.Sprintf("F%04d", uint16(c))
}

// Title returns the short human name printed next to the code.
func (c Code) Title() string {
	switch c {
	case ParseSyntaxError:
		return "syntax error"
	case ParseEncoding:
		return "encoding problem"
	case NameUnresolved:
		return "undefined name"
	case NamePossiblyUnbound:
		return "possibly unbound"
	case NameUnboundLocal:
		return "unbound local"
	case NameUnusedBinding:
		return "unused binding"
	case NameWildcardImport:
		return "wildcard import"
	case ProjFileRead:
		return "file read failed"
	case ProjManifest:
		return "manifest problem"
	case ProjCacheFailed:
		return "cache failure"
	default:
		return "diagnostic"
	}
}
