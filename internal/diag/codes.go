package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Sheet loading
	SheetInfo        Code = 1000
	SheetDecodeError Code = 1001

	// Timeline construction
	TimelineInfo         Code = 2000
	TimelineUnknownModel Code = 2001
	TimelineOverlap      Code = 2002
	TimelineInverted     Code = 2003
	TimelineOpenNotLast  Code = 2004
	TimelineNoVersions   Code = 2005

	// Name index construction
	NameInfo      Code = 3000
	NameAmbiguous Code = 3001
	NameDuplicate Code = 3002
	NameEmpty     Code = 3003

	// I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown finding",
	SheetInfo:            "Sheet information",
	SheetDecodeError:     "Sheet does not decode",
	TimelineInfo:         "Timeline information",
	TimelineUnknownModel: "Model is not in the order table",
	TimelineOverlap:      "Version intervals overlap",
	TimelineInverted:     "Version interval ends before it starts",
	TimelineOpenNotLast:  "Open-ended interval is not the last record",
	TimelineNoVersions:   "Token has no version records",
	NameInfo:             "Name index information",
	NameAmbiguous:        "Name maps to several tokens at once",
	NameDuplicate:        "Name repeated within one translation",
	NameEmpty:            "Empty name cannot be typed",
	IOInfo:               "I/O information",
	IOLoadFileError:      "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SHT%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("TLN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("NAM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
