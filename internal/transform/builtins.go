package transform

import (
	"strings"
	"time"
)

// Built-in transform names as they appear in the mapping file.
const (
	NameSex             = "transform_sex"
	NameDate            = "format_date_yyyy_mm_dd"
	NameDxVersion       = "determine_dx_version"
	NameRxCodeType      = "determine_rx_code_type"
	NameZeroCost        = "set_zero_cost"
	NameZeroUtilization = "set_zero_utilization"
)

// Values emitted by the built-ins.
const (
	SexMale    = "1"
	SexFemale  = "2"
	SexUnknown = "9"

	// DxVersionSNOMED marks a diagnosis code as SNOMED CT. Every non-blank
	// code is currently assumed to be SNOMED CT.
	DxVersionSNOMED = "S"
	// RxCodeTypeDefault is the ACG code type for Read drug codes, used for
	// every non-blank drug code until real classification exists.
	RxCodeTypeDefault = "RRxUK"

	Zero = "0"
)

const isoDate = "2006-01-02"

var sexCodes = map[string]string{
	"M": SexMale,
	"F": SexFemale,
	"1": SexMale,
	"2": SexFemale,
}

// dateLayouts are tried in order. Month-first precedes day-first, so
// "01/02/2020" is 2 January and "15/01/2020" falls through to 15 January.
var dateLayouts = []string{
	isoDate,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"01/02/2006 15:04",
	"01/02/2006 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"02-Jan-2006",
	"2 Jan 2006",
	"January 2, 2006",
	"20060102",
}

// dependencies maps transforms that read another rule's source column to
// the target column of that rule.
var dependencies = map[string]string{
	NameDxVersion:  "dx_cd_1",
	NameRxCodeType: "rx_cd",
}

// Dependency returns the target column whose source column feeds the named
// transform instead of the rule's own source column.
func Dependency(name string) (string, bool) {
	target, ok := dependencies[name]
	return target, ok
}

// Sex maps M/F/1/2 (case-insensitive) to the ACG sex codes; anything else is 9.
func Sex(in []string) []string {
	return mapEach(in, func(v string) string {
		if code, ok := sexCodes[strings.ToUpper(strings.TrimSpace(v))]; ok {
			return code
		}

		return SexUnknown
	})
}

// FormatDate renders parseable dates as YYYY-MM-DD and everything else as "".
func FormatDate(in []string) []string {
	return mapEach(in, func(v string) string {
		t, ok := ParseDate(v)
		if !ok {
			return ""
		}

		return t.Format(isoDate)
	})
}

// ParseDate parses v with the first matching accepted layout.
func ParseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// DxVersion returns S for every non-blank diagnosis code.
func DxVersion(in []string) []string {
	return mapEach(in, func(v string) string {
		if strings.TrimSpace(v) == "" {
			return ""
		}

		return DxVersionSNOMED
	})
}

// RxCodeType returns the default drug code type for every non-empty code.
func RxCodeType(in []string) []string {
	return mapEach(in, func(v string) string {
		if v == "" {
			return ""
		}

		return RxCodeTypeDefault
	})
}

// ZeroFill returns "0" for every row, ignoring the input values.
func ZeroFill(in []string) []string {
	return mapEach(in, func(string) string { return Zero })
}

func mapEach(in []string, fn func(string) string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}

	return out
}
