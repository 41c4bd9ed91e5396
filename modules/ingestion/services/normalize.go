package services

import (
	"strings"
)

// Value is a normalized field value that distinguishes "not provided" from
// any real value. The zero Value is absent.
type Value struct {
	s       string
	present bool
}

func Present(s string) Value {
	return Value{s: s, present: true}
}

func Absent() Value {
	return Value{}
}

func (v Value) IsPresent() bool {
	return v.present
}

// String returns the normalized value, or "" when absent.
func (v Value) String() string {
	return v.s
}

// RawRecord is one ingested row: field name to raw string, exactly as it
// came off the export file.
type RawRecord map[string]string

// NormalizedRecord is a RawRecord after field cleanup. Lookups on fields
// the source never sent return an absent Value.
type NormalizedRecord map[string]Value

func (r NormalizedRecord) Get(field string) Value {
	return r[field]
}

// Normalize cleans one raw field value: blank or whitespace-only input is
// absent; otherwise the value is trimmed, one layer of surrounding double
// quotes is stripped, doubled quotes are collapsed into single ones, and
// the result trimmed again. Total and idempotent.
func Normalize(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Absent()
	}
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, `""`, `"`)
	s = strings.TrimSpace(s)
	if s == "" {
		return Absent()
	}
	return Present(s)
}

// NormalizeRecord applies Normalize to every field. Fields that normalize
// to absent are dropped so that map lookups report them as absent.
func NormalizeRecord(raw RawRecord) NormalizedRecord {
	rec := make(NormalizedRecord, len(raw))
	for field, value := range raw {
		if v := Normalize(value); v.IsPresent() {
			rec[field] = v
		}
	}
	return rec
}
