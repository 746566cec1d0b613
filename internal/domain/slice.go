package domain

import "fmt"

// Slice names one independently synchronized unit of user data.
type Slice string

const (
	SliceChecklist     Slice = "checklist"
	SliceNotes         Slice = "notes"
	SliceRulesChecked  Slice = "rulesChecked"
	SliceLearningLogs  Slice = "learningLogs"
	SliceUserTemplates Slice = "userTemplates"
)

// AllSlices lists every slice in snapshot order.
var AllSlices = []Slice{
	SliceChecklist,
	SliceNotes,
	SliceRulesChecked,
	SliceLearningLogs,
	SliceUserTemplates,
}

const LocalKeyPrefix = "aozu_"

type SliceKind string

const (
	// SliceKindText slices are stored as the raw string.
	SliceKindText SliceKind = "text"
	// SliceKindJSON slices are stored JSON-encoded.
	SliceKindJSON SliceKind = "json"
)

type SliceDescriptor struct {
	Slice    Slice
	LocalKey string
	Field    string
	Kind     SliceKind
	Empty    string
	Mirrored bool
}

var sliceTable = map[Slice]SliceDescriptor{
	SliceChecklist: {
		Slice:    SliceChecklist,
		LocalKey: LocalKeyPrefix + "checklist",
		Field:    "checklist",
		Kind:     SliceKindJSON,
		Empty:    "{}",
	},
	SliceNotes: {
		Slice:    SliceNotes,
		LocalKey: LocalKeyPrefix + "notes",
		Field:    "notes",
		Kind:     SliceKindText,
		Empty:    "",
	},
	SliceRulesChecked: {
		Slice:    SliceRulesChecked,
		LocalKey: LocalKeyPrefix + "rules_checked",
		Field:    "rulesChecked",
		Kind:     SliceKindJSON,
		Empty:    "[]",
	},
	SliceLearningLogs: {
		Slice:    SliceLearningLogs,
		LocalKey: LocalKeyPrefix + "learning_logs",
		Field:    "learningLogs",
		Kind:     SliceKindJSON,
		Empty:    "[]",
		Mirrored: true,
	},
	SliceUserTemplates: {
		Slice:    SliceUserTemplates,
		LocalKey: LocalKeyPrefix + "user_templates",
		Field:    "userTemplates",
		Kind:     SliceKindJSON,
		Empty:    "[]",
		Mirrored: true,
	},
}

// Describe returns the static descriptor for a slice.
func Describe(s Slice) (SliceDescriptor, error) {
	d, ok := sliceTable[s]
	if !ok {
		return SliceDescriptor{}, fmt.Errorf("unknown slice %q", s)
	}
	return d, nil
}

// LocalKey returns the Local Store key for a slice, or "" for unknown slices.
func (s Slice) LocalKey() string {
	return sliceTable[s].LocalKey
}

// ParseSlice maps a remote field name back to its slice.
func ParseSlice(field string) (Slice, bool) {
	for _, d := range sliceTable {
		if d.Field == field {
			return d.Slice, true
		}
	}
	return "", false
}
