package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Slot is a named logical document bound to one fixed file name.
type Slot string

const (
	SlotSettings Slot = "settings"
	SlotDatabase Slot = "database"
)

var slotFiles = map[Slot]string{
	SlotSettings: "settings.json",
	SlotDatabase: "database.json",
}

// Slots returns every known slot in a stable order.
func Slots() []Slot {
	return []Slot{SlotSettings, SlotDatabase}
}

// ParseSlot maps a logical name to its Slot.
func ParseSlot(name string) (Slot, error) {
	s := Slot(name)
	if _, ok := slotFiles[s]; !ok {
		return "", fmt.Errorf("unknown slot %q", name)
	}
	return s, nil
}

// FileName returns the slot's file name under the application-data directory.
func (s Slot) FileName() string {
	return slotFiles[s]
}

func (s Slot) Valid() bool {
	_, ok := slotFiles[s]
	return ok
}

func (s Slot) String() string {
	return string(s)
}

// slotForFile is the reverse of FileName, used by the watcher.
func slotForFile(base string) (Slot, bool) {
	for s, f := range slotFiles {
		if f == base {
			return s, true
		}
	}
	return "", false
}

var jsonNull = json.RawMessage("null")

// Document is the result of a load: either Absent (no file yet) or a present JSON
// value. A present literal null is distinct from Absent.
type Document struct {
	present bool
	value   json.RawMessage
}

// Absent is the state of a slot whose file does not exist.
func Absent() Document {
	return Document{}
}

// Present wraps a stored JSON value.
func Present(value json.RawMessage) Document {
	return Document{present: true, value: value}
}

func (d Document) IsAbsent() bool {
	return !d.present
}

// Value returns the stored JSON text, or nil when Absent.
func (d Document) Value() json.RawMessage {
	if !d.present {
		return nil
	}
	return d.value
}

// JSON returns the caller-facing value: the stored text, or null when Absent.
func (d Document) JSON() json.RawMessage {
	if !d.present {
		return jsonNull
	}
	return d.value
}

// IsNull reports a present document whose value is the literal null.
func (d Document) IsNull() bool {
	return d.present && bytes.Equal(bytes.TrimSpace(d.value), jsonNull)
}

// MarshalJSON collapses Absent to null for transports that cannot carry the distinction.
func (d Document) MarshalJSON() ([]byte, error) {
	return d.JSON(), nil
}
