package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// jsonValue / jsonScan back every JSONB-mapped column so the store keeps
// document-shaped attributes while the rest of the code sees typed structs.
func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(dst interface{}, value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

var errNilDst = errors.New("nil jsonb destination")

// LevelMap maps a language id to the user's current level in it.
type LevelMap map[string]int

func (m LevelMap) Value() (driver.Value, error) {
	if m == nil {
		return jsonValue(LevelMap{})
	}
	return jsonValue(m)
}

func (m *LevelMap) Scan(value interface{}) error {
	if m == nil {
		return errNilDst
	}
	return jsonScan(m, value)
}

// LettersMap maps a language id to the ordered, duplicate-free list of
// letters the user has learned.
type LettersMap map[string][]string

func (m LettersMap) Value() (driver.Value, error) {
	if m == nil {
		return jsonValue(LettersMap{})
	}
	return jsonValue(m)
}

func (m *LettersMap) Scan(value interface{}) error {
	if m == nil {
		return errNilDst
	}
	return jsonScan(m, value)
}

// StringList is a JSONB-backed list column (inventory, achievements).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return jsonValue([]string{})
	}
	return jsonValue(l)
}

func (l *StringList) Scan(value interface{}) error {
	if l == nil {
		return errNilDst
	}
	return jsonScan(l, value)
}

type SeasonEntries []SeasonEntry

func (e SeasonEntries) Value() (driver.Value, error) {
	if e == nil {
		return jsonValue([]SeasonEntry{})
	}
	return jsonValue(e)
}

func (e *SeasonEntries) Scan(value interface{}) error {
	if e == nil {
		return errNilDst
	}
	return jsonScan(e, value)
}

type ActiveEffects []ActiveEffect

func (e ActiveEffects) Value() (driver.Value, error) {
	if e == nil {
		return jsonValue([]ActiveEffect{})
	}
	return jsonValue(e)
}

func (e *ActiveEffects) Scan(value interface{}) error {
	if e == nil {
		return errNilDst
	}
	return jsonScan(e, value)
}

type SeasonLevels []SeasonLevel

func (l SeasonLevels) Value() (driver.Value, error) {
	if l == nil {
		return jsonValue([]SeasonLevel{})
	}
	return jsonValue(l)
}

func (l *SeasonLevels) Scan(value interface{}) error {
	if l == nil {
		return errNilDst
	}
	return jsonScan(l, value)
}

type ItemEffect struct {
	Coins int64 `json:"coins,omitempty"`
	// Multiplier is a rational >= 1 for xp_boost items (1.5x is authorable)
	// and a whole heart count for heart items.
	Multiplier   float64      `json:"multiplier,omitempty"`
	SecondsInUse int          `json:"seconds_in_use,omitempty"`
	Items        []ChestEntry `json:"items,omitempty"`
}

func (e ItemEffect) Value() (driver.Value, error) {
	return jsonValue(e)
}

func (e *ItemEffect) Scan(value interface{}) error {
	if e == nil {
		return errNilDst
	}
	return jsonScan(e, value)
}

// ConnMap maps a live connection id to the peer id it registered with.
type ConnMap map[string]string

func (m ConnMap) Value() (driver.Value, error) {
	if m == nil {
		return jsonValue(ConnMap{})
	}
	return jsonValue(m)
}

func (m *ConnMap) Scan(value interface{}) error {
	if m == nil {
		return errNilDst
	}
	return jsonScan(m, value)
}
