package helper

import (
	"encoding/json"
	"strings"
)

/* =========================================================
   PatchField (tri-state): absent | null | value
   ========================================================= */

type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p PatchField[T]) Get() (*T, bool) { return p.Value, p.Present }

// IsNull: sent explicitly as null.
func (p PatchField[T]) IsNull() bool { return p.Present && p.Value == nil }

// TrimPtr trims and turns "" into nil.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// TrimPatch applies TrimPtr to a present string patch.
func TrimPatch(p *PatchField[string]) {
	if p.Present {
		p.Value = TrimPtr(p.Value)
	}
}
