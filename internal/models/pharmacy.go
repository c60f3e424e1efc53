package models

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/02loveslollipop/yakchatja/internal/geo"
	"github.com/02loveslollipop/yakchatja/internal/hours"
)

// Pharmacy is one record of the data.go.kr pharmacy list. The feed emits
// numbers and strings interchangeably, so every field is kept as a string.
type Pharmacy struct {
	HPID     string
	Name     string
	Address  string
	Phone    string
	Lat      string
	Lng      string
	PostCdn1 string
	PostCdn2 string

	// Times[slot-1] holds the raw open/close pair of slots 1..8.
	Times [hours.SlotCount][2]string

	// Extra keeps fields this service does not interpret.
	Extra map[string]string
}

var knownFields = map[string]func(p *Pharmacy) *string{
	"hpid":     func(p *Pharmacy) *string { return &p.HPID },
	"dutyName": func(p *Pharmacy) *string { return &p.Name },
	"dutyAddr": func(p *Pharmacy) *string { return &p.Address },
	"dutyTel1": func(p *Pharmacy) *string { return &p.Phone },
	"wgs84Lat": func(p *Pharmacy) *string { return &p.Lat },
	"wgs84Lon": func(p *Pharmacy) *string { return &p.Lng },
	"postCdn1": func(p *Pharmacy) *string { return &p.PostCdn1 },
	"postCdn2": func(p *Pharmacy) *string { return &p.PostCdn2 },
}

func init() {
	for slot := 1; slot <= hours.SlotCount; slot++ {
		idx := slot - 1
		knownFields[fmt.Sprintf("dutyTime%ds", slot)] = func(p *Pharmacy) *string { return &p.Times[idx][0] }
		knownFields[fmt.Sprintf("dutyTime%dc", slot)] = func(p *Pharmacy) *string { return &p.Times[idx][1] }
	}
}

// FromFields builds a Pharmacy from upstream field names.
func FromFields(fields map[string]string) Pharmacy {
	var p Pharmacy
	for k, v := range fields {
		if ptr, ok := knownFields[k]; ok {
			*ptr(&p) = strings.TrimSpace(v)
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]string)
		}
		p.Extra[k] = v
	}
	return p
}

// Fields returns the record keyed by upstream field names, skipping empty values.
func (p Pharmacy) Fields() map[string]string {
	out := make(map[string]string, len(knownFields)+len(p.Extra))
	for k, v := range p.Extra {
		out[k] = v
	}
	for k, ptr := range knownFields {
		if v := *ptr(&p); v != "" {
			out[k] = v
		}
	}
	return out
}

// UnmarshalJSON accepts string, number or null values for every field.
func (p *Pharmacy) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			fields[k] = val
		case json.Number:
			fields[k] = val.String()
		case bool:
			fields[k] = fmt.Sprint(val)
		default:
			// nested values are not part of the pharmacy schema
			continue
		}
	}
	*p = FromFields(fields)
	return nil
}

// MarshalJSON writes the record back with upstream field names.
func (p Pharmacy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Fields())
}

// DutyTime implements hours.Record.
func (p Pharmacy) DutyTime(slot int) (string, string) {
	if slot < 1 || slot > hours.SlotCount {
		return "", ""
	}
	t := p.Times[slot-1]
	return t[0], t[1]
}

// SetDutyTime sets the raw open/close values of a slot.
func (p *Pharmacy) SetDutyTime(slot int, open, close string) {
	if slot < 1 || slot > hours.SlotCount {
		return
	}
	p.Times[slot-1] = [2]string{open, close}
}

// Coordinate returns the parsed location, or false when it is missing or malformed.
func (p Pharmacy) Coordinate() (geo.Coordinate, bool) {
	return geo.ParseCoordinate(p.Lat, p.Lng)
}

// ID returns the upstream hpid when the record carries one. Otherwise it
// derives a stable identifier from the address and location, mixing in the
// display name only when the location is unusable.
func (p Pharmacy) ID() string {
	if hpid := strings.TrimSpace(p.HPID); hpid != "" {
		return hpid
	}

	h := sha256.New()
	h.Write([]byte(strings.Join(strings.Fields(p.Address), " ")))
	h.Write([]byte{'|'})
	if c, ok := p.Coordinate(); ok {
		fmt.Fprintf(h, "%.6f,%.6f", c.Lat, c.Lng)
	} else {
		h.Write([]byte(strings.TrimSpace(p.Name)))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
