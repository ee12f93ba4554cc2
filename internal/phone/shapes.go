package phone

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// The dataset's schema evolved over time, so the fields below arrive as strings, numbers,
// arrays or nested objects. Each one is decoded once into a tagged variant. Decoding never
// fails: a shape that is not understood is kept verbatim and treated as unknown.

type shapeKind int

const (
	shapeAbsent shapeKind = iota
	shapeText
	shapeList
	shapeObject
	shapeNumber
	shapeUnknown
)

var nullJSON = []byte("null")

// StartPrice is either a flat number or a tiered object with a starting price and variants.
type StartPrice struct {
	kind     shapeKind
	flat     float64
	starting float64
	variants []PriceVariant
	raw      json.RawMessage
}

// PriceVariant is a single configuration and its price as written in the dataset.
type PriceVariant struct {
	Config string `json:"config"`
	Price  string `json:"price"`
}

// FlatPrice builds a start price from a plain number.
func FlatPrice(value float64) StartPrice {
	raw, _ := json.Marshal(value)
	return StartPrice{kind: shapeNumber, flat: value, raw: raw}
}

// TieredPrice builds a start price object with a starting price and storage variants.
func TieredPrice(starting float64, variants []PriceVariant) StartPrice {
	var buf bytes.Buffer
	buf.WriteString(`{"starting_price":`)
	startingRaw, _ := json.Marshal(starting)
	buf.Write(startingRaw)
	if len(variants) > 0 {
		buf.WriteString(`,"storage_variants":{`)
		for i, v := range variants {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, _ := json.Marshal(v.Config)
			p, _ := json.Marshal(v.Price)
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(p)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	var p StartPrice
	_ = p.UnmarshalJSON(buf.Bytes())
	return p
}

// IsTiered reports whether the price was given as an object.
func (p StartPrice) IsTiered() bool {
	return p.kind == shapeObject
}

func (p StartPrice) IsZero() bool {
	return p.kind == shapeAbsent
}

func (p StartPrice) clone() StartPrice {
	c := p
	if p.variants != nil {
		c.variants = append([]PriceVariant(nil), p.variants...)
	}
	if p.raw != nil {
		c.raw = append(json.RawMessage(nil), p.raw...)
	}
	return c
}

func (p *StartPrice) UnmarshalJSON(data []byte) error {
	*p = StartPrice{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullJSON) {
		return nil
	}
	p.raw = append(json.RawMessage(nil), data...)

	switch kindOf(data) {
	case shapeNumber:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			p.kind = shapeUnknown
			return nil
		}
		p.kind = shapeNumber
		p.flat = n
	case shapeObject:
		members, ok := orderedMembers(data)
		if !ok {
			p.kind = shapeUnknown
			return nil
		}
		p.kind = shapeObject
		for _, m := range members {
			switch m.key {
			case "starting_price":
				p.starting = leadingInteger(m.value)
			case "storage_variants":
				nested, ok := orderedMembers(m.value)
				if !ok {
					continue
				}
				for _, v := range nested {
					if price, ok := scalarText(v.value); ok && price != "" {
						p.variants = append(p.variants, PriceVariant{Config: NormalizeConfigLabel(v.key), Price: price})
					}
				}
			default:
				if price, ok := stringValue(m.value); ok && isPriceLike(price) {
					p.variants = append(p.variants, PriceVariant{Config: NormalizeConfigLabel(m.key), Price: price})
				}
			}
		}
	default:
		p.kind = shapeUnknown
	}
	return nil
}

func (p StartPrice) MarshalJSON() ([]byte, error) {
	if p.kind == shapeAbsent || len(p.raw) == 0 {
		return nullJSON, nil
	}
	return p.raw, nil
}

// Charging is either free text or a wired/wireless pair.
type Charging struct {
	kind     shapeKind
	text     string
	wired    string
	wireless string
	raw      json.RawMessage
}

// ChargingText builds a charging value from free text.
func ChargingText(text string) Charging {
	c := Charging{}
	raw, _ := json.Marshal(text)
	_ = c.UnmarshalJSON(raw)
	return c
}

// SplitCharging builds a charging value from wired and wireless ratings.
func SplitCharging(wired, wireless string) Charging {
	raw, _ := json.Marshal(map[string]string{"wired": wired, "wireless": wireless})
	c := Charging{}
	_ = c.UnmarshalJSON(raw)
	return c
}

func (c Charging) IsZero() bool {
	return c.kind == shapeAbsent
}

func (c Charging) clone() Charging {
	out := c
	if c.raw != nil {
		out.raw = append(json.RawMessage(nil), c.raw...)
	}
	return out
}

func (c *Charging) UnmarshalJSON(data []byte) error {
	*c = Charging{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullJSON) {
		return nil
	}
	c.raw = append(json.RawMessage(nil), data...)

	switch kindOf(data) {
	case shapeText:
		s, _ := stringValue(data)
		c.kind = shapeText
		c.text = s
	case shapeObject:
		members, ok := orderedMembers(data)
		if !ok {
			c.kind = shapeUnknown
			return nil
		}
		c.kind = shapeObject
		for _, m := range members {
			switch m.key {
			case "wired":
				c.wired, _ = scalarText(m.value)
			case "wireless":
				c.wireless, _ = scalarText(m.value)
			}
		}
	default:
		c.kind = shapeUnknown
	}
	return nil
}

func (c Charging) MarshalJSON() ([]byte, error) {
	if c.kind == shapeAbsent || len(c.raw) == 0 {
		return nullJSON, nil
	}
	return c.raw, nil
}

// Storage is either free text or an ordered list of options.
type Storage struct {
	kind    shapeKind
	text    string
	options []string
	raw     json.RawMessage
}

// StorageText builds a storage value from free text.
func StorageText(text string) Storage {
	s := Storage{}
	raw, _ := json.Marshal(text)
	_ = s.UnmarshalJSON(raw)
	return s
}

// StorageOptions builds a storage value from a list of options.
func StorageOptions(options ...string) Storage {
	s := Storage{}
	raw, _ := json.Marshal(options)
	_ = s.UnmarshalJSON(raw)
	return s
}

func (s Storage) IsZero() bool {
	return s.kind == shapeAbsent
}

func (s Storage) clone() Storage {
	out := s
	if s.options != nil {
		out.options = append([]string(nil), s.options...)
	}
	if s.raw != nil {
		out.raw = append(json.RawMessage(nil), s.raw...)
	}
	return out
}

func (s *Storage) UnmarshalJSON(data []byte) error {
	*s = Storage{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullJSON) {
		return nil
	}
	s.raw = append(json.RawMessage(nil), data...)

	switch kindOf(data) {
	case shapeText:
		s.kind = shapeText
		s.text, _ = stringValue(data)
	case shapeList:
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			s.kind = shapeUnknown
			return nil
		}
		s.kind = shapeList
		s.options = make([]string, 0, len(items))
		for _, item := range items {
			if text, ok := scalarText(item); ok && text != "" {
				s.options = append(s.options, text)
			}
		}
	default:
		s.kind = shapeUnknown
	}
	return nil
}

func (s Storage) MarshalJSON() ([]byte, error) {
	if s.kind == shapeAbsent || len(s.raw) == 0 {
		return nullJSON, nil
	}
	return s.raw, nil
}

// RearCamera is either free text or a main/ultra-wide/telephoto set of lenses.
type RearCamera struct {
	kind      shapeKind
	text      string
	main      string
	ultraWide string
	telephoto string
	raw       json.RawMessage
}

// RearCameraText builds a rear camera value from free text.
func RearCameraText(text string) RearCamera {
	c := RearCamera{}
	raw, _ := json.Marshal(text)
	_ = c.UnmarshalJSON(raw)
	return c
}

// RearCameraLenses builds a rear camera value from its individual lenses.
func RearCameraLenses(main, ultraWide, telephoto string) RearCamera {
	raw, _ := json.Marshal(map[string]string{"main": main, "ultra_wide": ultraWide, "telephoto": telephoto})
	c := RearCamera{}
	_ = c.UnmarshalJSON(raw)
	return c
}

func (c RearCamera) IsZero() bool {
	return c.kind == shapeAbsent
}

func (c RearCamera) clone() RearCamera {
	out := c
	if c.raw != nil {
		out.raw = append(json.RawMessage(nil), c.raw...)
	}
	return out
}

func (c *RearCamera) UnmarshalJSON(data []byte) error {
	*c = RearCamera{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullJSON) {
		return nil
	}
	c.raw = append(json.RawMessage(nil), data...)

	switch kindOf(data) {
	case shapeText:
		c.kind = shapeText
		c.text, _ = stringValue(data)
	case shapeObject:
		members, ok := orderedMembers(data)
		if !ok {
			c.kind = shapeUnknown
			return nil
		}
		c.kind = shapeObject
		for _, m := range members {
			switch m.key {
			case "main":
				c.main, _ = scalarText(m.value)
			case "ultra_wide":
				c.ultraWide, _ = scalarText(m.value)
			case "telephoto":
				c.telephoto, _ = scalarText(m.value)
			}
		}
	default:
		c.kind = shapeUnknown
	}
	return nil
}

func (c RearCamera) MarshalJSON() ([]byte, error) {
	if c.kind == shapeAbsent || len(c.raw) == 0 {
		return nullJSON, nil
	}
	return c.raw, nil
}

type member struct {
	key   string
	value json.RawMessage
}

// orderedMembers decodes a JSON object keeping the order its keys were written in.
func orderedMembers(data []byte) ([]member, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}

	var members []member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		members = append(members, member{key: key, value: value})
	}
	return members, true
}

func kindOf(data []byte) shapeKind {
	if len(data) == 0 {
		return shapeAbsent
	}
	switch c := data[0]; {
	case c == '"':
		return shapeText
	case c == '[':
		return shapeList
	case c == '{':
		return shapeObject
	case c == '-' || (c >= '0' && c <= '9'):
		return shapeNumber
	}
	return shapeUnknown
}

func stringValue(data json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}

// scalarText renders a string or number as text.
func scalarText(data json.RawMessage) (string, bool) {
	data = bytes.TrimSpace(data)
	switch kindOf(data) {
	case shapeText:
		return stringValue(data)
	case shapeNumber:
		return string(data), true
	}
	return "", false
}

var nonDigits = regexp.MustCompile(`\D`)

// leadingInteger parses a number, or a string like "5699元", down to its integer value.
func leadingInteger(data json.RawMessage) float64 {
	data = bytes.TrimSpace(data)
	switch kindOf(data) {
	case shapeNumber:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil || n < 0 {
			return 0
		}
		return n
	case shapeText:
		s, _ := stringValue(data)
		return parseDigits(s)
	}
	return 0
}

func parseDigits(s string) float64 {
	if i := strings.IndexAny(s, "."); i >= 0 {
		s = s[:i]
	}
	digits := nonDigits.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return float64(n)
}

var priceLike = regexp.MustCompile(`^[¥￥]?\s*\d[\d,]*(\.\d+)?\s*(元|元起|起|RMB|CNY)?$`)

func isPriceLike(s string) bool {
	return priceLike.MatchString(strings.TrimSpace(s))
}

var configPart = regexp.MustCompile(`^\d+$`)

// NormalizeConfigLabel turns shorthand like "12+256" into "12G+256G".
func NormalizeConfigLabel(label string) string {
	parts := strings.Split(strings.TrimSpace(label), "+")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if configPart.MatchString(part) {
			part += "G"
		}
		parts[i] = part
	}
	return strings.Join(parts, "+")
}
