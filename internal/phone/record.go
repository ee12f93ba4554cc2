// Package phone provides the phone specification record and the normalizers that turn its
// loosely shaped fields into display values.
package phone

// Record is one phone's specification entry.
type Record struct {
	ID            string            `json:"id"`
	Brand         string            `json:"brand"`
	Model         string            `json:"model"`
	Series        string            `json:"series"`
	Category      string            `json:"category"`
	Processor     Processor         `json:"processor"`
	Memory        Memory            `json:"memory"`
	Display       Display           `json:"display"`
	Camera        Camera            `json:"camera"`
	Battery       Battery           `json:"battery"`
	Price         Price             `json:"price"`
	ReleaseDate   string            `json:"release_date,omitempty"`
	Features      []string          `json:"features,omitempty"`
	PurchaseLinks map[string]string `json:"purchase_links,omitempty"`
	DetailImages  []string          `json:"detail_images,omitempty"`
	Description   string            `json:"description,omitempty"`
}

type Processor struct {
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`
}

type Memory struct {
	RAM     string  `json:"ram,omitempty"`
	Storage Storage `json:"storage"`
}

type Display struct {
	Size        string `json:"size,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
	RefreshRate string `json:"refresh_rate,omitempty"`
}

type Camera struct {
	Rear  RearCamera `json:"rear"`
	Front string     `json:"front,omitempty"`
}

type Battery struct {
	Capacity string   `json:"capacity,omitempty"`
	Charging Charging `json:"charging"`
}

// Price holds the starting price in one of its historical shapes.
type Price struct {
	Start    StartPrice `json:"start_price"`
	Currency string     `json:"currency,omitempty"`
}

// Clone returns a deep copy so that callers can hand records out without sharing slices or maps.
func (r Record) Clone() Record {
	c := r
	if r.Features != nil {
		c.Features = append([]string(nil), r.Features...)
	}
	if r.DetailImages != nil {
		c.DetailImages = append([]string(nil), r.DetailImages...)
	}
	if r.PurchaseLinks != nil {
		c.PurchaseLinks = make(map[string]string, len(r.PurchaseLinks))
		for k, v := range r.PurchaseLinks {
			c.PurchaseLinks[k] = v
		}
	}
	c.Memory.Storage = r.Memory.Storage.clone()
	c.Camera.Rear = r.Camera.Rear.clone()
	c.Battery.Charging = r.Battery.Charging.clone()
	c.Price.Start = r.Price.Start.clone()
	return c
}

// CloneAll deep copies a slice of records.
func CloneAll(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// Title is the "Brand Model" label used as a column or page heading.
func (r Record) Title() string {
	switch {
	case r.Brand == "":
		return r.Model
	case r.Model == "":
		return r.Brand
	}
	return r.Brand + " " + r.Model
}
