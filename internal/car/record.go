// Package car holds the typed automobile record and the rules that build it
// from loosely-typed JSON: one coercer per ambiguous field, the record
// normalizer that applies them, and the three-key ordering used to sort
// normalized records.
//
// Nothing in this package performs I/O or logs. Every function is pure and
// safe to call concurrently on independent inputs.
package car

import (
	"time"
)

// DateLayout is the only accepted model-year layout.
const DateLayout = "2006-01-02"

// RawRecord is one untyped JSON object from the input array, decoded with
// json.Decoder.UseNumber so that numbers arrive as json.Number.
type RawRecord map[string]interface{}

// Field names one logical record field: the conventional input key and the
// canonical output key.
type Field struct {
	Key       string
	Canonical string
}

var (
	FieldName         = Field{Key: "Name", Canonical: "name"}
	FieldEfficiency   = Field{Key: "Miles_per_Gallon", Canonical: "efficiency"}
	FieldDisplacement = Field{Key: "Displacement", Canonical: "displacement"}
	FieldHorsepower   = Field{Key: "Horsepower", Canonical: "horsepower"}
	FieldWeight       = Field{Key: "Weight_in_lbs", Canonical: "weight"}
	FieldCylinders    = Field{Key: "Cylinders", Canonical: "cylinder_count"}
	FieldModelYear    = Field{Key: "Year", Canonical: "model_year"}
	FieldAcceleration = Field{Key: "Acceleration", Canonical: "acceleration"}
)

// Fields lists every record field in canonical output order.
var Fields = []Field{
	FieldName,
	FieldEfficiency,
	FieldDisplacement,
	FieldHorsepower,
	FieldWeight,
	FieldCylinders,
	FieldModelYear,
	FieldAcceleration,
}

// Lookup returns the value stored under the field's conventional key, falling
// back to its canonical key. Missing keys and JSON null both yield nil.
func (r RawRecord) Lookup(f Field) interface{} {
	if v, ok := r[f.Key]; ok {
		return v
	}
	return r[f.Canonical]
}

// Record is the normalized, strictly-typed automobile record.
type Record struct {
	Name          string
	Efficiency    float64
	Displacement  *string
	Horsepower    uint8
	Weight        uint16
	CylinderCount int32
	ModelYear     ModelYear
	Acceleration  int64
}

// ModelYear is either a present UTC calendar date or absent. The zero value
// is absent, which is distinct from any present date.
type ModelYear struct {
	date    time.Time
	present bool
}

// NoModelYear returns the absent model year.
func NoModelYear() ModelYear {
	return ModelYear{}
}

// ModelYearOf returns a present model year for t, truncated to its UTC day.
func ModelYearOf(t time.Time) ModelYear {
	y, m, d := t.UTC().Date()
	return ModelYear{date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), present: true}
}

// ParseModelYear parses a YYYY-MM-DD string.
func ParseModelYear(s string) (ModelYear, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return ModelYear{}, err
	}
	return ModelYearOf(t), nil
}

// Present reports whether a date is set.
func (y ModelYear) Present() bool {
	return y.present
}

// Date returns the date and whether it is present.
func (y ModelYear) Date() (time.Time, bool) {
	return y.date, y.present
}

// String formats a present year as YYYY-MM-DD and an absent one as "".
func (y ModelYear) String() string {
	if !y.present {
		return ""
	}
	return y.date.Format(DateLayout)
}

// Compare orders model years: absent sorts before every present date, two
// absent years are equal, present dates compare chronologically.
func (y ModelYear) Compare(other ModelYear) int {
	switch {
	case !y.present && !other.present:
		return 0
	case !y.present:
		return -1
	case !other.present:
		return 1
	}
	return y.date.Compare(other.date)
}
