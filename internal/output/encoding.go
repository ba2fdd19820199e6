package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"carnorm/internal/car"
)

// EncodeRecords produces the canonical, compact JSON array for records.
func EncodeRecords(records []car.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeRecord(&buf, &records[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// EncodeRecordsIndented produces the canonical JSON array with each element
// on its own line. Number literals are kept exactly as EncodeRecords writes
// them.
func EncodeRecordsIndented(records []car.Record, indent string) ([]byte, error) {
	compact, err := EncodeRecords(records)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRecord(buf *bytes.Buffer, r *car.Record) error {
	if math.IsNaN(r.Efficiency) || math.IsInf(r.Efficiency, 0) {
		return fmt.Errorf("efficiency %v has no JSON representation", r.Efficiency)
	}

	buf.WriteByte('{')

	writeKey(buf, car.FieldName.Canonical, true)
	if err := writeString(buf, r.Name); err != nil {
		return err
	}

	writeKey(buf, car.FieldEfficiency.Canonical, false)
	buf.WriteString(FormatDecimal(r.Efficiency))

	writeKey(buf, car.FieldDisplacement.Canonical, false)
	if r.Displacement == nil {
		buf.WriteString("null")
	} else if err := writeString(buf, *r.Displacement); err != nil {
		return err
	}

	writeKey(buf, car.FieldHorsepower.Canonical, false)
	buf.WriteString(strconv.FormatUint(uint64(r.Horsepower), 10))

	writeKey(buf, car.FieldWeight.Canonical, false)
	buf.WriteString(strconv.FormatUint(uint64(r.Weight), 10))

	writeKey(buf, car.FieldCylinders.Canonical, false)
	buf.WriteString(strconv.FormatInt(int64(r.CylinderCount), 10))

	writeKey(buf, car.FieldModelYear.Canonical, false)
	if r.ModelYear.Present() {
		buf.WriteByte('"')
		buf.WriteString(r.ModelYear.String())
		buf.WriteByte('"')
	} else {
		buf.WriteString("null")
	}

	writeKey(buf, car.FieldAcceleration.Canonical, false)
	buf.WriteString(strconv.FormatInt(r.Acceleration, 10))

	buf.WriteByte('}')
	return nil
}

// writeKey writes a key known to need no escaping, preceded by a comma
// unless it is the first key of the object.
func writeKey(buf *bytes.Buffer, key string, first bool) {
	if !first {
		buf.WriteByte(',')
	}
	buf.WriteByte('"')
	buf.WriteString(key)
	buf.WriteString(`":`)
}

// writeString writes s as a JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	encoder := json.NewEncoder(&tmp)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil {
		return err
	}

	// Remove the trailing newline added by Encode
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
