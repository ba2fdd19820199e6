package car

// Normalize builds a Record from one raw JSON object. The only errors are
// the MalformedField failures of CoerceAcceleration and CoerceModelYear;
// every other irregularity falls back to the field default.
func Normalize(raw RawRecord) (Record, error) {
	acceleration, err := CoerceAcceleration(raw.Lookup(FieldAcceleration))
	if err != nil {
		return Record{}, err
	}
	year, err := CoerceModelYear(raw.Lookup(FieldModelYear))
	if err != nil {
		return Record{}, err
	}

	return Record{
		Name:          CoerceName(raw.Lookup(FieldName)),
		Efficiency:    CoerceEfficiency(raw.Lookup(FieldEfficiency)),
		Displacement:  CoerceDisplacement(raw.Lookup(FieldDisplacement)),
		Horsepower:    CoerceHorsepower(raw.Lookup(FieldHorsepower)),
		Weight:        CoerceWeight(raw.Lookup(FieldWeight)),
		CylinderCount: CoerceCylinders(raw.Lookup(FieldCylinders)),
		ModelYear:     year,
		Acceleration:  acceleration,
	}, nil
}
