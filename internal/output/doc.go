// Package output produces the canonical JSON text for normalized car records.
//
// Identical record sequences always encode to byte-identical output, and the
// output is itself valid carnorm input that normalizes back to the same
// records.
//
// # Encoding Rules
//
//  1. Key order is fixed: name, efficiency, displacement, horsepower, weight,
//     cylinder_count, model_year, acceleration
//  2. efficiency always carries a decimal point (16.0, never 16)
//  3. displacement and model_year are null when absent; model_year is
//     YYYY-MM-DD otherwise
//  4. horsepower, weight, cylinder_count and acceleration are integers
//  5. Strings are escaped without HTML escaping
//  6. An empty sequence encodes as [] (never null)
//
// # Usage Example
//
//	car.Sort(records)
//	data, err := output.EncodeRecords(records)
//
//	// Same input will always produce identical bytes
//	data2, _ := output.EncodeRecords(records)
//	// bytes.Equal(data, data2) == true
package output
