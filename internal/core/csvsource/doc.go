// Package csvsource reads a delimited text stream into a header Schema and a
// reusable Record, and classifies each row's columns into standard fields and
// customer extension fields.
//
// Columns whose header name starts with CustomerExtensionPrefix are customer
// extensions; every other column is standard. Classification yields
// (tag, value) pairs lazily and in header order, skipping empty values, with
// the prefix stripped from extension tags.
//
// Typical use:
//
//	rd, schema, err := csvsource.Open(in, ',')
//	if err != nil {
//		return err
//	}
//	rec := csvsource.NewRecord(schema)
//	for {
//		ok, err := rd.Read(rec)
//		if err != nil {
//			return err
//		}
//		if !ok {
//			break
//		}
//		for tag, value := range rec.Standard() {
//			...
//		}
//	}
//
// A Schema is immutable and may be shared between goroutines. A Record and a
// Reader are not safe for concurrent use.
package csvsource
