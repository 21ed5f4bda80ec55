// Package source converts external data into render inputs.
//
// Each adapter reads one foreign format and produces the plain values the
// engines consume, so the engines never see the foreign types:
//
//   - vCard contacts become "d/m-Name" birthday strings ([ReadVCardBirthdays])
//   - iCalendar events become period specs ([ReadICalPeriods])
//   - CSV and Parquet tables become chart samples ([ReadCSVSamples],
//     [ReadParquetSamples])
//   - start/stop intervals become accumulated daily amounts
//     ([SamplesFromIntervals])
//   - packed "RGBWKEName" records become period specs ([PackedPeriod])
//
// Adapters read from an io.Reader and never close it. Malformed records fail
// with an ErrCodeParse error naming the record; records that are merely
// unusable, such as a contact without a birthday, are skipped.
package source
