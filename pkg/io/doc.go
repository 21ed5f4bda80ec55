// Package io reads and writes input bundles: files that carry every
// parameter of one calendar or chart render.
//
// # Formats
//
// Bundles are JSON or TOML; the format follows the file extension. A
// calendar bundle in TOML:
//
//	start = "1/1/2024"
//	weeks = 26
//	smooth = 205
//	birthdays = ["15/03-Alice", "2/10-Bob"]
//
//	[[periods]]
//	iDay = "1/7/2024"
//	fDay = "31/7/2024"
//	name = "Summer"
//	color = "0F0"
//	weekend = "0A0"
//	exceptions = ["15/7/2024"]
//
// The same bundle in JSON uses the same keys. Periods keep the
// iDay/fDay/name/color/weekend/exceptions schema of the render API.
//
// A chart bundle lists samples as [day, amount] pairs, where day is an
// ordinal day number or a "d/m[/y]" string and amount is in tenths:
//
//	{"weeks": 8, "samples": [[738885, 75], ["2/1/2024", 80]]}
//
// # Import
//
// Use [ImportCalendar] and [ImportChart] to read a file, or [ReadCalendar]
// and [ReadChart] to read from any io.Reader with an explicit [Format].
// Missing fields stay zero; defaults are applied when a bundle is turned
// into render parameters with [Calendar.Params] and [Chart.Params].
//
// # Export
//
// [WriteCalendar] and [ExportCalendar] write a calendar bundle back out,
// which the CLI uses to scaffold a starting file.
package io
