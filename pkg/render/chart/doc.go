// Package chart renders the weekly metric chart used for sleep and
// absence tracking.
//
// The chart covers a window of whole weeks ending with the current one.
// Each week with at least one sample gets a row: a "dd/mm - dd/mm" title
// band and one colored box per day with data. Weeks without samples take
// no vertical space at all, so the row height depends on how many weeks
// have data rather than on the window length.
//
// Raw amounts are tenths of the display unit; see [Normalize]. Each box is
// colored by its deviation from the overall average with [ColorFor]. The
// footer shows the overall average and one average per weekday.
package chart
