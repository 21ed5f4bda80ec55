// Package calendar renders the monthly calendar sheet: a 7-column grid of
// day cells under a weekday header, tinted by colored periods and annotated
// with birthdays and period labels.
//
// # Pipeline
//
// A render runs in three steps:
//
//  1. Periods are resolved and merged into a [DayMap] by [MergePeriods].
//     Later periods overwrite earlier ones day by day. The map keeps the
//     order in which days were first inserted.
//  2. [Layout] computes a [Grid]: one [Cell] per day with its rectangle,
//     smoothed color, birthdays and label visibility.
//  3. [Draw] paints the grid through a per-render canvas context.
//
// [Render] and [RenderPNG] chain the steps.
//
// # Labels
//
// A period label is drawn on a day unless the same label is among the
// previous 7 entries of the day map, walked in insertion order. Days
// without a label occupy window slots too. For a single uninterrupted
// period this draws the label once, on its first day.
//
// # Smoothing
//
// Cell colors are tinted toward white by the smooth factor. See [Smooth].
package calendar
