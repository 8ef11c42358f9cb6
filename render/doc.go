// Package render lays out two stops' arrivals side by side on a monochrome canvas.
//
// The geometry follows a fixed 800x480 reference layout that is scaled to whatever
// canvas the panel provides:
//
//	+------------------------+------------------------+
//	|       Downstairs       |        Opposite        |
//	| [172]  3 | 12          | [88]   1 | 9 | 20      |
//	| [52]   -1 | 2 | 25    | ...                    |
//	+------------------------+------------------------+
//
// Rendering is pure: it touches only the canvas it is handed and produces the same
// pixels for the same input.
package render
