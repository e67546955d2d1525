// Package domain models USGS earthquake events and their visual encoding.
//
// # Data Source
//
// Events come from the USGS GeoJSON summary feeds, e.g.
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson.
// Each feature carries properties.place, properties.time (epoch milliseconds)
// and properties.mag, plus a Point geometry whose coordinates are ordered
// [longitude, latitude, depth_km]. The adapter swaps the first two so every
// [LatLng] in this package is latitude-first, the order Leaflet expects.
//
// # Magnitude Bands
//
// Markers and legend share one threshold table of five bands:
//
//	band  range    color
//	0     0-1      #fafa6e
//	1     1-2      #fcce36
//	2     2-3      #fd9f00
//	3     3-4      #fa6a00
//	4     4+       #f20a0a
//
// Bands are tested from the top down with a strict greater-than against each
// lower bound, so a magnitude sitting exactly on a boundary (2.0) belongs to
// the band below it (1-2). Anything not above 1, including negative values
// and NaN, lands in the first band.
//
// # Marker Size
//
// Marker radius is magnitude * [MarkerScale] metres with no clamping. Zero or
// negative magnitudes yield zero or negative radii; Leaflet draws those as
// empty circles and that is accepted.
//
// # Popup Text
//
// The popup is the place as a heading, a horizontal rule, and then the event
// time followed immediately by the raw magnitude with no separator between
// them: "Tue Nov 14 2023 22:13:20 GMT+0000 (UTC)5.2". See [PopupHTML].
package domain
