// Package formats registers the provider layouts with core.
//
// Import it for side effects:
//
//	import _ "github.com/JonMunkholm/covidconv/internal/core/formats"
//
// ulklc is the raw layout (one row per country per day, one file).
// cssegi is the aspect layout (one row per country, one column per date,
// one file per metric).
package formats
