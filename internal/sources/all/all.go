// Package all imports all available sources for side-effect registration.
//
// Import this package from your main to ensure all sources are registered:
//
//	import _ "github.com/mkorolev/sportmonitor/internal/sources/all"
package all

import (
	_ "github.com/mkorolev/sportmonitor/internal/sources/flashscore"
	_ "github.com/mkorolev/sportmonitor/internal/sources/marathonbet"
	_ "github.com/mkorolev/sportmonitor/internal/sources/scores24"
	_ "github.com/mkorolev/sportmonitor/internal/sources/sofascore"
)
