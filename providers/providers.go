// Package providers registers every built-in provider.
// Import it to make all of them available via provider.New and
// provider.FromConfig:
//
//	import _ "github.com/randalmurphal/fixkit/providers"
package providers

import (
	_ "github.com/randalmurphal/fixkit/command"
)
