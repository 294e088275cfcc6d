package stdlib

import "github.com/wbrown/cycles/lang/interp"

// Install registers every stdlib library ("stdlib", "cycles/console",
// "cycles/math", "cycles/core") against e's Registry so scripts can `import * from
// "cycles/core"` and friends. Hosts that want a narrower surface can instead
// call Console()/Math()/Pattern() individually against their own Registry.
func Install(e *interp.Engine) {
	e.Registry.RegisterLibrary(Stdlib())
	e.Registry.RegisterLibrary(Console())
	e.Registry.RegisterLibrary(Math())
	e.Registry.RegisterLibrary(Pattern())
}
