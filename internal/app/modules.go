package app

import (
	"github.com/stickernest/stickernest/internal/registry"
	"github.com/stickernest/stickernest/widgets/game"
	"github.com/stickernest/stickernest/widgets/grocery"
	"github.com/stickernest/stickernest/widgets/myspace"
)

// coreModules is the definitive list of all widget catalogs that are
// compiled into the stickernest binary.
var coreModules = []registry.Module{
	&grocery.Module{},
	&myspace.Module{},
	&game.Module{},
}
