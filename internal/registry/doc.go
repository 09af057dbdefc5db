// Package registry maintains the catalog of builtin widgets: the mapping from
// widget ID to its manifest and renderable content. Domain packages under
// widgets/ contribute their catalogs through the Module interface, and
// external widgets can be loaded from JSON manifest directories.
package registry
