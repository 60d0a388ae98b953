// Package ir defines the structured WebAssembly expression tree and module
// containers consumed by the optimizer core.
//
// Parsing a wasm binary into this tree, and encoding it back out, are owned
// elsewhere (the core treats them as external collaborators); this package
// only defines the shapes the dataflow passes under internal/ walk and
// rewrite in place.
package ir
