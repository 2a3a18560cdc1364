// Package compiler compiles style modules.
//
// A module is a source file of top-level bindings. Bindings are evaluated in
// order and those with statically known values become constants for the
// bindings that follow. A binding initialized with create(...) is a style
// definition: its argument is evaluated by [lang.EvaluateStyleDefinition]
// and its namespaces are compiled by [style.Create].
//
//	const primary = "red";
//	export const styles = create({
//	  base: { color: primary },
//	  size: (w) => ({ width: w }),
//	});
//
// A definition that cannot be resolved statically fails with [ErrDeferred]
// at the position of the unresolved expression.
package compiler
