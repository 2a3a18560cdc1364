// Package lang parses style modules and evaluates their expression trees
// with confidence tracking.
//
// # Expression trees
//
// Trees are built from [Node] values. The evaluators depend only on the
// [Node] interface and its exported variants, so any front-end able to
// produce them can feed the compiler. [Parse] is the reference front-end: it
// parses full JavaScript with tdewolff/parse and converts the top-level
// declarations of the module.
//
//	const primary = "red";
//	export const styles = create({ base: { color: primary } });
//
// Literals, identifiers, member accesses, calls, object and array literals,
// arrow functions, operators, ternaries and template literals become
// structured nodes. Other expressions, such as optional chains, are kept as
// opaque [Expr] text and evaluated by expr-lang.
//
// # Confidence
//
// [Evaluate] returns a [Result] that is either confident, carrying the
// computed value, or deferred, carrying the node that could not be resolved
// and a reason. Deferral is a value, not an error: errors are reserved for
// trees that can never represent a value.
//
// [EvaluatePartialObject] tolerates deferred scalar values inside style
// objects. Each is replaced with a var(--name) reference and recorded as an
// [InlineStyle]:
//
//	{ color: props.color, ":hover": { width: w } }
//
// evaluates to
//
//	{ color: "var(--color)", ":hover": { width: "var(--<hash of :hover_width>)" } }
//
// with the width wrapped so that numbers gain a px unit at runtime.
//
// [EvaluateStyleDefinition] applies this to every arrow-function namespace of
// a style definition, producing [DynamicStyleFunction] descriptors.
package lang
