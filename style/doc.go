// Package style compiles evaluated style namespaces into atomic CSS classes.
//
// Each namespace is validated, flattened into one entry per property, and
// deduplicated so that a repeated key keeps its last value. Every entry then
// compiles to zero or more atomic classes whose names are content hashes of
// the property, value, and conditions. The result of [Create] maps each key
// to its class names and collects the CSS of every class exactly once:
//
//	ns := lang.NewObject()
//	ns.Set("color", "red")
//
//	compiled, injected, _, err := style.Create(ctx,
//		[]style.Namespace{{Name: "button", Styles: ns}},
//		style.DefaultOptions())
//
// [Stylesheet] renders the injected styles in priority order.
package style
