// Package treeval decodes dynamic trees of values onto static Go types.
//
// A [Value] is one node of such a tree: a null, boolean, integer, float or
// string, a sequence of values, or an ordered [Mapping] of value pairs.
// Trees usually come from a markup parser, see [FromYAML] and [FromJSON],
// but can just as well be assembled by hand with the New* constructors.
//
// The decode protocol connects a tree to a consumer: a [Decoder] (the tree
// side) hands each value to the matching Visit method of a [Visitor] (the
// consumer side), which turns it into whatever the caller needs. Custom
// visitors embed [BaseVisitor] and override the shapes they accept.
//
// Most callers never touch the protocol directly and instead use
// [Unmarshal], which drives it through reflection onto structs, maps,
// slices and scalars the way [encoding/json] does, or a [Binder] for
// per-call options.
package treeval
