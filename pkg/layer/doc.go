// Package layer holds the in-memory model of a layered canvas: the set of
// placed images, their content-space positions, their paint order and the
// focus/drag state of the editing session.
//
// # Store
//
// [Store] is the single source of truth. Every other component reads or
// mutates layers through its methods; nothing reaches into its fields.
// A store is created empty at the start of a session and lives until the
// session ends.
//
// Operations that name a layer by [ID] silently ignore ids that are not in
// the store. Ids are generated internally, so a stale id only ever comes
// from a harmless race such as a drag release arriving after a delete.
//
// # Paint order
//
// Each layer carries a ZIndex. Larger values paint later (on top). Values
// need not be contiguous. [Store.Add] always places the new layer above all
// existing ones. The reordering operations are:
//
//   - [Store.BringToFront]: one above the current maximum
//   - [Store.SendToBack]: one below the current minimum
//   - [Store.MoveUp], [Store.MoveDown]: swap with the neighbouring distinct value
//
// MoveUp and MoveDown work on the sorted sequence of distinct ZIndex values,
// not on layer positions in a list. When several layers share the
// neighbouring value the whole group trades places with the acting layer in
// one step:
//
//	z: a=1 b=1 c=2
//	MoveUp(a) -> a=2 b=1 c=1
//
// # Concurrency
//
// A Store is not safe for concurrent use. The editor mutates it from a single
// event loop.
package layer
