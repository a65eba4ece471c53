// Package quadtree implements the Barnes-Hut spatial tree.
//
// The tree is rebuilt from the particle store every step and discarded
// afterwards. Nodes live in a single arena slice addressed by [Handle];
// [Tree.Build] truncates the arena instead of freeing nodes one by one.
//
// Each node is in exactly one of three states ([Kind]):
//
//   - Empty: no particle
//   - Leaf: exactly one particle; aggregate mass and centre of mass are
//     that particle's own
//   - Internal: up to four lazily created children; aggregate mass and
//     centre of mass are accumulated as particles are routed through it
//
// # Depth limit
//
// A leaf at the maximum depth that receives a second particle is
// overwritten by the newcomer. Ancestors still account for both masses, so
// the root aggregate stays exact; only the deepest cell loses a body. This is
// an accuracy limit at extreme local density, not an error.
//
// # Queries
//
// [Tree.Acceleration] applies the opening-angle rule: an internal node whose
// size/distance ratio is below θ is treated as a single body and its
// children are skipped; otherwise the children are visited and the node's
// own aggregate is not applied. Leaves are always exact.
package quadtree
