// Package surface turns a set of metaball influences into a triangle mesh.
//
// Influences are placed in normalized coordinates, the unit cube. A Marcher
// samples their summed potential on a regular grid and extracts the
// isolation level set with marching tetrahedra. Mesh vertices are in local
// space: the unit cube maps onto [-Scale, Scale] on every axis.
package surface
