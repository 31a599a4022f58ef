// Package model defines the structural model types for structview: 3D
// nodes and members, 2D shape templates, target edges, and the Structure
// container the engine reads from and writes to. Values are plain data;
// every geometry operation elsewhere takes them by value and returns fresh
// copies.
package model
