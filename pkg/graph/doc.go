// Package graph defines the scene produced by evaluating a scene
// description. A scene is an ordered list of named parts, each holding one
// implicit function to tessellate.
package graph
