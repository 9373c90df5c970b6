// Package catalog is the template library: the construction kinds (points,
// lines, circles, conics), the statement kinds and the symbolic templates
// they instantiate. Templates are built once and shared read-only.
package catalog
