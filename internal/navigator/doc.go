// Package navigator maps URL-style paths to views.
//
// A Table is built once from an ordered list of routes and never changes. Each
// route carries a loader that runs only the first time the route is resolved
// and invoked; later calls return the same view.
package navigator
