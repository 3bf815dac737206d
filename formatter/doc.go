// Package formatter reshapes canonical upstream data into the API's response
// views. Everything here is a pure function over already-fetched data; no
// network I/O happens in this package.
package formatter
