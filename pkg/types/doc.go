// Package types defines the identifier, value, and link types of the Gravel
// graph-of-values store, the Store interfaces, and the standard error
// sentinels shared by every backend.
package types
