// Package compiles checks that rule files compile with libyara. The check
// needs cgo and libyara and is only built with the "yara" build tag;
// without it the package registers nothing.
package compiles
