// Package integrationtests runs the dvctree command line end to end against
// repository trees written to temporary directories.
package integrationtests
