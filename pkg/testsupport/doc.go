// Package testsupport holds golden-file helpers and an in-process fake of the
// remote postal lookup service shared by package tests.
package testsupport
