// Package util holds small generic helpers shared by chatkit packages.
package util
