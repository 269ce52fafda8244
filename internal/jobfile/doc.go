// Package jobfile describes the file roles of a simulation job and the
// extensions each role accepts.
//
// Matching is substring containment by default: a path is accepted when any
// allowed extension occurs anywhere in it. Strict matching requires the path
// to end with an allowed extension.
package jobfile
