// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// Its subpackages wrap external services; nyt is the client
// for the NYT Books API.
package lib
