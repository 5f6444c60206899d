// Package connectors holds the document sources a collection can be built
// from. Each connector implements driven.DocumentSource for one kind of
// storage; the filesystem connector reads .txt files from local disk.
package connectors
