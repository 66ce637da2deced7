// Package data embeds the sample datasets served when DATA_SOURCE includes
// "embedded".
package data

import "embed"

// Files holds the sample JSON documents
//
//go:embed *.json
var Files embed.FS
