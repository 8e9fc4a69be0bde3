// Package normalisers turns contract files into plain text. Each
// normaliser in a subpackage knows one family of MIME types; Registry
// dispatches a document to the highest-priority normaliser for its type.
package normalisers
