// Package extractors turns stored document artifacts into plain text.
//
// Each extractor handles a family of file extensions; the Registry
// selects the right one for a given path and falls back to a verbatim
// plaintext read for unknown formats, matching how uploads without a
// recognised extension are treated.
package extractors
