// Package security decides whether a command is safe to hand to a shell.
//
// The classifier is a lexical tripwire: it lowercases the command and looks
// for any fragment of a deny-list as a substring. It does not parse shell
// syntax, so obfuscated commands can slip through and benign commands that
// happen to contain a fragment are blocked. Callers treat it as a last line
// of defence in front of the confirmation prompt, not as a sandbox.
package security
