// Package language resolves the CLI's user interface language and provides
// localized message printers.
//
// Codes, words, BCP 47 tags, and POSIX locale strings are all accepted and
// mapped onto the supported set (English and Russian) with an x/text matcher.
package language
