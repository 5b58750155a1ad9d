// Package match resolves a hovered link's URL to a directly loadable image
// URL. Resolution is pure string work — no I/O, no side effects. A URL
// resolves when its path ends in a known image extension, or when it is a
// bare imgur page link, which is rewritten to the i.imgur.com direct form.
package match
