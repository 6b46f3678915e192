// Package drive talks to the Google Drive v3 API and turns folder trees
// into an ordered stream of media items.
//
// Client handles authentication, pagination, retries, and error
// classification. Walker layers the traversal policy on top: depth-first
// descent, files before subfolders, locale-aware numeric name ordering,
// and skip lists for subtrees that never enter the catalog. The item
// order Walk returns is the playback order the reconciler persists.
package drive
