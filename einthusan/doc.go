// Package einthusan provides a client for searching Einthusan, resolving
// playable download links, and authenticating for premium quality.
//
// The client wraps the site's HTML pages and AJAX endpoints behind three
// operations:
//
//   - Search finds movies for a title in a given language
//   - Resolve turns a watch-page URL into a direct MP4/HLS link,
//     reporting when premium quality requires an authenticated session
//   - Login performs the site's CSRF + AJAX form authentication
//
// Login is deliberately separate from search and resolve: it is only
// needed for premium (HD) streams, so standard-definition downloads
// never pay the authentication cost.
package einthusan
