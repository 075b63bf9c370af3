// Package advault provides a local archiver for single ads from the Meta
// Ad Library. Given an Ad Library URL it drives a headless browser session,
// isolates the one ad from the surrounding search results, downloads the
// ad's media, and persists everything as a self-contained folder on disk.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, fs/, goquery/).
package advault
