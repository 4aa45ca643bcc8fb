// Package metadata stores string key/value pairs in the local client
// database. The credential store keeps its tokens here under the keys
// "access_token" and "refresh_token".
package metadata
