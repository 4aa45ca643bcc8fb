// Package services contains the application services of the Eventhub
// client: the session controller that owns login state, and the event
// service wrapping the events API.
package services
