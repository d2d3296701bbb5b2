// Package slackbot connects the unfurl pipeline to Slack.
//
// Inbound link_shared events arrive either over Socket Mode (SocketRunner) or
// the signed HTTP Events API (EventsHandler). Both acknowledge first and hand
// the event to a Dispatcher, which runs the pipeline in its own goroutine.
// Outbound previews are submitted through Poster via chat.unfurl.
package slackbot
