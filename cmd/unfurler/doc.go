// Package main hosts the feedback-unfurler entrypoint.
//
// Architecture overview:
//   - Transport: Slack delivers link_shared events over Socket Mode (default) or the signed HTTP Events API
//     served by internal/api on server.events_path. Events are acknowledged immediately and handled in their own
//     goroutine, bounded by slack.event_timeout_seconds.
//   - Pipeline: internal/unfurl classifies each shared URL against site.host, resolves knowledge or discussion
//     records from the content store (Postgres or in-memory fixtures) and renders localized previews. All previews
//     of one event are submitted in a single chat.unfurl call.
//   - Plumbing: Viper populates config from a YAML file, UNFURLER_* env vars and the legacy SLACK_TOKEN / PORT /
//     DATABASE_URL names; zap provides structured logging; Prometheus metrics are exported on /metrics.
//
// Quick checklist:
//   - Socket Mode: set SLACK_TOKEN (bot token) and SLACK_APP_TOKEN (xapp- token).
//   - HTTP mode: set UNFURLER_SLACK_SOCKET_MODE=false and SLACK_SIGNING_SECRET, then point the Slack app's
//     request URL at /slack/events.
//   - Store: DATABASE_URL for Postgres, or UNFURLER_STORE_DRIVER=memory with UNFURLER_STORE_FIXTURES.
//   - Try a link without Slack: unfurler preview --config config.yaml https://nextnjrfeedback.net/knowledge/<id>
package main
