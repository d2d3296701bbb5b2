// Package unfurl turns links shared in Slack into rich previews of the
// feedback site's knowledge and discussion pages.
//
// The pipeline per link is Classifier (URL → Reference), Resolver
// (Reference → Record, applying publish and completeness gates) and Renderer
// (Record → Preview). Unfurler drives the pipeline for every link of one
// link_shared event and submits the collected previews in a single call.
package unfurl
