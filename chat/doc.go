// Package chat defines the backend-agnostic chat-completion interface:
// conversation messages, tool schemas, response-format directives, results,
// usage accounting and the Client contract that backend adapters implement.
//
// Messages form a closed set. Every switch over Message or Part handles each
// variant explicitly and rejects anything else with an INVALID_CONTENT_PART
// error, so adding a variant is caught at the translation boundary.
package chat
