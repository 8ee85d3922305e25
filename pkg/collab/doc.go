// Package collab is the collaborative code editing consumer of the realtime
// session layer.
//
// Replication is deliberately last-writer-wins: every local edit broadcasts
// the entire document, every remote code_update replaces the local document
// wholesale. The only guard is equality — an incoming update identical to
// the local text (typically the echo of one's own edit) is ignored so the
// editor is not re-rendered and the cursor does not jump. There is no
// operational transform and no merge of concurrent edits.
//
// After a lost transport reconnects, the session re-fetches the document
// over REST and applies it through the same equality guard, which covers
// updates dropped while offline.
package collab
